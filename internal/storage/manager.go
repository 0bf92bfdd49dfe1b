package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rboyd0/agentstore/internal/config"
)

// DefaultTTL is how long a cloud handle is trusted before forced
// reconstruction. Half the upstream token lifetime, so an idle process never
// presents an expired token on its next request.
const DefaultTTL = 30 * time.Minute

// Manager owns the single live storage handle for its scope and hands out
// borrowed references through Get. It is an explicit, injectable object
// rather than process-global state, so tests can run independent managers in
// parallel; package-level accessors over one default Manager exist for call
// sites without dependency injection.
//
// Backend selection on (re)construction:
//  1. Force-cloud override set: attempt cloud.
//  2. Confirmed cloud host: attempt cloud; failure is fatal.
//  3. Cloud account and container configured: attempt cloud, fall back to
//     local on failure (local dev against the cloud backend).
//  4. Otherwise: local directly.
//
// A cloud handle older than the TTL is discarded and rebuilt atomically on
// the next Get. Local handles never expire. All state transitions are
// serialized by a mutex; Go hosts are multi-threaded, so racing first
// accesses must not each construct a handle.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	mu        sync.Mutex
	handle    Handle
	createdAt time.Time

	ttl time.Duration
	now func() time.Time

	// Construction hooks, replaceable in tests.
	newCloud func(ctx context.Context, account, container string, logger *slog.Logger) (Handle, error)
	newLocal func(root string, logger *slog.Logger) (Handle, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides the cloud handle TTL.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// NewManager creates a storage manager. The TTL comes from the
// configuration, falling back to DefaultTTL.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:    cfg,
		logger: logger,
		ttl:    DefaultTTL,
		now:    time.Now,
		newCloud: func(ctx context.Context, account, container string, logger *slog.Logger) (Handle, error) {
			return NewCloudHandle(ctx, account, container, logger)
		},
		newLocal: func(root string, logger *slog.Logger) (Handle, error) {
			return NewLocalHandle(root, logger)
		},
	}
	if cfg != nil && cfg.StorageTTLMinutes > 0 {
		m.ttl = cfg.StorageTTL()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the live storage handle, constructing or rebuilding it as
// needed. Repeated calls within the TTL window return the same instance.
// The only error case is cloud construction failure on a confirmed cloud
// host; everywhere else construction degrades to the local backend.
func (m *Manager) Get(ctx context.Context) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		if m.handle.Kind() != BackendCloud || m.now().Sub(m.createdAt) < m.ttl {
			return m.handle, nil
		}
		// Stale credential: discard fully, never a half-expired state.
		m.logger.Debug("cloud storage handle expired, rebuilding",
			"age", m.now().Sub(m.createdAt), "ttl", m.ttl)
		m.handle = nil
		m.createdAt = time.Time{}
	}

	h, err := m.build(ctx)
	if err != nil {
		return nil, err
	}
	m.handle = h
	m.createdAt = m.now()
	return h, nil
}

// GetSafe is the non-raising accessor for call sites where storage is
// optional (best-effort caching). It returns nil instead of an error.
func (m *Manager) GetSafe(ctx context.Context) Handle {
	h, err := m.Get(ctx)
	if err != nil {
		m.logger.Debug("storage unavailable", "error", err)
		return nil
	}
	return h
}

// Reset clears the cached handle and its creation timestamp
// unconditionally; the next Get rebuilds from scratch. Used by tests and to
// force a credential refresh ahead of the TTL.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handle = nil
	m.createdAt = time.Time{}
}

// build constructs the backend matching the environment. This is the one
// deliberate place a construction error is caught and translated into a
// fallback decision instead of a value the caller inspects: the "error" here
// is really the policy branch choosing which backend to use.
func (m *Manager) build(ctx context.Context) (Handle, error) {
	if m.shouldTryCloud() {
		h, err := m.newCloud(ctx, m.cfg.StorageAccount, m.cfg.StorageContainer, m.logger)
		if err == nil {
			m.logger.Info("using cloud storage",
				"account", m.cfg.StorageAccount, "container", m.cfg.StorageContainer, "ttl", m.ttl)
			return h, nil
		}

		if IsCloudHost() {
			return nil, fmt.Errorf("%w: %v", ErrCloudUnavailable, err)
		}

		if isAuthError(err) {
			// Common in local dev without the right role assignment; one
			// calm line instead of a scary stack.
			m.logger.Warn("cloud storage auth failed, falling back to local storage",
				"account", m.cfg.StorageAccount,
				"hint", "check your role assignment on the storage account")
		} else {
			m.logger.Warn("cloud storage unavailable, falling back to local storage",
				"account", m.cfg.StorageAccount, "error", err)
		}
	}

	h, err := m.newLocal(m.cfg.LocalRoot, m.logger)
	if err != nil {
		return nil, fmt.Errorf("constructing local storage: %w", err)
	}
	m.logger.Info("using local storage", "root", m.cfg.LocalRoot)
	return h, nil
}

// shouldTryCloud implements the environment-detection policy.
func (m *Manager) shouldTryCloud() bool {
	if m.cfg == nil {
		return false
	}
	return m.cfg.ForceCloud || IsCloudHost() || m.cfg.CloudConfigured()
}

// Default manager: one process-wide Manager for call sites that do not
// inject their own.
var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// GetStorageManager returns a handle from the process-wide default manager,
// loading configuration on first use.
func GetStorageManager(ctx context.Context) (Handle, error) {
	m, err := getDefault()
	if err != nil {
		return nil, err
	}
	return m.Get(ctx)
}

// CreateStorageManagerSafe is the non-raising variant of GetStorageManager:
// nil when storage cannot be obtained, for best-effort call sites.
func CreateStorageManagerSafe(ctx context.Context) Handle {
	m, err := getDefault()
	if err != nil {
		slog.Default().Debug("storage unavailable", "error", err)
		return nil
	}
	return m.GetSafe(ctx)
}

// ResetStorageManager forces the default manager to rebuild on next access.
func ResetStorageManager() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager != nil {
		defaultManager.Reset()
	}
}

func getDefault() (*Manager, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading storage configuration: %w", err)
		}
		defaultManager = NewManager(cfg, slog.Default().With("component", "storage"))
	}
	return defaultManager, nil
}
