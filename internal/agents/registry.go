package agents

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rboyd0/agentstore/internal/result"
)

// Registry holds successfully loaded manifests by agent name.
// Load errors are reported once through the logger at build time; they do
// not poison the registry.
type Registry struct {
	byName map[string]Manifest
	errs   []result.AgentLoadError
}

// BuildRegistry runs discovery across the given loaders and partitions the
// outcome. With more than one loader, later loaders win name collisions
// (remote overrides local, matching the host's override order).
func BuildRegistry(ctx context.Context, logger *slog.Logger, loaders ...*Loader) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	var all []result.Result[Manifest, result.AgentLoadError]
	for _, l := range loaders {
		all = append(all, l.Discover(ctx)...)
	}

	manifests, errs := result.Partition(all)
	for _, e := range errs {
		logger.Warn("agent failed to load",
			"agent", e.AgentName, "source", e.Source, "kind", e.Kind, "error", e.Message)
	}

	byName := make(map[string]Manifest, len(manifests))
	for _, m := range manifests {
		byName[m.Name] = m
	}
	return &Registry{byName: byName, errs: errs}
}

// Get returns the manifest for an agent name.
func (r *Registry) Get(name string) (Manifest, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names returns all loaded agent names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadErrors returns the discovery failures observed while building the
// registry, in discovery order.
func (r *Registry) LoadErrors() []result.AgentLoadError {
	return r.errs
}
