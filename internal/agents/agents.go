// Package agents discovers agent manifests through a storage handle.
//
// Each agent declares itself to the host with a JSON manifest under the
// agents directory. Discovery stops at parsing and validating those
// manifests; loading agent code is the host's concern, not this package's.
//
// Discovery returns one Result per manifest file so a single broken manifest
// never hides the healthy ones: callers split the outcome with
// result.Partition and report the failures in one shot.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rboyd0/agentstore/internal/result"
	"github.com/rboyd0/agentstore/internal/storage"
)

// Manifest describes one agent as declared by its manifest file.
type Manifest struct {
	// ID is assigned when the manifest omits one.
	ID uuid.UUID `json:"id"`

	// Name is the unique agent identifier the host dispatches on.
	Name string `json:"name"`

	// Entrypoint names the class the host instantiates.
	Entrypoint string `json:"entrypoint"`

	Version     string `json:"version"`
	Description string `json:"description"`

	// Actions is the JSON-schema description of the actions the agent
	// accepts, kept opaque here.
	Actions json.RawMessage `json:"actions"`
}

// manifest is the wire form: ID arrives as a string so a malformed value is
// our validation error, not a json.Unmarshal failure.
type manifest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Entrypoint  string          `json:"entrypoint"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Actions     json.RawMessage `json:"actions"`
}

// Loader discovers manifests from one storage handle.
type Loader struct {
	handle storage.Handle
	dir    string
	source result.Source
	logger *slog.Logger
}

// NewLoader creates a loader reading manifests from dir on the given handle.
// The discovery source is derived from the backend kind.
func NewLoader(handle storage.Handle, dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	source := result.SourceLocal
	if handle.Kind() == storage.BackendCloud {
		source = result.SourceRemote
	}
	return &Loader{handle: handle, dir: dir, source: source, logger: logger}
}

// Discover lists the agents directory and returns one Result per manifest
// file. A listing failure yields a single file-read Failure; per-file
// problems are typed by kind so reporting can distinguish an unreadable file
// from a malformed one.
func (l *Loader) Discover(ctx context.Context) []result.Result[Manifest, result.AgentLoadError] {
	type res = result.Result[Manifest, result.AgentLoadError]

	files, err := l.handle.ListFiles(ctx, l.dir)
	if err != nil {
		return []res{result.Failure[Manifest, result.AgentLoadError](result.AgentLoadError{
			AgentName: "*",
			Source:    l.source,
			Kind:      result.LoadErrFileRead,
			Message:   fmt.Sprintf("listing %s: %v", l.dir, err),
		})}
	}

	var results []res
	for _, f := range files {
		if !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		results = append(results, l.load(ctx, f.Name))
	}
	return results
}

// load reads and validates a single manifest file.
func (l *Loader) load(ctx context.Context, fileName string) result.Result[Manifest, result.AgentLoadError] {
	agentName := strings.TrimSuffix(fileName, ".json")
	fail := func(kind result.LoadErrorKind, format string, args ...any) result.Result[Manifest, result.AgentLoadError] {
		return result.Failure[Manifest, result.AgentLoadError](result.AgentLoadError{
			AgentName: agentName,
			Source:    l.source,
			Kind:      kind,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	data, err := l.handle.ReadFile(ctx, l.dir, fileName)
	if err != nil {
		return fail(result.LoadErrFileRead, "reading manifest: %v", err)
	}
	if data == nil {
		// Listed but gone by the time we read it.
		return fail(result.LoadErrFileRead, "manifest vanished between list and read")
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fail(result.LoadErrSyntax, "parsing manifest: %v", err)
	}

	if m.Name == "" {
		return fail(result.LoadErrMissingClass, "manifest declares no agent name")
	}
	if m.Entrypoint == "" {
		return fail(result.LoadErrMissingClass, "manifest declares no entrypoint for %q", m.Name)
	}
	if m.Name != agentName {
		return fail(result.LoadErrInstantiation, "manifest name %q does not match file name %q", m.Name, agentName)
	}

	id := uuid.New()
	if m.ID != "" {
		id, err = uuid.Parse(m.ID)
		if err != nil {
			return fail(result.LoadErrInstantiation, "invalid agent id %q: %v", m.ID, err)
		}
	}

	return result.Success[Manifest, result.AgentLoadError](Manifest{
		ID:          id,
		Name:        m.Name,
		Entrypoint:  m.Entrypoint,
		Version:     m.Version,
		Description: m.Description,
		Actions:     m.Actions,
	})
}
