// Package registry manages multiple versions of the Thai DRG catalog
// side by side, so a caller can group against a pinned version (for
// reproducing a historical result) or the latest loaded one, and can
// compare how the same admission groups across every loaded version.
//
// This is the seam a future HTTP or batch-reporting layer calls into;
// it does not itself expose a network surface.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"thaidrggrouper/drg"
)

// VersionInfo describes one catalog version registered with a Manager.
type VersionInfo struct {
	Version   string
	SourcePath string
	IsDefault bool
}

// Manager holds one *drg.Engine per loaded catalog version and routes
// Group calls to the version the caller asks for.
//
// A Manager is safe for concurrent use: registration happens once
// during startup in the common case, but Register/Group both take the
// same RWMutex so a long-lived process can hot-load a new catalog
// version without stopping in-flight Group calls against the others.
type Manager struct {
	mu       sync.RWMutex
	engines  map[string]*drg.Engine
	sources  map[string]string
	order    []string // registration order; ListVersions sorts it by version
	defaultV string
}

// NewManager returns an empty Manager. Call Register for each catalog
// version before grouping.
func NewManager() *Manager {
	return &Manager{
		engines: make(map[string]*drg.Engine),
		sources: make(map[string]string),
	}
}

// Register adds a catalog version. sourcePath is recorded for
// diagnostics only (e.g. the directory or file a loader read the
// version from); the Manager does not itself read it. The first
// registered version becomes the default used by GroupLatest until a
// later call to SetDefault overrides it.
func (m *Manager) Register(version string, tables *drg.Tables, sourcePath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[version]; !exists {
		m.order = append(m.order, version)
	}
	m.engines[version] = drg.NewEngine(version, tables)
	m.sources[version] = sourcePath
	if m.defaultV == "" {
		m.defaultV = version
	}
}

// SetDefault changes which registered version GroupLatest uses. It
// returns an error if version was never registered.
func (m *Manager) SetDefault(version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.engines[version]; !ok {
		return fmt.Errorf("registry: unknown version %q", version)
	}
	m.defaultV = version
	return nil
}

// ListVersions reports every registered version, sorted by version
// string, so the output does not depend on registration order.
func (m *Manager) ListVersions() []VersionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]VersionInfo, 0, len(m.order))
	for _, v := range m.order {
		out = append(out, VersionInfo{
			Version:    v,
			SourcePath: m.sources[v],
			IsDefault:  v == m.defaultV,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// Group classifies an admission against one specific registered
// version. It returns an error only if that version was never
// registered; a request-level problem with the admission itself is
// still reported through the returned GrouperResult's IsValid/Errors
// fields, as drg.Engine.Group does.
func (m *Manager) Group(version string, a drg.Admission) (drg.GrouperResult, error) {
	m.mu.RLock()
	engine, ok := m.engines[version]
	m.mu.RUnlock()

	if !ok {
		return drg.GrouperResult{}, fmt.Errorf("registry: unknown version %q", version)
	}
	return engine.Group(a), nil
}

// GroupLatest classifies an admission against the default version (the
// first registered, unless SetDefault changed it). It panics if no
// version has been registered, since that is a wiring bug in the
// caller, not a request-level condition.
func (m *Manager) GroupLatest(a drg.Admission) drg.GrouperResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.defaultV == "" {
		panic("registry: GroupLatest called with no version registered")
	}
	return m.engines[m.defaultV].Group(a)
}

// GroupAllVersions classifies the same admission against every
// registered version, keyed by version string. Unlike Group, this
// never errors: there is nothing to look up by name.
func (m *Manager) GroupAllVersions(a drg.Admission) map[string]drg.GrouperResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]drg.GrouperResult, len(m.engines))
	for v, e := range m.engines {
		out[v] = e.Group(a)
	}
	return out
}

// Stats reports the table statistics for one registered version.
func (m *Manager) Stats(version string) (drg.Stats, error) {
	m.mu.RLock()
	engine, ok := m.engines[version]
	m.mu.RUnlock()

	if !ok {
		return drg.Stats{}, fmt.Errorf("registry: unknown version %q", version)
	}
	return engine.Stats(), nil
}
