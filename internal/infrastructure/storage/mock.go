package storage

import (
	"sort"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	builds     map[string]*BuildRecord
	buildOrder []string
	custom     *CustomState
	mutations  []*Mutation
	nextMutID  int64

	// Hooks for test assertions
	SaveBuildCalled       bool
	LastSavedBuild        *BuildRecord
	SaveCustomStateCalled bool
	LogMutationCalled     bool

	// Error injection for testing error paths
	SaveBuildErr       error
	GetBuildErr        error
	SaveCustomStateErr error
	LoadCustomStateErr error
	LogMutationErr     error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		builds:    make(map[string]*BuildRecord),
		nextMutID: 1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveBuild stores a copy of the build
func (m *MockRepository) SaveBuild(build *BuildRecord) error {
	m.SaveBuildCalled = true
	m.LastSavedBuild = build
	if m.SaveBuildErr != nil {
		return m.SaveBuildErr
	}
	if build.CreatedAt.IsZero() {
		build.CreatedAt = time.Now().UTC()
	}
	copied := *build
	if _, ok := m.builds[build.ID]; !ok {
		m.buildOrder = append(m.buildOrder, build.ID)
	}
	m.builds[build.ID] = &copied
	return nil
}

// GetBuild retrieves a build from the in-memory map
func (m *MockRepository) GetBuild(id string) (*BuildRecord, error) {
	if m.GetBuildErr != nil {
		return nil, m.GetBuildErr
	}
	b, ok := m.builds[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

// LatestBuild returns the last saved build
func (m *MockRepository) LatestBuild() (*BuildRecord, error) {
	if len(m.buildOrder) == 0 {
		return nil, nil
	}
	return m.GetBuild(m.buildOrder[len(m.buildOrder)-1])
}

// ListBuilds returns builds newest first without snapshots
func (m *MockRepository) ListBuilds(limit int) ([]*BuildRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []*BuildRecord
	for i := len(m.buildOrder) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *m.builds[m.buildOrder[i]]
		copied.Snapshot = nil
		copied.SnapshotJSON = ""
		out = append(out, &copied)
	}
	return out, nil
}

// SaveCustomState replaces the stored custom state
func (m *MockRepository) SaveCustomState(state *CustomState) error {
	m.SaveCustomStateCalled = true
	if m.SaveCustomStateErr != nil {
		return m.SaveCustomStateErr
	}
	copied := *state
	copied.ItemIDs = append([]string(nil), state.ItemIDs...)
	m.custom = &copied
	return nil
}

// LoadCustomState returns the stored custom state
func (m *MockRepository) LoadCustomState() (*CustomState, error) {
	if m.LoadCustomStateErr != nil {
		return nil, m.LoadCustomStateErr
	}
	if m.custom == nil {
		return nil, nil
	}
	copied := *m.custom
	return &copied, nil
}

// LogMutation appends to the in-memory log
func (m *MockRepository) LogMutation(mut *Mutation) error {
	m.LogMutationCalled = true
	if m.LogMutationErr != nil {
		return m.LogMutationErr
	}
	mut.ID = m.nextMutID
	m.nextMutID++
	copied := *mut
	m.mutations = append(m.mutations, &copied)
	return nil
}

// ListMutations filters the in-memory log, newest first
func (m *MockRepository) ListMutations(filters MutationFilters) ([]*Mutation, error) {
	var out []*Mutation
	for _, mut := range m.mutations {
		if filters.BuildID != "" && mut.BuildID != filters.BuildID {
			continue
		}
		if filters.Operation != "" && mut.Operation != filters.Operation {
			continue
		}
		out = append(out, mut)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if filters.Offset >= len(out) {
		return nil, nil
	}
	out = out[filters.Offset:]
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Mutations returns every logged mutation in insertion order
func (m *MockRepository) Mutations() []*Mutation {
	return m.mutations
}
