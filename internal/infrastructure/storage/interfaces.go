package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory mock)
// and makes testing the service and handlers straightforward.
type Repository interface {
	BuildRepository
	CustomRepository
	MutationRepository
	Close() error
}

// BuildRepository stores allocation builds.
type BuildRepository interface {
	// SaveBuild inserts or replaces a build by ID
	SaveBuild(build *BuildRecord) error

	// GetBuild retrieves a build by ID. It returns nil, nil when absent.
	GetBuild(id string) (*BuildRecord, error)

	// LatestBuild returns the most recent build, or nil, nil when none exist.
	LatestBuild() (*BuildRecord, error)

	// ListBuilds returns build summaries, newest first. Snapshots are not loaded.
	ListBuilds(limit int) ([]*BuildRecord, error)
}

// CustomRepository persists the user's custom collection across rebuilds.
type CustomRepository interface {
	// SaveCustomState replaces the stored custom state
	SaveCustomState(state *CustomState) error

	// LoadCustomState returns the stored custom state, or nil, nil when none was saved.
	LoadCustomState() (*CustomState, error)
}

// MutationRepository is the audit log of user-directed operations.
type MutationRepository interface {
	// LogMutation appends a mutation and sets its ID
	LogMutation(m *Mutation) error

	// ListMutations returns mutations matching the filters, newest first
	ListMutations(filters MutationFilters) ([]*Mutation, error)
}

// MutationFilters defines filters for listing mutations
type MutationFilters struct {
	BuildID   string // Filter by build (empty = all)
	Operation string // Filter by operation (empty = all)
	Limit     int    // Max results (0 = default 50)
	Offset    int    // Pagination offset
}
