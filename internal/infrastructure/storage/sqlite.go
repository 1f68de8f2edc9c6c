package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage/migrations"
)

const defaultListLimit = 50

// Storage provides SQLite database access for builds, the custom
// collection and the mutation log. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens the SQLite database at dbPath and applies pending migrations
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases and PRAGMAs consistent.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// runMigrations applies the embedded goose migrations
func (s *Storage) runMigrations(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version
func (s *Storage) SchemaVersion() (int64, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(context.Background())
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveBuild inserts or replaces a build
func (s *Storage) SaveBuild(build *BuildRecord) error {
	if err := build.EncodeSnapshot(); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if build.CreatedAt.IsZero() {
		build.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
	INSERT INTO builds
	(id, created_at, product_count, eligible_count, skipped_count,
	 collection_count, pool_count, snapshot_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 product_count = excluded.product_count,
	 eligible_count = excluded.eligible_count,
	 skipped_count = excluded.skipped_count,
	 collection_count = excluded.collection_count,
	 pool_count = excluded.pool_count,
	 snapshot_json = excluded.snapshot_json`,
		build.ID, build.CreatedAt, build.ProductCount, build.EligibleCount, build.SkippedCount,
		build.CollectionCount, build.PoolCount, build.SnapshotJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save build %s: %w", build.ID, err)
	}
	return nil
}

const buildColumns = `id, created_at, product_count, eligible_count, skipped_count, collection_count, pool_count`

func scanBuild(row interface{ Scan(...any) error }, withSnapshot bool) (*BuildRecord, error) {
	var b BuildRecord
	dest := []any{&b.ID, &b.CreatedAt, &b.ProductCount, &b.EligibleCount, &b.SkippedCount, &b.CollectionCount, &b.PoolCount}
	if withSnapshot {
		dest = append(dest, &b.SnapshotJSON)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if withSnapshot {
		if err := b.DecodeSnapshot(); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot for build %s: %w", b.ID, err)
		}
	}
	return &b, nil
}

// GetBuild retrieves a build by ID
func (s *Storage) GetBuild(id string) (*BuildRecord, error) {
	row := s.db.QueryRow(`SELECT `+buildColumns+`, snapshot_json FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// LatestBuild returns the most recent build
func (s *Storage) LatestBuild() (*BuildRecord, error) {
	row := s.db.QueryRow(`SELECT ` + buildColumns + `, snapshot_json FROM builds ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	b, err := scanBuild(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListBuilds returns build summaries, newest first
func (s *Storage) ListBuilds(limit int) ([]*BuildRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.Query(`SELECT `+buildColumns+` FROM builds ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*BuildRecord
	for rows.Next() {
		b, err := scanBuild(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SaveCustomState replaces the stored custom state
func (s *Storage) SaveCustomState(state *CustomState) error {
	ids := state.ItemIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	var budgetMax sql.NullInt64
	if state.BudgetMax != nil {
		budgetMax = sql.NullInt64{Int64: int64(*state.BudgetMax), Valid: true}
	}

	_, err = s.db.Exec(`
	INSERT OR REPLACE INTO custom_state (id, item_ids, budget_min, budget_max, see_all, updated_at)
	VALUES (1, ?, ?, ?, ?, ?)`,
		string(idsJSON), int64(state.BudgetMin), budgetMax, state.SeeAll, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save custom state: %w", err)
	}
	return nil
}

// LoadCustomState returns the stored custom state
func (s *Storage) LoadCustomState() (*CustomState, error) {
	var (
		state     CustomState
		idsJSON   string
		budgetMin int64
		budgetMax sql.NullInt64
	)
	err := s.db.QueryRow(`SELECT item_ids, budget_min, budget_max, see_all, updated_at FROM custom_state WHERE id = 1`).
		Scan(&idsJSON, &budgetMin, &budgetMax, &state.SeeAll, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &state.ItemIDs); err != nil {
		return nil, fmt.Errorf("failed to decode custom item ids: %w", err)
	}
	state.BudgetMin = catalog.Cents(budgetMin)
	if budgetMax.Valid {
		hi := catalog.Cents(budgetMax.Int64)
		state.BudgetMax = &hi
	}
	return &state, nil
}

// LogMutation appends a mutation to the audit log
func (s *Storage) LogMutation(m *Mutation) error {
	warningsJSON, err := json.Marshal(m.Warnings)
	if err != nil {
		return err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
	INSERT INTO mutations
	(build_id, operation, collection_id, item_id, other_item_id, status, warnings_json, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.BuildID, m.Operation, m.CollectionID, m.ItemID, m.OtherItemID, m.Status, string(warningsJSON), m.Error, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log mutation: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

// ListMutations returns mutations matching the filters, newest first
func (s *Storage) ListMutations(filters MutationFilters) ([]*Mutation, error) {
	query := `SELECT id, build_id, operation, collection_id, item_id, other_item_id, status, warnings_json, error, created_at
	FROM mutations WHERE 1=1`
	var args []any
	if filters.BuildID != "" {
		query += ` AND build_id = ?`
		args = append(args, filters.BuildID)
	}
	if filters.Operation != "" {
		query += ` AND operation = ?`
		args = append(args, filters.Operation)
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Mutation
	for rows.Next() {
		var (
			m            Mutation
			warningsJSON string
		)
		if err := rows.Scan(&m.ID, &m.BuildID, &m.Operation, &m.CollectionID, &m.ItemID, &m.OtherItemID,
			&m.Status, &warningsJSON, &m.Error, &m.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(warningsJSON), &m.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings for mutation %d: %w", m.ID, err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
