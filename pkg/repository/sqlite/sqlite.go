package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
)

// Repository is a durable repository backend on a local SQLite database.
// States are stored as one JSON document per persona; a corrupt row is
// logged and treated as absent rather than failing the load.
type Repository struct {
	db    *sql.DB
	state *stateRepository
	turn  *turnRepository
}

var _ interfaces.Repository = &Repository{}

// New opens or creates the database at path and runs the schema migration
func New(ctx context.Context, path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("dir", dir))
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	r := &Repository{
		db:    db,
		state: &stateRepository{db: db},
		turn:  &turnRepository{db: db},
	}

	if err := r.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate sqlite schema", goerr.V("path", path))
	}

	return r, nil
}

func (r *Repository) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_states (
		persona_id INTEGER PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id           TEXT PRIMARY KEY,
		turn_number  INTEGER NOT NULL,
		result       TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_completed ON turns(completed_at DESC);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (r *Repository) Memory() interfaces.MemoryStateRepository {
	return r.state
}

func (r *Repository) Turn() interfaces.TurnRepository {
	return r.turn
}

func (r *Repository) Close(ctx context.Context) error {
	if err := r.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close sqlite database")
	}
	return nil
}
