package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
	"github.com/crowd-lab/crowdsim/pkg/utils/safe"
)

type stateRepository struct {
	db *sql.DB
}

func (r *stateRepository) Put(ctx context.Context, state *model.MemoryState) error {
	cp := state.Clone()
	cp.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cp)
	if err != nil {
		return goerr.Wrap(err, "failed to encode memory state", goerr.V("persona_id", state.PersonaID))
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO memory_states (persona_id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(persona_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		cp.PersonaID, string(data), cp.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save memory state", goerr.V("persona_id", state.PersonaID))
	}
	return nil
}

func (r *stateRepository) Get(ctx context.Context, personaID int) (*model.MemoryState, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM memory_states WHERE persona_id = ?`, personaID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "memory state not found", goerr.V("persona_id", personaID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query memory state", goerr.V("persona_id", personaID))
	}

	var state model.MemoryState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt row is treated as absent; the store will re-synthesize defaults
		logging.From(ctx).Warn("corrupt memory state row, treating as absent",
			"persona_id", personaID, "error", err)
		return nil, goerr.Wrap(interfaces.ErrNotFound, "corrupt memory state", goerr.V("persona_id", personaID))
	}
	return &state, nil
}

func (r *stateRepository) List(ctx context.Context) ([]*model.MemoryState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT persona_id, state FROM memory_states ORDER BY persona_id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memory states")
	}
	defer safe.Close(ctx, rows)

	var states []*model.MemoryState
	for rows.Next() {
		var personaID int
		var raw string
		if err := rows.Scan(&personaID, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to scan memory state row")
		}

		var state model.MemoryState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			logging.From(ctx).Warn("skipping corrupt memory state row",
				"persona_id", personaID, "error", err)
			continue
		}
		states = append(states, &state)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate memory state rows")
	}

	return states, nil
}

func (r *stateRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM memory_states`); err != nil {
		return goerr.Wrap(err, "failed to reset memory states")
	}
	return nil
}
