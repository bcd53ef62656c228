package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
	"github.com/crowd-lab/crowdsim/pkg/utils/safe"
)

type turnRepository struct {
	db *sql.DB
}

func (r *turnRepository) Put(ctx context.Context, result *model.TurnResult) error {
	if result.ID == "" {
		return goerr.New("turn result ID is required")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return goerr.Wrap(err, "failed to encode turn result", goerr.V("id", result.ID))
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO turns (id, turn_number, result, completed_at) VALUES (?, ?, ?, ?)`,
		result.ID, result.Turn, string(data), result.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save turn result", goerr.V("id", result.ID))
	}
	return nil
}

func (r *turnRepository) List(ctx context.Context, limit int) ([]*model.TurnResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, result FROM turns ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list turn results")
	}
	defer safe.Close(ctx, rows)

	var results []*model.TurnResult
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to scan turn row")
		}

		var result model.TurnResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			logging.From(ctx).Warn("skipping corrupt turn row", "id", id, "error", err)
			continue
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate turn rows")
	}

	return results, nil
}

func (r *turnRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM turns`); err != nil {
		return goerr.Wrap(err, "failed to reset turn results")
	}
	return nil
}
