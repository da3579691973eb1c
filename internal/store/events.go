package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"folderdeck/internal/model"

	"github.com/google/uuid"
)

func appendEvent(ctx context.Context, tx *sql.Tx, typ, entityID string, payload any, now time.Time) error {
	raw := []byte("{}")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = b
	}
	var wsID string
	if err := tx.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'workspace_id'`).Scan(&wsID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO events(event_id, workspace_id, type, entity_id, payload_json, issued_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), wsID, typ, entityID, string(raw), now.UTC().UnixMilli())
	return err
}

// Events returns up to limit most recent events, oldest first.
// A limit <= 0 returns all events.
func (s Store) Events(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, type, entity_id, payload_json, issued_at_unixms FROM events ORDER BY issued_at_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var issued int64
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &ev.Payload, &issued); err != nil {
			return nil, err
		}
		ev.IssuedAt = time.UnixMilli(issued).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
