package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelf-cli/internal/model"
)

// Event types appended by store mutations. The prefix before the dot is the entity kind.
const (
	EventCategoryCreate = "category.create"
	EventCategoryUpdate = "category.update"
	EventCategoryDelete = "category.delete"
	EventEdgeCreate     = "edge.create"
	EventEdgeUpdate     = "edge.update"
	EventEdgeDelete     = "edge.delete"
	EventTagCreate      = "tag.create"
	EventTagUpdate      = "tag.update"
	EventTagDelete      = "tag.delete"
	EventBookmarkCreate = "bookmark.create"
	EventBookmarkUpdate = "bookmark.update"
	EventBookmarkDelete = "bookmark.delete"
)

func entityKindFromType(typ string) string {
	kind, _, ok := strings.Cut(strings.TrimSpace(typ), ".")
	if !ok {
		return ""
	}
	return kind
}

// appendEvent records a mutation inside the caller's transaction.
func appendEvent(ctx context.Context, tx *sql.Tx, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	kind := entityKindFromType(typ)
	if kind == "" {
		return fmt.Errorf("event: invalid type %q", typ)
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return fmt.Errorf("event %s: missing entity id", typ)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("event %s: %w", typ, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events(event_id, issued_at_unixms, type, entity_kind, entity_id, payload_json)
		VALUES(?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), time.Now().UTC().UnixMilli(), typ, kind, entityID, string(pb))
	return err
}

type EventFilter struct {
	EntityID string
	// Limit keeps only the most recent N events (0 = all).
	Limit int
}

// ReadEvents returns events oldest first.
func (s Store) ReadEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	where := ""
	args := []any{}
	if id := strings.TrimSpace(f.EntityID); id != "" {
		where = `WHERE entity_id = ?`
		args = append(args, id)
	}
	q := `SELECT seq, event_id, issued_at_unixms, type, entity_id, payload_json FROM events ` + where + ` ORDER BY seq DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	rows, err := db.QueryContext(ctx, `SELECT event_id, issued_at_unixms, type, entity_id, payload_json FROM (`+q+`) ORDER BY seq ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var id, typ, entityID, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &tsMs, &typ, &entityID, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			Type:     typ,
			EntityID: entityID,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
