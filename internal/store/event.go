package store

import (
	"database/sql"
	"time"
)

// Event kinds.
const (
	EventOpen          = "open"
	EventMinimize      = "minimize"
	EventMaximize      = "maximize"
	EventActuatorError = "actuator-error"
)

// Event is a journaled editor command or actuator failure.
type Event struct {
	ID        int64
	SessionID string
	Kind      string
	Detail    string
	Error     string
	CreatedAt time.Time
}

// EventRepository records events for a session.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e, filling in its ID and CreatedAt.
func (r *EventRepository) Record(e *Event) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, detail, error, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Detail, e.Error, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// ListBySession returns a session's events in the order they were recorded.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, detail, error, created_at
		 FROM events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Detail, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
