package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/timeutil"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// ErrUnplacedEvent is returned by SaveAnimationEvents for an event template
// that was never stamped onto the clip.
var ErrUnplacedEvent = errors.New("event has no start time")

// Run records one generation pass over a clip.
type Run struct {
	RunID         string          `json:"run_id"`
	CharacterName string          `json:"character_name"`
	AnimationName string          `json:"animation_name"`
	AnimationPath string          `json:"animation_path,omitempty"`
	LengthSeconds float64         `json:"length_seconds"`
	FrameCount    int             `json:"frame_count"`
	EventCount    int             `json:"event_count"`
	ParamsJSON    json.RawMessage `json:"params_json,omitempty"`
	CreatedAt     int64           `json:"created_at"`
}

// EventStore persists clip event lists and generation runs.
type EventStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used for created_at and updated_at stamps.
func (s *EventStore) SetClock(c timeutil.Clock) {
	s.clock = c
}

// InsertRun persists a run. If RunID is empty, a UUID is generated.
func (s *EventStore) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO footstep_runs (
				run_id, character_name, animation_name, animation_path,
				length_seconds, frame_count, event_count, params_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.CharacterName, run.AnimationName, run.AnimationPath,
			run.LengthSeconds, run.FrameCount, run.EventCount, paramsStr, run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

const runColumns = `run_id, character_name, animation_name, animation_path,
	length_seconds, frame_count, event_count, params_json, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var paramsStr sql.NullString
	if err := row.Scan(
		&r.RunID, &r.CharacterName, &r.AnimationName, &r.AnimationPath,
		&r.LengthSeconds, &r.FrameCount, &r.EventCount, &paramsStr, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if paramsStr.Valid {
		r.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &r, nil
}

// GetRun returns a single run by id.
func (s *EventStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM footstep_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// ListRuns returns the runs for animationName, newest first. An empty name
// lists every run.
func (s *EventStore) ListRuns(animationName string) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM footstep_runs`
	var args []interface{}
	if animationName != "" {
		query += ` WHERE animation_name = ?`
		args = append(args, animationName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListAnimationEvents returns the stored events of a clip in start order.
func (s *EventStore) ListAnimationEvents(animationPath string) ([]animevent.Event, error) {
	rows, err := s.db.Query(`
		SELECT start_time, end_time, event_type, parameter, bone_name,
		       offset_x, offset_y, offset_z, direction_x, direction_y, direction_z, model
		FROM animation_events
		WHERE animation_path = ?
		ORDER BY seq`, animationPath)
	if err != nil {
		return nil, fmt.Errorf("query animation events: %w", err)
	}
	defer rows.Close()

	var events []animevent.Event
	for rows.Next() {
		var e animevent.Event
		var offset, direction r3.Vec
		if err := rows.Scan(
			&e.StartTime, &e.EndTime, &e.Type, &e.Parameter, &e.BoneName,
			&offset.X, &offset.Y, &offset.Z, &direction.X, &direction.Y, &direction.Z, &e.Model,
		); err != nil {
			return nil, fmt.Errorf("scan animation event: %w", err)
		}
		e.Offset, e.Direction = offset, direction
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveAnimationEvents replaces the stored events of a clip with events,
// sorted by start time. Nothing is written when the stored list already
// holds the same events; changed reports whether a write happened.
func (s *EventStore) SaveAnimationEvents(animationPath string, events []animevent.Event) (changed bool, err error) {
	for i, e := range events {
		if !e.IsPlaced() {
			return false, fmt.Errorf("event %d (%s): %w", i, e.Type, ErrUnplacedEvent)
		}
		if err := e.Validate(); err != nil {
			return false, fmt.Errorf("event %d: %w", i, err)
		}
	}

	existing, err := s.ListAnimationEvents(animationPath)
	if err != nil {
		return false, err
	}
	if animevent.Equal(existing, events) {
		return false, nil
	}

	sorted := animevent.Sorted(events)
	now := s.clock.Now().UnixNano()

	err = retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM animation_events WHERE animation_path = ?`, animationPath); err != nil {
			return fmt.Errorf("delete animation events: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO animation_events (
				animation_path, seq, start_time, end_time, event_type, parameter, bone_name,
				offset_x, offset_y, offset_z, direction_x, direction_y, direction_z, model, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range sorted {
			if _, err := stmt.Exec(
				animationPath, i, e.StartTime, e.EndTime, e.Type, e.Parameter, e.BoneName,
				e.Offset.X, e.Offset.Y, e.Offset.Z, e.Direction.X, e.Direction.Y, e.Direction.Z,
				e.Model, now,
			); err != nil {
				return fmt.Errorf("insert animation event %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
