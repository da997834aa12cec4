package main

import (
	"log"
	"sync"
	"time"
)

// Telemetry event types
const (
	EvtJoin      = "join"
	EvtLeave     = "leave"
	EvtKill      = "kill"
	EvtDeath     = "death"
	EvtLevelUp   = "level_up"
	EvtEnemyKill = "enemy_kill"
)

// TelemetryEvent is a single trackable event
type TelemetryEvent struct {
	Type      string
	SubjectID string
	ObjectID  string
	Timestamp time.Time
}

// Analytics batches telemetry events to SQLite off the game loop. A nil
// *Analytics is valid and drops everything, so the sim never has to check.
type Analytics struct {
	db     *DB
	events chan TelemetryEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan TelemetryEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event without blocking; a full queue drops the event
// rather than stalling a simulation step
func (a *Analytics) Track(evtType, subjectID, objectID string) {
	if a == nil {
		return
	}
	select {
	case a.events <- TelemetryEvent{
		Type:      evtType,
		SubjectID: subjectID,
		ObjectID:  objectID,
		Timestamp: time.Now().UTC(),
	}:
	default:
	}
}

// Stop flushes pending events and shuts the writer down
func (a *Analytics) Stop() {
	if a == nil {
		return
	}
	close(a.stop)
	a.wg.Wait()
}

func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]TelemetryEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			close(a.events)
			for evt := range a.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

func (a *Analytics) flush(events []TelemetryEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Printf("telemetry: begin tx: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO telemetry_events (event_type, subject_id, object_id, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		log.Printf("telemetry: prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		if _, err := stmt.Exec(evt.Type, evt.SubjectID, evt.ObjectID, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("telemetry: insert: %v", err)
		}
	}
	tx.Commit()
}
