package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on every envelope so the collector can keep
// accepting old payloads after the event shape evolves.
const SchemaVersion = 1

// Event names emitted by the canvas client.
const (
	EventLessonStarted         = "lesson_started"
	EventLessonStepCompleted   = "lesson_step_completed"
	EventLessonCompleted       = "lesson_completed"
	EventTutorialStarted       = "tutorial_started"
	EventTutorialStepCompleted = "tutorial_step_completed"
	EventTutorialCompleted     = "tutorial_completed"
	EventPackCarouselCompleted = "pack_carousel_completed"
	EventTemplateOpened        = "template_opened"
	EventTemplateCompleted     = "template_completed"
)

var knownEventNames = map[string]struct{}{
	EventLessonStarted:         {},
	EventLessonStepCompleted:   {},
	EventLessonCompleted:       {},
	EventTutorialStarted:       {},
	EventTutorialStepCompleted: {},
	EventTutorialCompleted:     {},
	EventPackCarouselCompleted: {},
	EventTemplateOpened:        {},
	EventTemplateCompleted:     {},
}

// KnownEventName reports whether name is part of the event taxonomy.
func KnownEventName(name string) bool {
	_, ok := knownEventNames[name]
	return ok
}

// Event is the wire envelope for a single analytics occurrence. Every event
// is independently serializable and self-describing; no event depends on
// another to be interpreted.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id,omitempty"`
	SchemaVersion int       `json:"schema_version"`

	// Kind-specific payload fields. Only the fields that apply to the
	// event's name are set; the rest stay absent on the wire.
	LessonID   string   `json:"lesson_id,omitempty"`
	TutorialID string   `json:"tutorial_id,omitempty"`
	TemplateID string   `json:"template_id,omitempty"`
	PackID     string   `json:"pack_id,omitempty"`
	StepIndex  *int     `json:"step_index,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Stars      *int     `json:"stars,omitempty"`
	DurationMS *int64   `json:"duration_ms,omitempty"`
}

// NewEvent builds an envelope with a fresh id, the current instant, and the
// current schema version. Payload fields are set by the caller afterwards.
func NewEvent(name, sessionID string) Event {
	return Event{
		ID:            uuid.NewString(),
		Name:          name,
		Timestamp:     time.Now().UTC(),
		SessionID:     sessionID,
		SchemaVersion: SchemaVersion,
	}
}

// Normalize clamps numeric payload fields in place. Clamping is owned by
// this layer, not the transport: scores land in [0,1], stars in [0,3],
// durations are never negative.
func (e *Event) Normalize() {
	if e.Score != nil {
		clamped := ClampScore(*e.Score)
		e.Score = &clamped
	}
	if e.Stars != nil {
		clamped := ClampStars(float64(*e.Stars))
		e.Stars = &clamped
	}
	if e.DurationMS != nil {
		clamped := ClampDuration(*e.DurationMS)
		e.DurationMS = &clamped
	}
	if e.StepIndex != nil && *e.StepIndex < 0 {
		zero := 0
		e.StepIndex = &zero
	}
}

// ClampScore restricts a score to [0, 1].
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ClampStars rounds a star count and restricts it to [0, 3].
func ClampStars(stars float64) int {
	if math.IsNaN(stars) || stars < 0 {
		return 0
	}
	rounded := int(math.Round(stars))
	if rounded > 3 {
		return 3
	}
	return rounded
}

// ClampDuration restricts a duration to non-negative milliseconds.
func ClampDuration(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
