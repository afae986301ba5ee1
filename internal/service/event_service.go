package service

import (
	"context"
	"fmt"
	"time"

	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// eventService wires business logic for events and metrics.
type eventService struct {
	repo            repository.EventRepository
	worker          IngestWorker
	now             func() time.Time
	futureTolerance time.Duration
}

type EventService interface {
	BuildEvent(received model.Event) (model.Event, error)
	ProcessEvent(ctx context.Context, event model.Event)
	GetMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error)
}

// NewEventService constructs an eventService.
func NewEventService(repo repository.EventRepository, worker IngestWorker, futureTolerance time.Duration) EventService {
	return &eventService{
		repo:            repo,
		worker:          worker,
		now:             time.Now,
		futureTolerance: futureTolerance,
	}
}

// BuildEvent validates an incoming envelope and returns its normalized
// form. Numeric payload clamping happens here, not in the transport.
func (s *eventService) BuildEvent(received model.Event) (model.Event, error) {
	if received.ID == "" {
		return model.Event{}, &ValidationError{Message: "id is required"}
	}

	if received.Name == "" {
		return model.Event{}, &ValidationError{Message: "name is required"}
	}

	if !model.KnownEventName(received.Name) {
		return model.Event{}, &ValidationError{Message: fmt.Sprintf("unknown event name: %s", received.Name)}
	}

	if received.SessionID == "" {
		return model.Event{}, &ValidationError{Message: "session_id is required"}
	}

	if received.Timestamp.IsZero() {
		return model.Event{}, &ValidationError{Message: "timestamp is required"}
	}

	if received.SchemaVersion > model.SchemaVersion {
		return model.Event{}, &ValidationError{Message: fmt.Sprintf("unsupported schema_version: %d", received.SchemaVersion)}
	}

	if s.futureTolerance > 0 {
		if err := ValidateTimestamp(received.Timestamp, s.now(), s.futureTolerance); err != nil {
			return model.Event{}, &ValidationError{Message: err.Error()}
		}
	}

	event := received
	event.Timestamp = event.Timestamp.UTC()
	event.Normalize()

	return event, nil
}

// ProcessEvent hands an event to the ingest worker. Persistence is
// asynchronous; the caller has already received its accept response by the
// time the batch lands.
func (s *eventService) ProcessEvent(ctx context.Context, event model.Event) {
	s.worker.Enqueue(event)
}

// GetMetrics validates filters, sets defaults, and delegates aggregation to
// the repository.
func (s *eventService) GetMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error) {
	if filter.EventName == "" {
		return model.MetricsResponse{}, &ValidationError{Message: "event_name is required"}
	}

	if filter.GroupBy == "" {
		filter.GroupBy = "day"
	}

	if !isSupportedGroupBy(filter.GroupBy) {
		return model.MetricsResponse{}, &ValidationError{Message: "unsupported group_by"}
	}

	now := s.now().UTC()
	if filter.To.IsZero() {
		filter.To = now
	} else {
		filter.To = filter.To.UTC()
	}

	if filter.From.IsZero() {
		filter.From = filter.To.Add(-30 * 24 * time.Hour)
	} else {
		filter.From = filter.From.UTC()
	}

	if filter.From.After(filter.To) {
		return model.MetricsResponse{}, &ValidationError{Message: "from must be before to"}
	}

	total, unique, groups, err := s.repo.FetchMetrics(ctx, filter)
	if err != nil {
		return model.MetricsResponse{}, err
	}

	resp := model.MetricsResponse{
		Meta: model.MetricsMeta{
			EventName: filter.EventName,
			Period: model.MetricsPeriod{
				Start: filter.From.Format(time.RFC3339),
				End:   filter.To.Format(time.RFC3339),
			},
			GroupBy: filter.GroupBy,
		},
		Data: model.MetricsData{
			TotalEventCount:    total,
			UniqueSessionCount: unique,
			Groups:             groups,
		},
	}

	return resp, nil
}

// ValidateTimestamp ensures timestamps are not too far in the future.
func ValidateTimestamp(ts time.Time, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}
	if ts.After(now.Add(tolerance)) {
		return &ValidationError{Message: "timestamp cannot be in the future"}
	}
	return nil
}

func isSupportedGroupBy(group string) bool {
	switch group {
	case "day", "hour", "name":
		return true
	default:
		return false
	}
}
