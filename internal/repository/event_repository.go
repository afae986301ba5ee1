package repository

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"littlecanvas-analytics/internal/model"
)

// EventRepository defines database operations for events.
type EventRepository interface {
	// CreateBatch inserts multiple events in a single ClickHouse batch.
	CreateBatch(ctx context.Context, events []model.Event) error

	// FetchMetrics aggregates event counts based on filters. It returns
	// the total count, the unique session count, and per-group rows.
	FetchMetrics(ctx context.Context, filter model.MetricsFilter) (uint64, uint64, []model.MetricsGroup, error)
}

type eventRepository struct {
	conn clickhouse.Conn
}

// NewEventRepository creates an EventRepository backed by ClickHouse.
func NewEventRepository(conn clickhouse.Conn) EventRepository {
	return &eventRepository{conn: conn}
}

const insertEventQuery = `
	INSERT INTO events (id, name, ts, session_id, user_id, schema_version,
		lesson_id, tutorial_id, template_id, pack_id,
		step_index, score, stars, duration_ms)
`

func (r *eventRepository) CreateBatch(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEventQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.ID,
			event.Name,
			event.Timestamp,
			event.SessionID,
			event.UserID,
			uint8(event.SchemaVersion),
			event.LessonID,
			event.TutorialID,
			event.TemplateID,
			event.PackID,
			nullableInt32(event.StepIndex),
			event.Score,
			nullableUint8(event.Stars),
			event.DurationMS,
		)
		if err != nil {
			return fmt.Errorf("append event %s: %w", event.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (r *eventRepository) FetchMetrics(ctx context.Context, filter model.MetricsFilter) (uint64, uint64, []model.MetricsGroup, error) {
	const where = `WHERE name = ? AND ts >= ? AND ts <= ?`

	var total, unique uint64
	row := r.conn.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(), uniqExact(session_id) FROM events %s`, where),
		filter.EventName, filter.From, filter.To,
	)
	if err := row.Scan(&total, &unique); err != nil {
		return 0, 0, nil, fmt.Errorf("fetch totals: %w", err)
	}

	groupQuery, err := buildGroupQuery(filter.GroupBy, where)
	if err != nil {
		return 0, 0, nil, err
	}

	rows, err := r.conn.Query(ctx, groupQuery, filter.EventName, filter.From, filter.To)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("fetch groups: %w", err)
	}
	defer rows.Close()

	var groups []model.MetricsGroup
	for rows.Next() {
		var g model.MetricsGroup
		if err := rows.Scan(&g.Key, &g.TotalCount, &g.UniqueSessionCount); err != nil {
			return 0, 0, nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, nil, fmt.Errorf("iterate group rows: %w", err)
	}

	return total, unique, groups, nil
}

// buildGroupQuery whitelists group_by values; anything else was already
// rejected by the service layer.
func buildGroupQuery(groupBy, where string) (string, error) {
	switch groupBy {
	case "day":
		return fmt.Sprintf(
			"SELECT toString(toDate(ts)), count(), uniqExact(session_id) FROM events %s GROUP BY 1 ORDER BY 1",
			where), nil
	case "hour":
		return fmt.Sprintf(
			"SELECT formatDateTime(toStartOfHour(ts), '%%Y-%%m-%%dT%%H:00:00Z'), count(), uniqExact(session_id) FROM events %s GROUP BY 1 ORDER BY 1",
			where), nil
	case "name":
		return fmt.Sprintf(
			"SELECT name, count(), uniqExact(session_id) FROM events %s GROUP BY 1 ORDER BY 1",
			where), nil
	default:
		return "", fmt.Errorf("unsupported group_by: %s", groupBy)
	}
}

func nullableInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	converted := int32(*v)
	return &converted
}

func nullableUint8(v *int) *uint8 {
	if v == nil {
		return nil
	}
	converted := uint8(*v)
	return &converted
}
