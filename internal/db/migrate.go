package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step. The ReplacingMergeTree
// key includes the event id, so re-delivered at-least-once batches collapse
// into a single row.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS events
(
	id              String,
	name            String,
	ts              DateTime64(3, 'UTC'),
	session_id      String,
	user_id         String,
	schema_version  UInt8,
	lesson_id       String,
	tutorial_id     String,
	template_id     String,
	pack_id         String,
	step_index      Nullable(Int32),
	score           Nullable(Float64),
	stars           Nullable(UInt8),
	duration_ms     Nullable(Int64),
	ingested_at     DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMMDD(ts)
ORDER BY (name, ts, session_id, id)
SETTINGS
    index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
