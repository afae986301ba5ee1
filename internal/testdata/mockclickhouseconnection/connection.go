package mockclickhouseconnection

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

type Connection struct {
	mock.Mock
}

// Interface compliance check
var _ clickhouse.Conn = &Connection{}

func (m *Connection) Exec(ctx context.Context, query string, args ...any) error {
	callArgs := append([]any{ctx, query}, args...)
	return m.Called(callArgs...).Error(0)
}

func (m *Connection) PrepareBatch(ctx context.Context, query string) (driver.Batch, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		if batch, ok := v.(driver.Batch); ok {
			return batch, args.Error(1)
		}
	}
	return nil, args.Error(1)
}

func (m *Connection) AsyncInsert(ctx context.Context, query string, wait bool) error {
	args := m.Called(ctx, query, wait)
	return args.Error(0)
}

func (m *Connection) Query(ctx context.Context, query string, queryArgs ...any) (driver.Rows, error) {
	args := m.Called(ctx, query, queryArgs)
	return args.Get(0).(driver.Rows), args.Error(1)
}

func (m *Connection) QueryRow(ctx context.Context, query string, queryArgs ...any) driver.Row {
	args := m.Called(ctx, query, queryArgs)
	return args.Get(0).(driver.Row)
}

func (m *Connection) Select(ctx context.Context, dest any, query string, queryArgs ...any) error {
	args := m.Called(ctx, dest, query, queryArgs)
	return args.Error(0)
}

func (m *Connection) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Connection) Stats() driver.Stats {
	args := m.Called()
	return args.Get(0).(driver.Stats)
}

func (m *Connection) Contributors() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *Connection) ServerVersion() (*driver.ServerVersion, error) {
	args := m.Called()
	return args.Get(0).(*clickhouse.ServerVersion), args.Error(1)
}

func (m *Connection) Close() error {
	args := m.Called()
	return args.Error(0)
}
