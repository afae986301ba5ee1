package mockclickhousebatch

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

type Batch struct {
	mock.Mock
}

// Interface compliance check
var _ driver.Batch = &Batch{}

func (m *Batch) Append(values ...any) error {
	callArgs := append([]any{}, values...)
	return m.Called(callArgs...).Error(0)
}

func (m *Batch) AppendStruct(v any) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *Batch) Column(id int) driver.BatchColumn {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		if column, ok := v.(driver.BatchColumn); ok {
			return column
		}
	}
	return args.Get(0).(driver.BatchColumn)
}

func (m *Batch) Flush() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Batch) Send() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Batch) Abort() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Batch) IsSent() bool {
	args := m.Called()
	return args.Bool(0)
}

type BatchColumn struct {
	mock.Mock
}

var _ driver.BatchColumn = &BatchColumn{}

func (m *BatchColumn) Append(v any) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *BatchColumn) AppendRow(v any) error {
	args := m.Called(v)
	return args.Error(0)
}
