package mockservice

import (
	"context"

	"littlecanvas-analytics/internal/model"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) BuildEvent(received model.Event) (model.Event, error) {
	args := m.Called(received)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *Service) ProcessEvent(ctx context.Context, event model.Event) {
	m.Called(ctx, event)
}

func (m *Service) GetMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.MetricsResponse), args.Error(1)
}
