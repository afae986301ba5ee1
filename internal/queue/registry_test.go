package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryReturnsOneQueuePerEndpoint(t *testing.T) {
	built := 0
	registry := NewRegistry(func(endpoint string) *Queue {
		built++
		return New(Config{FlushInterval: time.Hour}, &stubTransport{}, nil)
	})
	defer registry.Reset()

	a := registry.For("https://collector.littlecanvas.app/v1/events")
	b := registry.For("https://collector.littlecanvas.app/v1/events")
	c := registry.For("https://staging.littlecanvas.app/v1/events")

	require.Same(t, a, b)
	require.NotSame(t, a, c)
	require.Equal(t, 2, built)
}

func TestRegistryResetBuildsFreshInstances(t *testing.T) {
	registry := NewRegistry(func(endpoint string) *Queue {
		return New(Config{FlushInterval: time.Hour}, &stubTransport{}, nil)
	})
	defer registry.Reset()

	before := registry.For("https://collector.littlecanvas.app/v1/events")
	registry.Reset()
	after := registry.For("https://collector.littlecanvas.app/v1/events")

	require.NotSame(t, before, after)
}
