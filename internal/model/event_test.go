package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEventFillsEnvelope(t *testing.T) {
	event := NewEvent(EventLessonStarted, "sess-1")

	require.NotEmpty(t, event.ID)
	require.Equal(t, EventLessonStarted, event.Name)
	require.Equal(t, "sess-1", event.SessionID)
	require.Equal(t, SchemaVersion, event.SchemaVersion)
	require.False(t, event.Timestamp.IsZero())
}

func TestKnownEventName(t *testing.T) {
	require.True(t, KnownEventName(EventPackCarouselCompleted))
	require.False(t, KnownEventName("page_resized"))
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{3.7, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClampScore(tt.in))
	}
}

func TestClampStars(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-1, 0},
		{0.4, 0},
		{1.5, 2},
		{2.49, 2},
		{3, 3},
		{9, 3},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClampStars(tt.in))
	}
}

func TestClampDuration(t *testing.T) {
	require.Equal(t, int64(0), ClampDuration(-100))
	require.Equal(t, int64(1500), ClampDuration(1500))
}

func TestNormalizeClampsPayloadFields(t *testing.T) {
	score := 1.8
	stars := 7
	duration := int64(-5)
	step := -1

	event := NewEvent(EventLessonCompleted, "sess-1")
	event.Score = &score
	event.Stars = &stars
	event.DurationMS = &duration
	event.StepIndex = &step

	event.Normalize()

	require.Equal(t, 1.0, *event.Score)
	require.Equal(t, 3, *event.Stars)
	require.Equal(t, int64(0), *event.DurationMS)
	require.Equal(t, 0, *event.StepIndex)
}

// Every event must serialize on its own: unset payload fields stay off the
// wire and the envelope fields always appear.
func TestEventWireShape(t *testing.T) {
	event := NewEvent(EventTemplateOpened, "sess-1")
	event.TemplateID = "tpl_lion"

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Contains(t, decoded, "id")
	require.Contains(t, decoded, "name")
	require.Contains(t, decoded, "timestamp")
	require.Contains(t, decoded, "session_id")
	require.Contains(t, decoded, "schema_version")
	require.Contains(t, decoded, "template_id")
	require.NotContains(t, decoded, "score")
	require.NotContains(t, decoded, "user_id")
}
