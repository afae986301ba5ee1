package controller

import (
	"strconv"
	"time"

	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type EventController interface {
	IngestEvents(c *fiber.Ctx) error
	GetMetrics(c *fiber.Ctx) error
}

// eventController exposes HTTP handlers for ingestion endpoints.
type eventController struct {
	eventService service.EventService
}

// NewEventController builds an EventController.
func NewEventController(svc service.EventService) EventController {
	return &eventController{eventService: svc}
}

// IngestEvents accepts a JSON array of event envelopes, as posted by the
// client queue. The batch is all-or-nothing: one invalid envelope rejects
// the whole request so the client retries it intact.
func (h *eventController) IngestEvents(c *fiber.Ctx) error {
	var received []model.Event
	if err := c.BodyParser(&received); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if len(received) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty batch")
	}

	events := make([]model.Event, 0, len(received))
	for i, raw := range received {
		event, err := h.eventService.BuildEvent(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event "+strconv.Itoa(i)+": "+err.Error())
		}
		events = append(events, event)
	}

	for _, event := range events {
		h.eventService.ProcessEvent(c.Context(), event)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": len(events)})
}

// GetMetrics returns aggregated metrics for events.
func (h *eventController) GetMetrics(c *fiber.Ctx) error {
	filter, err := buildMetricsFilter(c)
	if err != nil {
		return err
	}

	resp, svcErr := h.eventService.GetMetrics(c.Context(), filter)
	if svcErr != nil {
		if _, ok := svcErr.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, svcErr.Error())
		}

		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch metrics")
	}

	return c.JSON(resp)
}

func buildMetricsFilter(c *fiber.Ctx) (model.MetricsFilter, error) {
	eventName := utils.Trim(c.Query("event_name"), ' ')
	if eventName == "" {
		return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "event_name is required")
	}

	groupBy := utils.Trim(c.Query("group_by", "day"), ' ')

	var from, to time.Time

	if raw := utils.Trim(c.Query("from"), ' '); raw != "" {
		sec, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid from timestamp")
		}
		from = time.Unix(sec, 0).UTC()
	}

	if raw := utils.Trim(c.Query("to"), ' '); raw != "" {
		sec, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid to timestamp")
		}
		to = time.Unix(sec, 0).UTC()
	}

	return model.MetricsFilter{
		EventName: eventName,
		GroupBy:   groupBy,
		From:      from,
		To:        to,
	}, nil
}
