package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/dto"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/service"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// EventsHandler records and reads analytics data for the authenticated client.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

func missingFields() error {
	return apperrors.NewInvalidRequest("missing required fields", nil)
}

func (h *EventsHandler) store(c *fiber.Ctx, claimedClient string, input service.RecordInput) error {
	clientID, err := auth.EnsureClientMatch(c, claimedClient)
	if err != nil {
		return err
	}
	event, err := h.events.Record(c.UserContext(), clientID, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.WriteResponse{Success: true, ID: event.ID})
}

// SetVisit handles POST /api/set/visits.
func (h *EventsHandler) SetVisit(c *fiber.Ctx) error {
	var req dto.VisitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.URL == "" || req.Time == 0 || req.SessionID == "" {
		return missingFields()
	}
	return h.store(c, req.ClientID, service.RecordInput{
		Kind:       domain.EventKindVisit,
		SessionID:  req.SessionID,
		URL:        req.URL,
		OccurredAt: req.Time,
	})
}

// SetClick handles POST /api/set/click.
func (h *EventsHandler) SetClick(c *fiber.Ctx) error {
	var req dto.ClickRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.X == nil || req.Y == nil || req.URL == "" || req.Time == 0 || req.SessionID == "" {
		return missingFields()
	}
	attrs := map[string]any{"x": *req.X, "y": *req.Y}
	if req.ScrollX != nil {
		attrs["scrollX"] = *req.ScrollX
	}
	if req.ScrollY != nil {
		attrs["scrollY"] = *req.ScrollY
	}
	return h.store(c, req.ClientID, service.RecordInput{
		Kind:       domain.EventKindClick,
		SessionID:  req.SessionID,
		URL:        req.URL,
		OccurredAt: req.Time,
		Attributes: attrs,
	})
}

// SetScroll handles POST /api/set/scroll.
func (h *EventsHandler) SetScroll(c *fiber.Ctx) error {
	var req dto.ScrollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.X == nil || req.Y == nil || req.URL == "" || req.Time == 0 || req.SessionID == "" {
		return missingFields()
	}
	return h.store(c, req.ClientID, service.RecordInput{
		Kind:       domain.EventKindScroll,
		SessionID:  req.SessionID,
		URL:        req.URL,
		OccurredAt: req.Time,
		Attributes: map[string]any{"x": *req.X, "y": *req.Y},
	})
}

// SetPath handles POST /api/set/path.
func (h *EventsHandler) SetPath(c *fiber.Ctx) error {
	var req dto.PathRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.URL == "" || req.Time == 0 || req.SessionID == "" {
		return missingFields()
	}
	prev := req.PrevURL
	if prev == "" {
		prev = req.Ref
	}
	attrs := map[string]any{"prevUrl": nil}
	if prev != "" {
		attrs["prevUrl"] = prev
	}
	return h.store(c, req.ClientID, service.RecordInput{
		Kind:       domain.EventKindPath,
		SessionID:  req.SessionID,
		URL:        req.URL,
		OccurredAt: req.Time,
		Attributes: attrs,
	})
}

// ListByURL returns a handler for GET /api/get/<kind>?url=.
func (h *EventsHandler) ListByURL(kind domain.EventKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, err := auth.EnsureClientMatch(c, "")
		if err != nil {
			return err
		}
		list, err := h.events.List(c.UserContext(), clientID, kind, strings.TrimSpace(c.Query("url")))
		if err != nil {
			return err
		}
		return c.JSON(dto.ListResponse{ClientID: clientID, Data: dto.NewEventResponses(list)})
	}
}

// SessionPaths handles POST /api/get/paths.
func (h *EventsHandler) SessionPaths(c *fiber.Ctx) error {
	var req dto.SessionPathsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.SessionID == "" {
		return apperrors.NewInvalidRequest("missing sessionId", nil)
	}
	clientID, err := auth.EnsureClientMatch(c, "")
	if err != nil {
		return err
	}
	list, err := h.events.SessionPaths(c.UserContext(), clientID, req.SessionID, req.URL)
	if err != nil {
		return err
	}
	return c.JSON(dto.ListResponse{ClientID: clientID, Data: dto.NewEventResponses(list)})
}

// RemovePath handles POST /api/remove/path.
func (h *EventsHandler) RemovePath(c *fiber.Ctx) error {
	var req dto.RemovePathRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewInvalidRequest("missing id", nil)
	}
	clientID, err := auth.EnsureClientMatch(c, "")
	if err != nil {
		return err
	}
	deleted, err := h.events.RemovePath(c.UserContext(), clientID, req.ID)
	if err != nil {
		return err
	}
	count := 0
	if deleted {
		count = 1
	}
	return c.JSON(dto.RemoveResponse{Success: true, DeletedCount: count})
}

// Session handles GET /api/get/:sessionId.
func (h *EventsHandler) Session(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return apperrors.NewInvalidRequest("missing sessionId", nil)
	}
	clientID, err := auth.EnsureClientMatch(c, "")
	if err != nil {
		return err
	}
	activity, err := h.events.SessionActivity(c.UserContext(), clientID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.SessionResponse{
		SessionID: activity.SessionID,
		ClientID:  clientID,
		Visits:    dto.NewEventResponses(activity.Visits),
		Clicks:    dto.NewEventResponses(activity.Clicks),
		Paths:     dto.NewEventResponses(activity.Paths),
		Scroll:    dto.NewEventResponses(activity.Scroll),
	})
}
