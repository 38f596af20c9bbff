package dto

import (
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

// VisitRequest payload for POST /api/set/visits.
type VisitRequest struct {
	ClientID  string `json:"clientId" form:"clientId"`
	SessionID string `json:"sessionId" form:"sessionId"`
	URL       string `json:"url" form:"url"`
	Time      int64  `json:"time" form:"time"`
}

// ClickRequest payload for POST /api/set/click.
type ClickRequest struct {
	ClientID  string   `json:"clientId" form:"clientId"`
	SessionID string   `json:"sessionId" form:"sessionId"`
	URL       string   `json:"url" form:"url"`
	Time      int64    `json:"time" form:"time"`
	X         *float64 `json:"x" form:"x"`
	Y         *float64 `json:"y" form:"y"`
	ScrollX   *float64 `json:"scrollX" form:"scrollX"`
	ScrollY   *float64 `json:"scrollY" form:"scrollY"`
}

// ScrollRequest payload for POST /api/set/scroll.
type ScrollRequest struct {
	ClientID  string   `json:"clientId" form:"clientId"`
	SessionID string   `json:"sessionId" form:"sessionId"`
	URL       string   `json:"url" form:"url"`
	Time      int64    `json:"time" form:"time"`
	X         *float64 `json:"x" form:"x"`
	Y         *float64 `json:"y" form:"y"`
}

// PathRequest payload for POST /api/set/path. Ref is accepted as an alias of PrevURL.
type PathRequest struct {
	ClientID  string `json:"clientId" form:"clientId"`
	SessionID string `json:"sessionId" form:"sessionId"`
	URL       string `json:"url" form:"url"`
	Time      int64  `json:"time" form:"time"`
	PrevURL   string `json:"prevUrl" form:"prevUrl"`
	Ref       string `json:"ref" form:"ref"`
}

// SessionPathsRequest payload for POST /api/get/paths.
type SessionPathsRequest struct {
	SessionID string `json:"sessionId" form:"sessionId"`
	URL       string `json:"url" form:"url"`
}

// RemovePathRequest payload for POST /api/remove/path.
type RemovePathRequest struct {
	ID string `json:"id" form:"id"`
}

// WriteResponse acknowledges a stored record.
type WriteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// RemoveResponse reports how many records were deleted.
type RemoveResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

// ListResponse wraps records of the calling client.
type ListResponse struct {
	ClientID string          `json:"clientId"`
	Data     []EventResponse `json:"data"`
}

// SessionResponse groups every record of one session.
type SessionResponse struct {
	SessionID string          `json:"sessionId"`
	ClientID  string          `json:"clientId"`
	Visits    []EventResponse `json:"visits"`
	Clicks    []EventResponse `json:"clicks"`
	Paths     []EventResponse `json:"paths"`
	Scroll    []EventResponse `json:"scroll"`
}

// EventResponse is a record flattened into its JSON shape.
type EventResponse map[string]any

// NewEventResponse flattens kind specific attributes next to the common fields.
func NewEventResponse(e domain.Event) EventResponse {
	out := make(EventResponse, len(e.Attributes)+5)
	for k, v := range e.Attributes {
		out[k] = v
	}
	out["id"] = e.ID
	out["clientId"] = e.ClientID
	out["sessionId"] = e.SessionID
	out["url"] = e.URL
	out["time"] = e.OccurredAt
	return out
}

// NewEventResponses converts a slice, never returning nil.
func NewEventResponses(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}
