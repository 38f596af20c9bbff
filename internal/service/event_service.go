package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// EventService stores and reads analytics records for authenticated clients.
type EventService struct {
	events       repository.EventRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

// EventDependencies bundles collaborators for the event service.
type EventDependencies struct {
	EventRepo    repository.EventRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	StoreTimeout time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// RecordInput describes one record to store.
type RecordInput struct {
	Kind       domain.EventKind
	SessionID  string
	URL        string
	OccurredAt int64
	Attributes map[string]any
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:       deps.EventRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		storeTimeout: deps.StoreTimeout,
		now:          now,
	}
}

// Record stores a record tagged with clientID.
func (s *EventService) Record(ctx context.Context, clientID string, input RecordInput) (*domain.Event, error) {
	if clientID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !input.Kind.Valid() {
		return nil, apperrors.NewInvalidRequest("unknown record kind", map[string]any{"kind": input.Kind})
	}
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, apperrors.NewInvalidRequest("sessionId is required", nil)
	}

	event := &domain.Event{
		ID:         uuid.NewString(),
		Kind:       input.Kind,
		ClientID:   clientID,
		SessionID:  input.SessionID,
		URL:        input.URL,
		OccurredAt: input.OccurredAt,
		Attributes: input.Attributes,
	}

	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	err := s.events.Create(storeCtx, event)
	cancel()
	if err != nil {
		return nil, storeFailure("create event", err)
	}

	_ = events.Publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventRecordStored,
		ClientID:  clientID,
		Timestamp: s.now(),
		Payload: events.RecordStoredPayload{
			Kind:      string(event.Kind),
			RecordID:  event.ID,
			SessionID: event.SessionID,
		},
	})
	return event, nil
}

// List returns the caller's records of one kind, optionally restricted to a URL.
func (s *EventService) List(ctx context.Context, clientID string, kind domain.EventKind, url string) ([]domain.Event, error) {
	return s.list(ctx, repository.EventFilter{ClientID: clientID, Kind: kind, URL: url})
}

// SessionPaths returns the path records of one session.
func (s *EventService) SessionPaths(ctx context.Context, clientID, sessionID, url string) ([]domain.Event, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.NewInvalidRequest("sessionId is required", nil)
	}
	return s.list(ctx, repository.EventFilter{
		ClientID:  clientID,
		Kind:      domain.EventKindPath,
		SessionID: sessionID,
		URL:       url,
	})
}

// RemovePath deletes one of the caller's path records and reports whether it existed.
func (s *EventService) RemovePath(ctx context.Context, clientID, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, apperrors.NewInvalidRequest("invalid id", map[string]any{"id": id})
	}

	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	deleted, err := s.events.Delete(storeCtx, clientID, domain.EventKindPath, id)
	cancel()
	if err != nil {
		return false, storeFailure("delete event", err)
	}
	return deleted, nil
}

// SessionActivity loads all four record kinds of one session concurrently.
func (s *EventService) SessionActivity(ctx context.Context, clientID, sessionID string) (*domain.SessionActivity, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.NewInvalidRequest("sessionId is required", nil)
	}

	activity := &domain.SessionActivity{SessionID: sessionID, ClientID: clientID}
	targets := []struct {
		kind domain.EventKind
		dst  *[]domain.Event
	}{
		{domain.EventKindVisit, &activity.Visits},
		{domain.EventKindClick, &activity.Clicks},
		{domain.EventKindPath, &activity.Paths},
		{domain.EventKindScroll, &activity.Scroll},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			list, err := s.list(gctx, repository.EventFilter{
				ClientID:  clientID,
				Kind:      target.kind,
				SessionID: sessionID,
			})
			if err != nil {
				return err
			}
			*target.dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *EventService) list(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	if filter.ClientID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()
	list, err := s.events.List(storeCtx, filter)
	if err != nil {
		return nil, storeFailure("list events", err)
	}
	return list, nil
}
