package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

type memoryEventRepository struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewMemoryEventRepository returns an in-process EventRepository.
func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{}
}

func (r *memoryEventRepository) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.CreatedAt = time.Now()
	stored := *event
	stored.ID = strings.Clone(event.ID)
	stored.ClientID = strings.Clone(event.ClientID)
	stored.SessionID = strings.Clone(event.SessionID)
	stored.URL = strings.Clone(event.URL)
	stored.Attributes = copyAttributes(event.Attributes)
	r.events = append(r.events, stored)
	return nil
}

func (r *memoryEventRepository) List(_ context.Context, filter EventFilter) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Event{}
	for _, event := range r.events {
		if event.ClientID != filter.ClientID {
			continue
		}
		if filter.Kind != "" && event.Kind != filter.Kind {
			continue
		}
		if filter.SessionID != "" && event.SessionID != filter.SessionID {
			continue
		}
		if filter.URL != "" && event.URL != filter.URL {
			continue
		}
		event.Attributes = copyAttributes(event.Attributes)
		result = append(result, event)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt < result[j].OccurredAt
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memoryEventRepository) Delete(_ context.Context, clientID string, kind domain.EventKind, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, event := range r.events {
		if event.ID == id && event.ClientID == clientID && event.Kind == kind {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func copyAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
