// Package health tracks whether the upstream services behind the API are
// answering. Items are registered at startup and updated from the outcome of
// real requests and on-demand checks. All state is in-memory.
package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CheckFunc tests connectivity to one upstream.
type CheckFunc func(ctx context.Context) error

// Service manages the health state of all tracked items.
type Service struct {
	items  map[string]*HealthItem
	checks map[string]CheckFunc
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewService creates a new health service.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		items:  make(map[string]*HealthItem),
		checks: make(map[string]CheckFunc),
		logger: logger.With().Str("component", "health").Logger(),
	}
}

// RegisterItem adds an item with OK status. Errors reported for it move it
// to failure, which must be StatusWarning or StatusError. check may be nil.
func (s *Service) RegisterItem(id, name string, failure HealthStatus, check CheckFunc) {
	if failure != StatusWarning {
		failure = StatusError
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = &HealthItem{
		ID:      id,
		Name:    name,
		Status:  StatusOK,
		failure: failure,
	}
	if check != nil {
		s.checks[id] = check
	} else {
		delete(s.checks, id)
	}

	s.logger.Debug().
		Str("id", id).
		Str("name", name).
		Msg("Registered health item")
}

// Report records the outcome of a request against id. A nil err clears the
// item and a cancelled request is ignored; anything else moves the item to
// its failure status.
func (s *Service) Report(id string, err error) {
	if err == nil {
		s.ClearStatus(id)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	s.mu.RLock()
	item, exists := s.items[id]
	var failure HealthStatus
	if exists {
		failure = item.failure
	}
	s.mu.RUnlock()

	if !exists {
		s.logger.Warn().Str("id", id).Msg("Attempted to report on unregistered item")
		return
	}
	s.setStatus(id, failure, err.Error())
}

// SetError sets an item to Error status with a message.
func (s *Service) SetError(id, message string) {
	s.setStatus(id, StatusError, message)
}

// SetWarning sets an item to Warning status with a message.
func (s *Service) SetWarning(id, message string) {
	s.setStatus(id, StatusWarning, message)
}

// ClearStatus resets an item to OK status.
func (s *Service) ClearStatus(id string) {
	s.setStatus(id, StatusOK, "")
}

func (s *Service) setStatus(id string, status HealthStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		s.logger.Warn().Str("id", id).Msg("Attempted to update status for unregistered item")
		return
	}

	// Only update if status changed
	if item.Status == status && item.Message == message {
		return
	}

	oldStatus := item.Status
	item.Status = status
	item.Message = message

	if status != StatusOK {
		now := time.Now()
		item.Timestamp = &now
	} else {
		item.Timestamp = nil
	}

	event := s.logger.Info()
	if status != StatusOK {
		event = s.logger.Warn()
	}
	event.
		Str("id", id).
		Str("name", item.Name).
		Str("oldStatus", string(oldStatus)).
		Str("newStatus", string(status)).
		Str("message", message).
		Msg("Health status changed")
}

// GetAll returns all items ordered by ID.
func (s *Service) GetAll() []HealthItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]HealthItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// GetItem returns a copy of a single item, or nil.
func (s *Service) GetItem(id string) *HealthItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		cp := *item
		return &cp
	}
	return nil
}

// GetSummary returns status counts across all items.
func (s *Service) GetSummary() *HealthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &HealthSummary{}
	for _, item := range s.items {
		switch item.Status {
		case StatusOK:
			summary.OK++
		case StatusWarning:
			summary.Warning++
		case StatusError:
			summary.Error++
		}
	}
	summary.HasIssues = summary.Warning > 0 || summary.Error > 0
	return summary
}

// IsHealthy returns true if the specified item is OK.
func (s *Service) IsHealthy(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item.Status == StatusOK
	}
	return false
}

// Test runs the registered check for id and records the result.
func (s *Service) Test(ctx context.Context, id string) (TestResult, bool) {
	s.mu.RLock()
	_, exists := s.items[id]
	check := s.checks[id]
	s.mu.RUnlock()

	if !exists {
		return TestResult{}, false
	}

	result := TestResult{ID: id}
	if check == nil {
		result.Message = "no check available"
		return result, true
	}

	if err := check(ctx); err != nil {
		s.Report(id, err)
		result.Message = err.Error()
		return result, true
	}

	s.Report(id, nil)
	result.Success = true
	result.Message = "Connection verified"
	return result, true
}

// TestAll runs every registered check sequentially, ordered by ID.
func (s *Service) TestAll(ctx context.Context) []TestResult {
	items := s.GetAll()
	results := make([]TestResult, 0, len(items))
	for _, item := range items {
		if result, ok := s.Test(ctx, item.ID); ok {
			results = append(results, result)
		}
	}
	return results
}
