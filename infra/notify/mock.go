package notify

import (
	"sync"

	"github.com/maintops/crewsched/core/model"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Published []*model.Schedule
	Err       error
	mu        sync.Mutex
}

// PublishSchedule records the schedule or returns the configured error.
func (m *MockPublisher) PublishSchedule(s *model.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, s)
	return nil
}

// Close implements Publisher.
func (m *MockPublisher) Close() error { return nil }
