package service_test

import (
	"sync"
	"testing"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/repository/postgres"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/dom/daily-checkin/internal/testutil"
	"gorm.io/gorm"
)

// recordingNotifier captures published schedule events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ScheduleEvent
}

func (n *recordingNotifier) NotifyScheduleChanged(event domain.ScheduleEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Types() []domain.ScheduleEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]domain.ScheduleEventType, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

func newTestServices(t *testing.T, db *gorm.DB, clock service.Clock) (*service.Services, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	repos := postgres.NewRepositories(db)
	return service.NewServices(repos, testutil.TestConfig(), notifier, clock), notifier
}
