package service

import "github.com/dom/daily-checkin/internal/domain"

// ScheduleNotifier receives schedule changes after they are committed.
type ScheduleNotifier interface {
	NotifyScheduleChanged(event domain.ScheduleEvent)
}

type noopNotifier struct{}

func (noopNotifier) NotifyScheduleChanged(domain.ScheduleEvent) {}

func notifierOrNoop(n ScheduleNotifier) ScheduleNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
