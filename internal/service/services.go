package service

import (
	"github.com/dom/daily-checkin/internal/config"
	"github.com/dom/daily-checkin/internal/repository"
)

type Services struct {
	Auth       *AuthService
	Definition *DefinitionService
	Schedule   *ScheduleService
	Checkin    *CheckinService
}

// NewServices wires every service over repos. notifier and clock may be nil.
func NewServices(repos *repository.Repositories, cfg *config.Config, notifier ScheduleNotifier, clock Clock) *Services {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Services{
		Auth:       NewAuthService(repos.User, repos.Session, cfg),
		Definition: NewDefinitionService(repos, notifier, cfg.StorageTimeout),
		Schedule:   NewScheduleService(repos, clock, cfg.StorageTimeout),
		Checkin:    NewCheckinService(repos, notifier, cfg.StorageTimeout),
	}
}
