package repositories

import (
	"restocoach/internal/database"
)

type Repository struct {
	User         UserRepository
	Restaurant   RestaurantRepository
	Template     TemplateRepository
	ContentIdea  ContentIdeaRepository
	Mission      MissionRepository
	Streak       StreakRepository
	Badge        BadgeRepository
	Settings     SettingsRepository
	Tutorial     TutorialRepository
	Notification NotificationRepository
	Audit        AuditRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db.Cache.User),
		Restaurant:   NewRestaurantRepository(),
		Template:     NewTemplateRepository(),
		ContentIdea:  NewContentIdeaRepository(),
		Mission:      NewMissionRepository(),
		Streak:       NewStreakRepository(),
		Badge:        NewBadgeRepository(),
		Settings:     NewSettingsRepository(),
		Tutorial:     NewTutorialRepository(),
		Notification: NewNotificationRepository(),
		Audit:        NewAuditRepository(),
	}
}
