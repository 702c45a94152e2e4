package services

import (
	"restocoach/config"
	"restocoach/internal/database"
	"restocoach/internal/events"
	"restocoach/internal/repositories"
	"restocoach/internal/utils"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Settings     *SettingsService
	Notification *NotificationService
	Gamification *GamificationService
	Mission      *MissionService
	User         *UserService
	Token        *TokenService
	RateLimiter  *RateLimiterService
	Admin        *AdminService
	Calendar     *utils.Calendar
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	location, err := config.Location()
	if err != nil {
		return Service{}, err
	}

	calendar := utils.NewCalendar(utils.SystemClock{}, location)
	repos := repositories.New(db)

	var keyValue database.KeyValueStore = database.NewMemoryKeyValueStore(nil)
	if db.Cache.KeyValue != nil {
		keyValue = database.NewValkeyKeyValueStore(db.Cache.KeyValue)
	}

	var dispatcher Dispatcher
	if eventBus != nil {
		dispatcher = NewEventBusDispatcher(eventBus)
	}

	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService(location)
	settingsService := NewSettingsService(repos, db.SQL, db.Cache.General)
	notificationService := NewNotificationService(
		repos,
		db.SQL,
		dispatcher,
		keyValue,
		calendar,
		config.NotificationHour,
	)
	gamificationService := NewGamificationService(
		repos,
		db.SQL,
		calendar,
		settingsService,
		notificationService,
	)
	missionService := NewMissionService(
		repos,
		db.SQL,
		calendar,
		MissionRulesFromConfig(config),
		gamificationService,
	)

	return Service{
		Transaction:  transactionService,
		Scheduler:    schedulerService,
		Settings:     settingsService,
		Notification: notificationService,
		Gamification: gamificationService,
		Mission:      missionService,
		User:         NewUserService(repos, db.SQL),
		Token:        NewTokenService(config.JWTSecret, nil),
		RateLimiter:  NewRateLimiterService(keyValue, config.RateLimitPerMinute, nil),
		Admin: NewAdminService(
			repos,
			db.SQL,
			transactionService,
			settingsService,
			eventBus,
			schedulerService,
		),
		Calendar: calendar,
	}, nil
}
