package controllers

import (
	"restocoach/internal/services"

	adminController "restocoach/internal/controllers/admin"
	gamificationController "restocoach/internal/controllers/gamification"
	missionController "restocoach/internal/controllers/missions"
	notificationController "restocoach/internal/controllers/notifications"
	userController "restocoach/internal/controllers/users"
)

type Controllers struct {
	Mission      missionController.MissionControllerInterface
	Gamification gamificationController.GamificationControllerInterface
	Notification notificationController.NotificationControllerInterface
	User         userController.UserControllerInterface
	Admin        adminController.AdminControllerInterface
}

func New(services services.Service) Controllers {
	return Controllers{
		Mission:      missionController.New(services),
		Gamification: gamificationController.New(services),
		Notification: notificationController.New(services),
		User:         userController.New(services),
		Admin:        adminController.New(services),
	}
}
