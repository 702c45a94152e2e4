package database

import (
	"restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// AllModels lists every table in dependency order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Strategy{},
		&models.ThematicCategory{},
		&models.Tutorial{},
		&models.Restaurant{},
		&models.MissionTemplate{},
		&models.ContentIdea{},
		&models.Mission{},
		&models.Streak{},
		&models.Badge{},
		&models.BadgeUnlock{},
		&models.LevelThreshold{},
		&models.XpAction{},
		&models.TutorialView{},
		&models.Notification{},
		&models.AuditEntry{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	return AutoMigrate(db.SQL)
}

func AutoMigrate(sql *gorm.DB) error {
	log := logger.New("database").Function("AutoMigrate")
	log.Info("Starting database migration")

	for _, model := range AllModels() {
		if err := sql.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_missions_user_status_day ON missions(user_id, status, day)",
		"CREATE INDEX IF NOT EXISTS idx_missions_user_assigned_at ON missions(user_id, assigned_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_created_at ON notifications(user_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
