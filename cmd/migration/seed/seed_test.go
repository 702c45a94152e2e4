package seed

import (
	"testing"

	"restocoach/config"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	assert.NotEmpty(t, catalog.Templates)
	assert.NoError(t, services.ValidateLevels(catalog.Levels))

	for _, template := range catalog.Templates {
		assert.True(t, template.Type.Valid(), template.Title)
	}
	for _, badge := range catalog.Badges {
		assert.True(t, badge.CriteriaType.Valid(), badge.Slug)
	}
	for _, idea := range catalog.Ideas {
		candidate := ContentIdea{
			Text:            idea.Text,
			RestaurantTypes: idea.RestaurantTypes,
			ContentTypes:    idea.ContentTypes,
			Categories:      idea.Categories,
		}
		assert.NoError(t, candidate.Validate(), idea.Text)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	log := logger.New("seedTest")
	require.NoError(t, Seed(db, config.Config{}, log))
	require.NoError(t, Seed(db, config.Config{}, log))

	catalog, err := LoadCatalog()
	require.NoError(t, err)

	counts := map[any]int{
		&MissionTemplate{}: len(catalog.Templates),
		&ContentIdea{}:     len(catalog.Ideas),
		&LevelThreshold{}:  len(catalog.Levels),
		&Badge{}:           len(catalog.Badges),
		&User{}:            len(catalog.Users),
		&Restaurant{}:      2,
	}
	for model, want := range counts {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Equal(t, int64(want), count, "%T", model)
	}

	var template MissionTemplate
	require.NoError(t, db.Where("title = ?", "Dish of the day").First(&template).Error)
	assert.NotNil(t, template.CategoryID)
	assert.NotNil(t, template.TutorialID)
	require.NotNil(t, template.NotificationTime)
	assert.Equal(t, "11:00", *template.NotificationTime)
}
