package adminController

import (
	"context"
	"path/filepath"
	"testing"

	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"restocoach/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestController(t *testing.T) (*AdminController, *User) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "admin.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	repos := repositories.New(database.NewWithSQL(db))
	admin := services.NewAdminService(
		repos,
		db,
		services.NewTransactionService(database.NewWithSQL(db)),
		services.NewSettingsService(repos, db, nil),
		nil,
		nil,
	)

	actor := &User{DisplayName: "Back office", IsActive: true, IsAdmin: true, CurrentLevel: 1}
	require.NoError(t, db.Create(actor).Error)

	return &AdminController{adminService: admin}, actor
}

func TestTemplateRequestToModel(t *testing.T) {
	reminder := "11:30"

	template := TemplateRequest{
		Type:             MissionTypeStory,
		Title:            "Behind the pass",
		ContentIdea:      "Film the plating of the signature dish",
		NotificationTime: &reminder,
		SortOrder:        4,
	}.toModel()

	assert.True(t, template.IsActive)
	assert.Equal(t, "Film the plating of the signature dish", template.DefaultIdea)
	assert.Equal(t, MissionTypeStory, template.Type)
	assert.Equal(t, 4, template.SortOrder)

	inactive := false
	assert.False(t, TemplateRequest{Title: "Old", IsActive: &inactive}.toModel().IsActive)
}

func TestGetJobStatus_WithoutScheduler(t *testing.T) {
	ac := &AdminController{}

	status := ac.GetJobStatus()
	assert.False(t, status.Running)
	assert.Empty(t, status.Jobs)
}

func TestCreateAndUpdateTemplate(t *testing.T) {
	ac, actor := newTestController(t)
	ctx := context.Background()

	created, err := ac.CreateTemplate(ctx, actor, TemplateRequest{
		Type:        MissionTypePost,
		Title:       "Dish of the day",
		ContentIdea: "Shoot the special by the window",
		SortOrder:   1,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	inactive := false
	updated, err := ac.UpdateTemplate(ctx, actor, created.ID.String(), TemplateRequest{
		Type:     MissionTypeReel,
		Title:    "Dish of the day, in motion",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, MissionTypeReel, updated.Type)
	assert.False(t, updated.IsActive)

	templates, err := ac.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Dish of the day, in motion", templates[0].Title)
}

func TestUpdateTemplate_Errors(t *testing.T) {
	ac, actor := newTestController(t)
	ctx := context.Background()

	_, err := ac.UpdateTemplate(ctx, actor, "not-a-uuid", TemplateRequest{Type: MissionTypePost, Title: "x"})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = ac.UpdateTemplate(ctx, actor, uuid.NewString(), TemplateRequest{Type: MissionTypePost, Title: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
