package services

import (
	"context"
	"path/filepath"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"restocoach/internal/utils"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []NotificationKind
}

func (n *recordingNotifier) Notify(
	ctx context.Context,
	userID uuid.UUID,
	kind NotificationKind,
	title, body string,
	data map[string]any,
) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

func (n *recordingNotifier) count(kind NotificationKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, k := range n.kinds {
		if k == kind {
			total++
		}
	}
	return total
}

type testEnv struct {
	ctx          context.Context
	db           *gorm.DB
	repos        repositories.Repository
	clock        *utils.FixedClock
	calendar     *utils.Calendar
	notifier     *recordingNotifier
	settings     *SettingsService
	gamification *GamificationService
	missions     *MissionService
}

var testRules = MissionRules{
	MissionsPerDay:     3,
	RotationWindowDays: 7,
	MaxSkipsPerDay:     2,
	MaxReloadsPerDay:   3,
}

// newTestEnv opens a file-backed SQLite database so concurrent goroutines share one store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "restocoach.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	location, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	clock := utils.NewFixedClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, location))
	calendar := utils.NewCalendar(clock, location)
	repos := repositories.New(database.NewWithSQL(db))
	notifier := &recordingNotifier{}
	settings := NewSettingsService(repos, db, nil)
	gamification := NewGamificationService(repos, db, calendar, settings, notifier)

	return &testEnv{
		ctx:          context.Background(),
		db:           db,
		repos:        repos,
		clock:        clock,
		calendar:     calendar,
		notifier:     notifier,
		settings:     settings,
		gamification: gamification,
		missions:     NewMissionService(repos, db, calendar, testRules, gamification),
	}
}

func (e *testEnv) createUser(t *testing.T) *User {
	t.Helper()
	user := &User{DisplayName: "Chez Marius", IsActive: true, CurrentLevel: 1}
	require.NoError(t, e.repos.User.Create(e.ctx, e.db, user))
	return user
}

func (e *testEnv) createCategory(t *testing.T, slug string) *ThematicCategory {
	t.Helper()
	category := &ThematicCategory{Name: slug, Slug: slug}
	require.NoError(t, e.db.Create(category).Error)
	return category
}

func (e *testEnv) createTemplate(
	t *testing.T,
	title string,
	sortOrder int,
	category *ThematicCategory,
) *MissionTemplate {
	t.Helper()
	template := &MissionTemplate{
		Type:        MissionTypePost,
		Title:       title,
		DefaultIdea: "Idea for " + title,
		IsActive:    true,
		SortOrder:   sortOrder,
	}
	if category != nil {
		template.CategoryID = &category.ID
	}
	require.NoError(t, e.repos.Template.Create(e.ctx, e.db, template))
	return template
}

// seedCatalog creates four templates across three categories.
func (e *testEnv) seedCatalog(t *testing.T) []*MissionTemplate {
	t.Helper()
	dishes := e.createCategory(t, "dishes")
	team := e.createCategory(t, "team")
	events := e.createCategory(t, "events")

	return []*MissionTemplate{
		e.createTemplate(t, "Dish of the day", 1, dishes),
		e.createTemplate(t, "Chef portrait", 2, team),
		e.createTemplate(t, "Wine tasting", 3, events),
		e.createTemplate(t, "Dessert close-up", 4, dishes),
	}
}

// seedGamification installs levels (1,0) (2,50) (3,150) and 10 XP per completed mission.
func (e *testEnv) seedGamification(t *testing.T) {
	t.Helper()
	require.NoError(t, e.repos.Settings.ReplaceLevels(e.ctx, e.db, []*LevelThreshold{
		{Level: 1, XPRequired: 0, Title: "Apprentice"},
		{Level: 2, XPRequired: 50, Title: "Line cook"},
		{Level: 3, XPRequired: 150, Title: "Chef"},
	}))
	require.NoError(t, e.repos.Settings.UpsertXpActions(e.ctx, e.db, []*XpAction{
		{ActionType: XPActionMissionCompleted, XPAmount: 10, IsActive: true},
		{ActionType: XPActionTutorialViewed, XPAmount: 5, IsActive: true},
	}))
}

func (e *testEnv) setXP(t *testing.T, userID uuid.UUID, xp int) {
	t.Helper()
	require.NoError(t, e.db.Model(&User{}).Where("id = ?", userID).Update("xp_total", xp).Error)
}

func (e *testEnv) setStreak(t *testing.T, userID uuid.UUID, current int, last utils.Day) *Streak {
	t.Helper()
	streak := &Streak{UserID: userID, CurrentStreak: current, LongestStreak: current, LastActivityDate: &last}
	require.NoError(t, e.repos.Streak.Create(e.ctx, e.db, streak))
	return streak
}

func (e *testEnv) reloadUser(t *testing.T, userID uuid.UUID) *User {
	t.Helper()
	var user User
	require.NoError(t, e.db.Where("id = ?", userID).First(&user).Error)
	return &user
}
