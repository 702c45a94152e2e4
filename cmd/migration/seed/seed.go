package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"restocoach/config"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Catalog struct {
	Strategies []*Strategy         `yaml:"strategies"`
	Categories []*ThematicCategory `yaml:"categories"`
	Tutorials  []*Tutorial         `yaml:"tutorials"`
	Templates  []templateSeed      `yaml:"templates"`
	Ideas      []ideaSeed          `yaml:"ideas"`
	Levels     []*LevelThreshold   `yaml:"levels"`
	XpActions  []*XpAction         `yaml:"xpActions"`
	Badges     []*Badge            `yaml:"badges"`
	Users      []userSeed          `yaml:"users"`
}

type templateSeed struct {
	Title            string      `yaml:"title"`
	Type             MissionType `yaml:"type"`
	Strategy         string      `yaml:"strategy"`
	Category         string      `yaml:"category"`
	Tutorial         string      `yaml:"tutorial"`
	Description      string      `yaml:"description"`
	ContentIdea      string      `yaml:"contentIdea"`
	NotificationTime string      `yaml:"notificationTime"`
	SortOrder        int         `yaml:"sortOrder"`
}

type ideaSeed struct {
	Text            string `yaml:"text"`
	SortOrder       int    `yaml:"sortOrder"`
	RestaurantTypes Scope  `yaml:"restaurantTypes"`
	ContentTypes    Scope  `yaml:"contentTypes"`
	Categories      Scope  `yaml:"categories"`
}

type userSeed struct {
	DisplayName string          `yaml:"displayName"`
	Email       string          `yaml:"email"`
	IsAdmin     bool            `yaml:"isAdmin"`
	Restaurant  *restaurantSeed `yaml:"restaurant"`
}

type restaurantSeed struct {
	Name              string            `yaml:"name"`
	RestaurantType    string            `yaml:"restaurantType"`
	Strategy          string            `yaml:"strategy"`
	PublicationRhythm PublicationRhythm `yaml:"publicationRhythm"`
	Tags              []string          `yaml:"tags"`
}

// LoadCatalog parses the embedded development catalog.
func LoadCatalog() (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &catalog, nil
}

// Seed installs the catalog, gamification settings and demo users. Catalog rows and users that
// already exist (matched by slug, title, text or email) are left untouched; levels are replaced
// and xp actions and badges upserted. Running it twice is safe.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	catalog, err := LoadCatalog()
	if err != nil {
		return log.Err("failed to load catalog", err)
	}

	ctx := context.Background()
	repos := repositories.New(database.NewWithSQL(db))

	return db.Transaction(func(tx *gorm.DB) error {
		strategies, err := seedBySlug(tx, catalog.Strategies, func(s *Strategy) string { return s.Slug }, log)
		if err != nil {
			return err
		}
		categories, err := seedBySlug(tx, catalog.Categories, func(c *ThematicCategory) string { return c.Slug }, log)
		if err != nil {
			return err
		}
		tutorials, err := seedBySlug(tx, catalog.Tutorials, func(t *Tutorial) string { return t.Slug }, log)
		if err != nil {
			return err
		}

		if err := seedTemplates(tx, catalog.Templates, strategies, categories, tutorials, log); err != nil {
			return err
		}
		if err := seedIdeas(tx, catalog.Ideas, log); err != nil {
			return err
		}

		if err := repos.Settings.ReplaceLevels(ctx, tx, catalog.Levels); err != nil {
			return log.Err("failed to seed levels", err)
		}
		if err := repos.Settings.UpsertXpActions(ctx, tx, catalog.XpActions); err != nil {
			return log.Err("failed to seed xp actions", err)
		}
		if err := repos.Badge.UpsertBySlug(ctx, tx, catalog.Badges); err != nil {
			return log.Err("failed to seed badges", err)
		}

		return seedUsers(tx, catalog.Users, strategies, log)
	})
}

// seedBySlug creates missing rows and returns every row by slug, including pre-existing ones.
func seedBySlug[T any](
	tx *gorm.DB,
	rows []*T,
	slugOf func(*T) string,
	log logger.Logger,
) (map[string]*T, error) {
	bySlug := make(map[string]*T, len(rows))

	for _, row := range rows {
		slug := slugOf(row)

		var existing T
		err := tx.Where("slug = ?", slug).First(&existing).Error
		switch {
		case err == nil:
			log.Debug("Row already exists", "slug", slug)
			bySlug[slug] = &existing
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, log.Err("failed to look up row", err, "slug", slug)
		}

		if err := tx.Create(row).Error; err != nil {
			return nil, log.Err("failed to create row", err, "slug", slug)
		}
		bySlug[slug] = row
	}

	return bySlug, nil
}

func seedTemplates(
	tx *gorm.DB,
	seeds []templateSeed,
	strategies map[string]*Strategy,
	categories map[string]*ThematicCategory,
	tutorials map[string]*Tutorial,
	log logger.Logger,
) error {
	for _, seed := range seeds {
		var count int64
		if err := tx.Model(&MissionTemplate{}).Where("title = ?", seed.Title).Count(&count).Error; err != nil {
			return log.Err("failed to look up template", err, "title", seed.Title)
		}
		if count > 0 {
			continue
		}

		template := &MissionTemplate{
			Type:        seed.Type,
			Title:       seed.Title,
			Description: seed.Description,
			DefaultIdea: seed.ContentIdea,
			IsActive:    true,
			SortOrder:   seed.SortOrder,
		}
		if strategy, ok := strategies[seed.Strategy]; ok {
			template.StrategyID = &strategy.ID
		}
		if category, ok := categories[seed.Category]; ok {
			template.CategoryID = &category.ID
		}
		if tutorial, ok := tutorials[seed.Tutorial]; ok {
			template.TutorialID = &tutorial.ID
		}
		if seed.NotificationTime != "" {
			notificationTime := seed.NotificationTime
			template.NotificationTime = &notificationTime
		}

		if err := tx.Create(template).Error; err != nil {
			return log.Err("failed to create template", err, "title", seed.Title)
		}
	}

	log.Info("Templates seeded", "count", len(seeds))
	return nil
}

func seedIdeas(tx *gorm.DB, seeds []ideaSeed, log logger.Logger) error {
	for _, seed := range seeds {
		var count int64
		if err := tx.Model(&ContentIdea{}).Where("text = ?", seed.Text).Count(&count).Error; err != nil {
			return log.Err("failed to look up idea", err)
		}
		if count > 0 {
			continue
		}

		idea := &ContentIdea{
			Text:            seed.Text,
			IsActive:        true,
			SortOrder:       seed.SortOrder,
			RestaurantTypes: seed.RestaurantTypes,
			ContentTypes:    seed.ContentTypes,
			Categories:      seed.Categories,
		}
		if err := tx.Create(idea).Error; err != nil {
			return log.Err("failed to create idea", err, "text", seed.Text)
		}
	}

	log.Info("Content ideas seeded", "count", len(seeds))
	return nil
}

func seedUsers(tx *gorm.DB, seeds []userSeed, strategies map[string]*Strategy, log logger.Logger) error {
	for _, seed := range seeds {
		var existing User
		if err := tx.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			log.Info("User already exists", "email", seed.Email)
			continue
		}

		email := seed.Email
		user := &User{
			DisplayName:  seed.DisplayName,
			Email:        &email,
			IsAdmin:      seed.IsAdmin,
			IsActive:     true,
			CurrentLevel: 1,
		}
		if err := tx.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "email", seed.Email)
		}

		if seed.Restaurant == nil {
			continue
		}

		restaurant := &Restaurant{
			UserID:            user.ID,
			Name:              seed.Restaurant.Name,
			RestaurantType:    seed.Restaurant.RestaurantType,
			PublicationRhythm: seed.Restaurant.PublicationRhythm,
			Tags:              seed.Restaurant.Tags,
		}
		if strategy, ok := strategies[seed.Restaurant.Strategy]; ok {
			restaurant.StrategyID = &strategy.ID
		}
		if err := tx.Create(restaurant).Error; err != nil {
			return log.Err("failed to create restaurant", err, "email", seed.Email)
		}
	}

	log.Info("Users seeded", "count", len(seeds))
	return nil
}
