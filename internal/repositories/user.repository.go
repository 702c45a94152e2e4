package repositories

import (
	"context"
	"errors"
	"restocoach/internal/constants"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	ListActiveIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) (int, error)
	SetLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, level int) error
	TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error
	ClearUserCache(ctx context.Context, userID uuid.UUID)
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) cacheEntry(userID uuid.UUID) database.CacheEntry[*User] {
	return database.NewCacheEntry[*User](r.cache, constants.UserCachePrefix, userID, constants.UserCacheExpiry)
}

// GetByID reads through the user cache. Misses preload the restaurant profile.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	return r.cacheEntry(userID).Fetch(ctx, log, func(ctx context.Context) (*User, error) {
		user, err := gorm.G[User](tx).
			Preload("Restaurant", nil).
			Where("id = ?", userID).
			First(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			return nil, log.Err("failed to get user by id", err, "userID", userID)
		}
		return &user, nil
	})
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) ListActiveIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListActiveIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list active users", err)
	}

	return ids, nil
}

// AddXP increments xp_total in a single statement so concurrent awards never lose updates.
func (r *userRepository) AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) (int, error) {
	log := r.log.Function("AddXP")

	if amount > 0 {
		result := tx.WithContext(ctx).
			Model(&User{}).
			Where("id = ?", userID).
			Update("xp_total", gorm.Expr("xp_total + ?", amount))
		if result.Error != nil {
			return 0, log.Err("failed to add xp", result.Error, "userID", userID, "amount", amount)
		}
		if result.RowsAffected == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		r.ClearUserCache(ctx, userID)
	}

	var total int
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Select("xp_total").
		Where("id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, log.Err("failed to read xp total", err, "userID", userID)
	}

	return total, nil
}

func (r *userRepository) SetLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, level int) error {
	log := r.log.Function("SetLevel")

	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("current_level", level).Error; err != nil {
		return log.Err("failed to set level", err, "userID", userID, "level", level)
	}

	r.ClearUserCache(ctx, userID)
	return nil
}

func (r *userRepository) TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error {
	log := r.log.Function("TouchLastActive")

	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("last_active_at", at).Error; err != nil {
		return log.Err("failed to update last active", err, "userID", userID)
	}

	return nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, userID uuid.UUID) {
	if err := r.cacheEntry(userID).Delete(ctx); err != nil {
		r.log.Function("ClearUserCache").Warn("failed to clear user cache", "userID", userID, "error", err)
	}
}
