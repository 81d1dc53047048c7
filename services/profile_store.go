package services

import (
	"context"
	"errors"
	"fmt"

	"ecopulse/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileStore is the user record store. Implementations must hand out
// values the caller owns: mutating a returned profile never changes stored
// state until Save succeeds.
type ProfileStore interface {
	GetByExternalID(ctx context.Context, externalUserID string) (*models.EcoProfile, error)
	// Save writes p if its Version still matches the stored one and bumps
	// p.Version on success. A stale Version yields ErrVersionConflict.
	Save(ctx context.Context, p *models.EcoProfile) error
	List(ctx context.Context) ([]*models.EcoProfile, error)
	// Register creates the profile for a newly registered user, or refreshes
	// name/email when it already exists.
	Register(ctx context.Context, externalUserID, name, email string) (*models.EcoProfile, error)
}

// GormProfileStore keeps profiles in the eco_profiles table, with the nested
// document parts stored as jsonb.
type GormProfileStore struct {
	DB *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{DB: db}
}

var _ ProfileStore = (*GormProfileStore)(nil)

// AutoMigrate creates or updates the eco_profiles schema.
func (s *GormProfileStore) AutoMigrate() error {
	return s.DB.AutoMigrate(&models.EcoProfile{})
}

func (s *GormProfileStore) GetByExternalID(ctx context.Context, externalUserID string) (*models.EcoProfile, error) {
	var prog models.EcoProfile
	err := s.DB.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load profile %s: %v", ErrPersistence, externalUserID, err)
	}
	return &prog, nil
}

func (s *GormProfileStore) Save(ctx context.Context, p *models.EcoProfile) error {
	row := *p
	row.Version = p.Version + 1

	res := s.DB.WithContext(ctx).
		Model(&row).
		Where("version = ?", p.Version).
		Select("*").
		Omit("id", "external_user_id", "created_at", "deleted_at").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("%w: save profile %s: %v", ErrPersistence, p.ExternalUserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	p.Version = row.Version
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *GormProfileStore) List(ctx context.Context) ([]*models.EcoProfile, error) {
	var profiles []*models.EcoProfile
	if err := s.DB.WithContext(ctx).Order("total_points DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("%w: list profiles: %v", ErrPersistence, err)
	}
	return profiles, nil
}

// registerConflict refreshes name and email of an existing profile. The
// version bump makes an in-flight Save of that profile conflict.
func registerConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}},
		DoUpdates: append(
			clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
			clause.Assignment{Column: clause.Column{Name: "version"}, Value: gorm.Expr(`"eco_profiles"."version" + 1`)},
		),
	}
}

func (s *GormProfileStore) Register(ctx context.Context, externalUserID, name, email string) (*models.EcoProfile, error) {
	prog := models.EcoProfile{
		ID:               uuid.NewString(),
		ExternalUserID:   externalUserID,
		Name:             name,
		Email:            email,
		RecentActivities: []models.Activity{},
		Badges:           models.DefaultBadges(),
		CurrentChallenge: models.DefaultChallenge(),
	}

	err := s.DB.WithContext(ctx).Clauses(registerConflict()).Create(&prog).Error
	if err != nil {
		return nil, fmt.Errorf("%w: register profile %s: %v", ErrPersistence, externalUserID, err)
	}
	return s.GetByExternalID(ctx, externalUserID)
}
