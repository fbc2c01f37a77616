// Package db implements the GORM-backed repository the migration engine
// writes through. The same Repository type serves both the root connection
// and the per-record transaction handle, so resolver lookups inside a unit
// of work see that unit's own uncommitted rows.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	e "github.com/farhadk/rms/internal/migration/errors"
	"github.com/farhadk/rms/internal/migration/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository connects to PostgreSQL, retrying with exponential backoff,
// and ensures the entity and dimension tables exist.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var repo *Repository
	err := backoff.Retry(func() error {
		var openErr error
		repo, openErr = Open(postgres.Open(dsn))
		return openErr
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repo, nil
}

// Open builds a Repository on an arbitrary GORM dialector and runs the
// schema migration. Tests use this with an in-memory SQLite dialector.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Location{},
		&models.EducationLevel{},
		&models.Company{},
		&models.Owner{},
		&models.License{},
		&models.Cancellation{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// CompanyExists reports whether a company for the given legacy record
// identifier has already been migrated.
func (r *Repository) CompanyExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrAlreadyMigrated
		}
		return result.Error
	}
	return nil
}

// GetCompany retrieves a migrated company by its legacy record identifier.
func (r *Repository) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// FindOwnerByCompany returns the company's owner, or ErrNotFound when the
// record was migrated without one.
func (r *Repository) FindOwnerByCompany(ctx context.Context, companyID uint) (*models.Owner, error) {
	var owner models.Owner
	result := r.db.WithContext(ctx).First(&owner, "company_id = ?", companyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &owner, nil
}

func (r *Repository) FindLicenseByCompany(ctx context.Context, companyID uint) (*models.License, error) {
	var license models.License
	result := r.db.WithContext(ctx).First(&license, "company_id = ?", companyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &license, nil
}

func (r *Repository) FindCancellationByCompany(ctx context.Context, companyID uint) (*models.Cancellation, error) {
	var cancellation models.Cancellation
	result := r.db.WithContext(ctx).First(&cancellation, "company_id = ?", companyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &cancellation, nil
}

// CountLocations reports how many dimension rows of the given type exist.
func (r *Repository) CountLocations(ctx context.Context, typ models.LocationType) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Location{}).
		Where("type = ?", typ).
		Count(&count)
	return count, result.Error
}

func (r *Repository) CreateOwner(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *Repository) CreateLicense(ctx context.Context, license *models.License) error {
	return r.db.WithContext(ctx).Create(license).Error
}

func (r *Repository) CreateCancellation(ctx context.Context, cancellation *models.Cancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}

// FindLocation looks up a dimension row by exact name within its
// (type, parent) scope. Returns ErrNotFound when absent.
func (r *Repository) FindLocation(ctx context.Context, name string, typ models.LocationType, parentID *uint) (*models.Location, error) {
	query := r.db.WithContext(ctx).Where("name = ? AND type = ?", name, typ)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var location models.Location
	result := query.First(&location)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &location, nil
}

func (r *Repository) CreateLocation(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *Repository) FindEducationLevel(ctx context.Context, name string) (*models.EducationLevel, error) {
	var level models.EducationLevel
	result := r.db.WithContext(ctx).First(&level, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &level, nil
}

func (r *Repository) CreateEducationLevel(ctx context.Context, level *models.EducationLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

// WithTransaction runs fn against a transactional Repository. fn returning
// an error rolls the whole transaction back.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
