// Package refdata resolves free-text place and education names to shared
// dimension rows, creating rows on first encounter. Lookups are by exact
// name; two spellings of the same place yield two rows.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/farhadk/rms/internal/migration/errors"
	"github.com/farhadk/rms/internal/migration/models"
)

// Store is the slice of the repository the resolver needs. Passing a
// transactional repository scopes lookups and creations to that unit of
// work; rows created there become visible to later calls in the same run
// once the transaction commits.
type Store interface {
	FindLocation(ctx context.Context, name string, typ models.LocationType, parentID *uint) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	FindEducationLevel(ctx context.Context, name string) (*models.EducationLevel, error)
	CreateEducationLevel(ctx context.Context, level *models.EducationLevel) error
}

type Resolver struct {
	store Store
}

func New(store Store) *Resolver {
	return &Resolver{store: store}
}

// Province resolves a province name to its dimension row id, creating the
// row if absent. A blank name resolves to no reference.
func (r *Resolver) Province(ctx context.Context, name *string) (*uint, error) {
	return r.location(ctx, name, models.LocationProvince, nil)
}

// District resolves a district name within its province. provinceID may be
// nil when the record named no province; the district is then scoped to no
// parent.
func (r *Resolver) District(ctx context.Context, name *string, provinceID *uint) (*uint, error) {
	return r.location(ctx, name, models.LocationDistrict, provinceID)
}

func (r *Resolver) location(ctx context.Context, name *string, typ models.LocationType, parentID *uint) (*uint, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, nil
	}

	existing, err := r.store.FindLocation(ctx, *name, typ, parentID)
	if err == nil {
		return &existing.ID, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up %s %q: %w", typ, *name, err)
	}

	location := &models.Location{Name: *name, Type: typ, ParentID: parentID}
	if err := r.store.CreateLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create %s %q: %w", typ, *name, err)
	}
	return &location.ID, nil
}

// Education resolves an education-level name, creating the row if absent.
func (r *Resolver) Education(ctx context.Context, name *string) (*uint, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, nil
	}

	existing, err := r.store.FindEducationLevel(ctx, *name)
	if err == nil {
		return &existing.ID, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up education level %q: %w", *name, err)
	}

	level := &models.EducationLevel{Name: *name}
	if err := r.store.CreateEducationLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to create education level %q: %w", *name, err)
	}
	return &level.ID, nil
}
