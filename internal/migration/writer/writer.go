// Package writer performs the ordered inserts for one legacy record as a
// single atomic unit of work: Company, then Owner, License and Cancellation
// as the record's fields warrant. The transaction boundary lives here and
// nowhere else.
package writer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/farhadk/rms/internal/migration/db"
	e "github.com/farhadk/rms/internal/migration/errors"
	"github.com/farhadk/rms/internal/migration/models"
	"github.com/farhadk/rms/internal/migration/refdata"
	"github.com/farhadk/rms/internal/migration/transform"
	"go.uber.org/zap"
)

// Status classifies the result of migrating one record.
type Status int

const (
	StatusMigrated Status = iota
	StatusSkipped
	StatusFailed
)

// Outcome reports what happened to one legacy record.
type Outcome struct {
	RecordID uint
	Status   Status
	// Reason is set for skipped records.
	Reason string
	// Err is set for failed records.
	Err error

	OwnerCreated        bool
	LicenseCreated      bool
	CancellationCreated bool
}

// Repository is the storage surface the writer drives.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// Writer migrates legacy records one at a time. jurisdiction is the fixed
// issuing province for the whole dataset.
type Writer struct {
	repo         Repository
	jurisdiction string
	logger       *zap.Logger
}

func New(repo Repository, jurisdiction string, logger *zap.Logger) *Writer {
	return &Writer{
		repo:         repo,
		jurisdiction: jurisdiction,
		logger:       logger.Named("entity_writer"),
	}
}

// Migrate runs the full unit of work for one record. Any failure after the
// idempotency gate rolls back every insert of this record; no partial state
// survives.
func (w *Writer) Migrate(ctx context.Context, record *models.LegacyRecord) Outcome {
	out := Outcome{RecordID: record.RecordID}

	err := w.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		exists, err := tx.CompanyExists(ctx, record.RecordID)
		if err != nil {
			return fmt.Errorf("failed to check company existence: %w", err)
		}
		if exists {
			return e.ErrAlreadyMigrated
		}

		resolver := refdata.New(tx)

		jurisdictionID, err := resolver.Province(ctx, &w.jurisdiction)
		if err != nil {
			return err
		}

		company := &models.Company{
			ID:         record.RecordID,
			Title:      transform.Text(record.Title),
			TaxID:      transform.Text(record.TaxID),
			ProvinceID: jurisdictionID,
			Active:     transform.ActiveFlag(record.State, record.CancellationText),
			CreatedAt:  time.Now(),
			CreatedBy:  models.MigrationActor,
		}
		if err := tx.CreateCompany(ctx, company); err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}

		if transform.Present(record.FirstName) && transform.Present(record.FatherName) {
			if err := w.writeOwner(ctx, tx, resolver, record, company); err != nil {
				return err
			}
			out.OwnerCreated = true
		}

		if record.LicenseNumber != nil {
			if err := w.writeLicense(ctx, tx, record, company, jurisdictionID); err != nil {
				return err
			}
			out.LicenseCreated = true
		}

		if transform.Present(record.CancelLetterNumber) {
			if err := w.writeCancellation(ctx, tx, record, company); err != nil {
				return err
			}
			out.CancellationCreated = true
		}

		return nil
	})

	switch {
	case err == nil:
		out.Status = StatusMigrated
	case errors.Is(err, e.ErrAlreadyMigrated):
		out = Outcome{RecordID: record.RecordID, Status: StatusSkipped, Reason: "already exists"}
	default:
		w.logger.Error("record migration failed",
			zap.Uint("record_id", record.RecordID),
			zap.Error(err),
		)
		out = Outcome{RecordID: record.RecordID, Status: StatusFailed, Err: err}
	}
	return out
}

func (w *Writer) writeOwner(ctx context.Context, tx *db.Repository, resolver *refdata.Resolver, record *models.LegacyRecord, company *models.Company) error {
	provinceID, err := resolver.Province(ctx, record.Province)
	if err != nil {
		return err
	}
	districtID, err := resolver.District(ctx, record.District, provinceID)
	if err != nil {
		return err
	}

	permanentProvinceID, err := resolver.Province(ctx, record.PermanentProvince)
	if err != nil {
		return err
	}
	permanentDistrictID, err := resolver.District(ctx, record.PermanentDistrict, permanentProvinceID)
	if err != nil {
		return err
	}

	educationID, err := resolver.Education(ctx, record.Education)
	if err != nil {
		return err
	}

	owner := &models.Owner{
		FirstName:        transform.Text(record.FirstName),
		FatherName:       transform.Text(record.FatherName),
		GrandfatherName:  transform.Text(record.GrandfatherName),
		EducationLevelID: educationID,
		DateOfBirth:      transform.Text(record.DateOfBirth),
		NationalID:       transform.Text(record.NationalID),
		ContactNumber:    transform.Text(record.ContactNumber),

		ProvinceID: provinceID,
		DistrictID: districtID,
		Village:    transform.Text(record.Village),

		PermanentProvinceID: permanentProvinceID,
		PermanentDistrictID: permanentDistrictID,
		PermanentVillage:    transform.Text(record.PermanentVillage),

		CompanyID: company.ID,
		Active:    company.Active,
	}
	if err := tx.CreateOwner(ctx, owner); err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	return nil
}

func (w *Writer) writeLicense(ctx context.Context, tx *db.Repository, record *models.LegacyRecord, company *models.Company, jurisdictionID *uint) error {
	issueDate, err := transform.ComposeDate(record.IssueYear, record.IssueMonth, record.IssueDay)
	if err != nil {
		return fmt.Errorf("failed to compose issue date: %w", err)
	}
	expiryDate, err := transform.ComposeDate(record.ExpiryYear, record.ExpiryMonth, record.ExpiryDay)
	if err != nil {
		return fmt.Errorf("failed to compose expiry date: %w", err)
	}
	royaltyDate, err := transform.ComposeDate(record.RoyaltyYear, record.RoyaltyMonth, record.RoyaltyDay)
	if err != nil {
		return fmt.Errorf("failed to compose royalty date: %w", err)
	}
	hrLetterDate, err := transform.ComposeDate(record.HRLetterYear, record.HRLetterMonth, record.HRLetterDay)
	if err != nil {
		return fmt.Errorf("failed to compose HR letter date: %w", err)
	}

	license := &models.License{
		Number:        strconv.Itoa(*record.LicenseNumber),
		ProvinceID:    jurisdictionID,
		IssueDate:     issueDate,
		ExpiryDate:    expiryDate,
		OfficeAddress: transform.Text(record.OfficeAddress),
		Type:          transform.Text(record.LicenseType),
		RoyaltyAmount: transform.Amount(record.RoyaltyAmount),
		RoyaltyDate:   royaltyDate,
		PenaltyAmount: transform.Amount(record.PenaltyAmount),
		TariffRef:     transform.Text(record.TariffRef),
		HRLetterRef:   transform.Text(record.HRLetterRef),
		HRLetterDate:  hrLetterDate,
		Complete:      true,
		Active:        company.Active,
		CompanyID:     company.ID,
	}
	if err := tx.CreateLicense(ctx, license); err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	return nil
}

func (w *Writer) writeCancellation(ctx context.Context, tx *db.Repository, record *models.LegacyRecord, company *models.Company) error {
	date, err := transform.ComposeDate(record.CancelYear, record.CancelMonth, record.CancelDay)
	if err != nil {
		return fmt.Errorf("failed to compose cancellation date: %w", err)
	}

	cancellation := &models.Cancellation{
		LetterNumber: transform.Text(record.CancelLetterNumber),
		Date:         date,
		Remarks:      transform.Text(record.Remarks),
		CompanyID:    company.ID,
		Active:       true,
	}
	if err := tx.CreateCancellation(ctx, cancellation); err != nil {
		return fmt.Errorf("failed to create cancellation: %w", err)
	}
	return nil
}
