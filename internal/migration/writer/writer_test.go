package writer

import (
	"context"
	"testing"
	"time"

	"github.com/farhadk/rms/internal/migration/db"
	e "github.com/farhadk/rms/internal/migration/errors"
	"github.com/farhadk/rms/internal/migration/models"
	"github.com/farhadk/rms/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
)

func setupWriter(t *testing.T) (*Writer, *db.Repository) {
	repo, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err, "failed to open test database")
	return New(repo, "Kabul", zaptest.NewLogger(t)), repo
}

// fullRecord returns a legacy record that populates every entity.
func fullRecord(id uint) *models.LegacyRecord {
	return &models.LegacyRecord{
		RecordID: id,
		Title:    utils.Ptr("Ariana Transport"),
		TaxID:    utils.Ptr("TIN-583921"),

		FirstName:       utils.Ptr("احمد"),
		FatherName:      utils.Ptr("محمود"),
		GrandfatherName: utils.Ptr("عبدالله"),
		Education:       utils.Ptr("بکلوریا"),
		DateOfBirth:     utils.Ptr("1350"),
		NationalID:      utils.Ptr("1399-0456-7890"),
		ContactNumber:   utils.Ptr("0700123456"),

		Province: utils.Ptr("Kabul"),
		District: utils.Ptr("Paghman"),
		Village:  utils.Ptr("Qala-e-Wazir"),

		PermanentProvince: utils.Ptr("Parwan"),
		PermanentDistrict: utils.Ptr("Charikar"),
		PermanentVillage:  utils.Ptr("Deh Baba Ali"),

		LicenseNumber: utils.Ptr(58321),
		LicenseType:   utils.Ptr("transport"),
		OfficeAddress: utils.Ptr("Sarak-e-Maidan, Kabul"),

		IssueYear:  utils.Ptr(1398),
		IssueMonth: utils.Ptr(2),
		IssueDay:   utils.Ptr(15),

		ExpiryYear:  utils.Ptr(1401),
		ExpiryMonth: utils.Ptr(2),
		ExpiryDay:   utils.Ptr(14),

		RoyaltyAmount: utils.Ptr("2500"),
		RoyaltyYear:   utils.Ptr(1398),
		RoyaltyMonth:  utils.Ptr(2),
		RoyaltyDay:    utils.Ptr(20),

		PenaltyAmount: utils.Ptr("0"),
		TariffRef:     utils.Ptr("T-11"),
		HRLetterRef:   utils.Ptr("HR-482"),
		HRLetterYear:  utils.Ptr(1398),
		HRLetterMonth: utils.Ptr(1),
		HRLetterDay:   utils.Ptr(30),

		CancelLetterNumber: utils.Ptr("123/الف"),
		CancelYear:         utils.Ptr(1400),
		CancelMonth:        utils.Ptr(7),
		CancelDay:          utils.Ptr(3),
		CancellationText:   utils.Ptr("لغو به اساس مکتوب"),

		State:   utils.Ptr("ملغی"),
		Remarks: utils.Ptr("تصفیه نشده"),
	}
}

// TestMigrateFullRecord verifies the full Company/Owner/License/Cancellation
// chain for a rich record.
func TestMigrateFullRecord(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	outcome := w.Migrate(ctx, fullRecord(9001))
	require.Equal(t, StatusMigrated, outcome.Status, "migration should succeed")
	assert.True(t, outcome.OwnerCreated, "owner should be created")
	assert.True(t, outcome.LicenseCreated, "license should be created")
	assert.True(t, outcome.CancellationCreated, "cancellation should be created")

	company, err := repo.GetCompany(ctx, 9001)
	require.NoError(t, err, "company should exist")
	assert.Equal(t, "Ariana Transport", company.Title)
	assert.Equal(t, models.MigrationActor, company.CreatedBy)
	assert.False(t, company.Active, "cancellation text should deactivate the company")
	require.NotNil(t, company.ProvinceID, "jurisdiction province should be referenced")

	owner, err := repo.FindOwnerByCompany(ctx, 9001)
	require.NoError(t, err, "owner should exist")
	assert.Equal(t, "احمد", owner.FirstName)
	assert.Equal(t, "1350", owner.DateOfBirth, "date of birth is kept as legacy text")
	assert.NotNil(t, owner.EducationLevelID, "education level should be resolved")
	assert.NotNil(t, owner.ProvinceID, "own province should be resolved")
	assert.NotNil(t, owner.PermanentProvinceID, "permanent province should be resolved")
	assert.NotEqual(t, *owner.ProvinceID, *owner.PermanentProvinceID, "the two addresses are independent")

	license, err := repo.FindLicenseByCompany(ctx, 9001)
	require.NoError(t, err, "license should exist")
	assert.Equal(t, "58321", license.Number, "legacy numeric id becomes text")
	assert.Equal(t, *company.ProvinceID, *license.ProvinceID, "license carries the jurisdiction province")
	require.NotNil(t, license.IssueDate)
	assert.Equal(t, time.Date(1398, 2, 15, 0, 0, 0, 0, time.UTC), license.IssueDate.UTC())
	require.NotNil(t, license.RoyaltyAmount)
	assert.Equal(t, 2500.0, *license.RoyaltyAmount)
	assert.True(t, license.Complete, "migrated licenses are marked complete")

	cancellation, err := repo.FindCancellationByCompany(ctx, 9001)
	require.NoError(t, err, "cancellation should exist")
	assert.Equal(t, "123/الف", cancellation.LetterNumber)
	assert.True(t, cancellation.Active, "the cancellation row itself stays active")
}

// TestMigrateIdempotencyGate verifies re-running a record is a skip with
// zero net writes.
func TestMigrateIdempotencyGate(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	first := w.Migrate(ctx, fullRecord(42))
	require.Equal(t, StatusMigrated, first.Status)

	second := w.Migrate(ctx, fullRecord(42))
	assert.Equal(t, StatusSkipped, second.Status, "second run must skip")
	assert.Equal(t, "already exists", second.Reason)
	assert.False(t, second.OwnerCreated, "skip reports no created sub-entities")

	count, err := repo.CountLocations(ctx, models.LocationProvince)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, count, "skip must not create dimension rows")
}

// TestMigrateWithoutOwner checks that a missing father name suppresses the
// Owner without failing the record.
func TestMigrateWithoutOwner(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	record := fullRecord(7)
	record.FatherName = nil

	outcome := w.Migrate(ctx, record)
	require.Equal(t, StatusMigrated, outcome.Status)
	assert.False(t, outcome.OwnerCreated, "no owner without a father name")

	_, err := repo.FindOwnerByCompany(ctx, 7)
	assert.ErrorIs(t, err, e.ErrNotFound, "owner row must not exist")

	_, err = repo.GetCompany(ctx, 7)
	assert.NoError(t, err, "company is still migrated")
}

// TestMigrateLicenseWithoutCancellation checks conditional sub-entity
// creation on the other side.
func TestMigrateLicenseWithoutCancellation(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	record := fullRecord(8)
	record.CancelLetterNumber = nil
	record.CancellationText = nil
	record.State = utils.Ptr("فعال")

	outcome := w.Migrate(ctx, record)
	require.Equal(t, StatusMigrated, outcome.Status)
	assert.True(t, outcome.LicenseCreated)
	assert.False(t, outcome.CancellationCreated)

	_, err := repo.FindCancellationByCompany(ctx, 8)
	assert.ErrorIs(t, err, e.ErrNotFound, "cancellation row must not exist")

	company, err := repo.GetCompany(ctx, 8)
	require.NoError(t, err)
	assert.True(t, company.Active, "no cancellation signals means active")
}

// TestMigrateMinimalRecord migrates a record carrying nothing but its id.
func TestMigrateMinimalRecord(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	outcome := w.Migrate(ctx, &models.LegacyRecord{RecordID: 5})
	require.Equal(t, StatusMigrated, outcome.Status)
	assert.False(t, outcome.OwnerCreated)
	assert.False(t, outcome.LicenseCreated)
	assert.False(t, outcome.CancellationCreated)

	company, err := repo.GetCompany(ctx, 5)
	require.NoError(t, err)
	assert.True(t, company.Active)
	assert.Equal(t, "", company.Title)
}

// TestMigrateAtomicRollback is the atomicity property: an invalid composite
// date after the company insert leaves no partial state behind.
func TestMigrateAtomicRollback(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	record := fullRecord(13)
	record.IssueMonth = utils.Ptr(13)

	outcome := w.Migrate(ctx, record)
	require.Equal(t, StatusFailed, outcome.Status, "invalid date must fail the record")
	assert.ErrorIs(t, outcome.Err, e.ErrInvalidInput)
	assert.Equal(t, uint(13), outcome.RecordID, "failure carries the record id")

	exists, err := repo.CompanyExists(ctx, 13)
	assert.NoError(t, err)
	assert.False(t, exists, "company insert must be rolled back")

	count, err := repo.CountLocations(ctx, models.LocationProvince)
	assert.NoError(t, err)
	assert.Zero(t, count, "dimension rows of the failed unit of work roll back too")
}

// TestMigrateJurisdictionReuse verifies consecutive records share the
// jurisdiction dimension row.
func TestMigrateJurisdictionReuse(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	require.Equal(t, StatusMigrated, w.Migrate(ctx, &models.LegacyRecord{RecordID: 1}).Status)
	require.Equal(t, StatusMigrated, w.Migrate(ctx, &models.LegacyRecord{RecordID: 2}).Status)

	a, err := repo.GetCompany(ctx, 1)
	require.NoError(t, err)
	b, err := repo.GetCompany(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, *a.ProvinceID, *b.ProvinceID, "both companies reference the same jurisdiction row")

	count, err := repo.CountLocations(ctx, models.LocationProvince)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count, "rows committed by record N are visible to record N+1")
}
