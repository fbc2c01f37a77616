// Package models contains the migration domain models, configured to work
// using GORM as the ORM: the flat LegacyRecord read from the export and the
// normalized entities written to the target store.
package models

import (
	"time"
)

// MigrationActor is the fixed audit tag stamped on every row this
// subsystem creates.
const MigrationActor = "migration"

// LocationType discriminates rows of the shared location dimension.
type LocationType string

const (
	LocationProvince LocationType = "province"
	LocationDistrict LocationType = "district"
)

// Location is a shared reference-data row (province or district), looked up
// by exact name and created on first encounter. Districts carry their
// province in ParentID. Name is unique within its (type, parent) scope.
type Location struct {
	ID       uint         `gorm:"primaryKey"`
	Name     string       `gorm:"size:255;uniqueIndex:idx_location_scope"`
	Type     LocationType `gorm:"size:16;uniqueIndex:idx_location_scope"`
	ParentID *uint        `gorm:"uniqueIndex:idx_location_scope"`
	Parent   *Location    `gorm:"foreignKey:ParentID"`
}

// EducationLevel is a shared reference-data row created on first encounter.
type EducationLevel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;uniqueIndex"`
}

// Company is the root entity reconstructed for one legacy record. Its ID is
// the legacy RecordID, not an auto-increment value; that identity is the
// idempotency key for re-runs.
type Company struct {
	ID         uint   `gorm:"primaryKey;autoIncrement:false"`
	Title      string `gorm:"size:255"`
	TaxID      string `gorm:"size:64"`
	ProvinceID *uint
	Province   *Location `gorm:"foreignKey:ProvinceID"`
	Active     bool
	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:32"`
}

// Owner holds the license holder's identity and two independently resolved
// addresses. At most one Owner exists per Company.
type Owner struct {
	ID               uint   `gorm:"primaryKey"`
	FirstName        string `gorm:"size:255"`
	FatherName       string `gorm:"size:255"`
	GrandfatherName  string `gorm:"size:255"`
	EducationLevelID *uint
	// DateOfBirth is kept as the legacy text; the source calendar is
	// ambiguous and display formatting belongs to the UI helpers.
	DateOfBirth   string `gorm:"size:32"`
	NationalID    string `gorm:"size:64"`
	ContactNumber string `gorm:"size:32"`

	ProvinceID *uint
	DistrictID *uint
	Village    string `gorm:"size:255"`

	PermanentProvinceID *uint
	PermanentDistrictID *uint
	PermanentVillage    string `gorm:"size:255"`

	CompanyID uint
	Company   *Company `gorm:"foreignKey:CompanyID"`
	Active    bool
}

// License is created only when the legacy record carries a license number.
// ProvinceID is always the fixed issuing jurisdiction for this dataset.
type License struct {
	ID            uint   `gorm:"primaryKey"`
	Number        string `gorm:"size:32;index"`
	ProvinceID    *uint
	IssueDate     *time.Time
	ExpiryDate    *time.Time
	OfficeAddress string `gorm:"size:512"`
	Type          string `gorm:"size:64"`
	RoyaltyAmount *float64
	RoyaltyDate   *time.Time
	PenaltyAmount *float64
	TariffRef     string `gorm:"size:64"`
	HRLetterRef   string `gorm:"size:64"`
	HRLetterDate  *time.Time
	Complete      bool
	Active        bool
	CompanyID     uint
	Company       *Company `gorm:"foreignKey:CompanyID"`
}

// Cancellation records the letter that revoked a license. The row itself is
// always active even though it marks the parent company inactive.
type Cancellation struct {
	ID           uint   `gorm:"primaryKey"`
	LetterNumber string `gorm:"size:64"`
	Date         *time.Time
	Remarks      string `gorm:"size:1024"`
	CompanyID    uint
	Company      *Company `gorm:"foreignKey:CompanyID"`
	Active       bool
}
