package models

// LegacyRecord is one flat entry of the historical paper-license export.
// Every field except RecordID is optional; the export leaves absent fields
// null rather than empty, hence the pointer types. Dates come pre-split
// into year/month/day columns.
type LegacyRecord struct {
	RecordID uint `json:"recordId"`

	Title *string `json:"title"`
	TaxID *string `json:"taxId"`

	// Owner identity. An Owner row is created only when both FirstName
	// and FatherName are present.
	FirstName       *string `json:"firstName"`
	FatherName      *string `json:"fatherName"`
	GrandfatherName *string `json:"grandfatherName"`
	Education       *string `json:"education"`
	DateOfBirth     *string `json:"dateOfBirth"`
	NationalID      *string `json:"nationalId"`
	ContactNumber   *string `json:"contactNumber"`

	// Owner's own address, free-text place names.
	Province *string `json:"province"`
	District *string `json:"district"`
	Village  *string `json:"village"`

	// Owner's permanent address, resolved independently of the above.
	PermanentProvince *string `json:"permanentProvince"`
	PermanentDistrict *string `json:"permanentDistrict"`
	PermanentVillage  *string `json:"permanentVillage"`

	LicenseNumber *int    `json:"licenseNumber"`
	LicenseType   *string `json:"licenseType"`
	OfficeAddress *string `json:"officeAddress"`

	IssueYear  *int `json:"issueYear"`
	IssueMonth *int `json:"issueMonth"`
	IssueDay   *int `json:"issueDay"`

	ExpiryYear  *int `json:"expiryYear"`
	ExpiryMonth *int `json:"expiryMonth"`
	ExpiryDay   *int `json:"expiryDay"`

	RoyaltyAmount *string `json:"royaltyAmount"`
	RoyaltyYear   *int    `json:"royaltyYear"`
	RoyaltyMonth  *int    `json:"royaltyMonth"`
	RoyaltyDay    *int    `json:"royaltyDay"`

	PenaltyAmount *string `json:"penaltyAmount"`
	TariffRef     *string `json:"tariffRef"`

	HRLetterRef   *string `json:"hrLetterRef"`
	HRLetterYear  *int    `json:"hrLetterYear"`
	HRLetterMonth *int    `json:"hrLetterMonth"`
	HRLetterDay   *int    `json:"hrLetterDay"`

	CancelLetterNumber *string `json:"cancelLetterNumber"`
	CancelYear         *int    `json:"cancelYear"`
	CancelMonth        *int    `json:"cancelMonth"`
	CancelDay          *int    `json:"cancelDay"`
	CancellationText   *string `json:"cancellationText"`

	State   *string `json:"state"`
	Remarks *string `json:"remarks"`
}
