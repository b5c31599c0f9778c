package domain

import (
	"time"

	"github.com/google/uuid"
)

// PersonalInfo holds the applicant's identity and address details. Fields
// start empty and are filled incrementally from extractions and edits.
type PersonalInfo struct {
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// LicenseInfo holds the applicant's license and vehicle identifiers.
type LicenseInfo struct {
	NYSLicenseNumber string `json:"nys_license_number,omitempty"`
	TLCLicenseNumber string `json:"tlc_hack_license_number,omitempty"`
	VehicleVIN       string `json:"vehicle_vin_number,omitempty"`
}

// VehicleInfo holds the insured vehicle's details.
type VehicleInfo struct {
	Make  string `json:"vehicle_make,omitempty"`
	Model string `json:"vehicle_model,omitempty"`
	Year  string `json:"vehicle_model_year,omitempty"`
}

// AdditionalInfo holds the yes/no questionnaire answers. The booleans are
// pointers so "not yet answered" is distinguishable from "answered no".
type AdditionalInfo struct {
	IsOwnedBySelf        *bool  `json:"is_owned_by_self,omitempty"`
	HasNamedDrivers      *bool  `json:"has_named_drivers,omitempty"`
	HasWorkersComp       *bool  `json:"has_workers_comp,omitempty"`
	ObtainsFaresViaRadio *bool  `json:"obtains_fares_via_radio_base,omitempty"`
	AffiliatedRadioBase  string `json:"affiliated_radio_base,omitempty"`
}

// ApplicationRecord is the single mutable aggregate for an intake session.
// Optional fields start unset and are only overwritten by a successful
// normalized extraction or an explicit user edit, never silently cleared.
type ApplicationRecord struct {
	ApplicationID  string                 `json:"application_id"`
	Language       Language               `json:"language"`
	PersonalInfo   PersonalInfo           `json:"personal_info"`
	LicenseInfo    LicenseInfo            `json:"license_info"`
	VehicleInfo    VehicleInfo            `json:"vehicle_info"`
	AdditionalInfo AdditionalInfo         `json:"additional_info"`
	Documents      map[DocumentTag]string `json:"documents"`
	CreatedAt      time.Time              `json:"created_at"`
}

// NewApplicationRecord creates an empty record with a fresh application ID.
func NewApplicationRecord() *ApplicationRecord {
	return &ApplicationRecord{
		ApplicationID: uuid.New().String(),
		Language:      LangEnglish,
		Documents:     make(map[DocumentTag]string),
		CreatedAt:     time.Now().UTC(),
	}
}

// SetDocument registers the stored file reference for a document slot. A
// later upload of the same tag overwrites the earlier reference.
func (r *ApplicationRecord) SetDocument(tag DocumentTag, ref string) {
	if r.Documents == nil {
		r.Documents = make(map[DocumentTag]string)
	}
	r.Documents[tag] = ref
}

// FullName returns the applicant's first and last name joined, or "" when
// neither is known.
func (r *ApplicationRecord) FullName() string {
	switch {
	case r.PersonalInfo.FirstName == "":
		return r.PersonalInfo.LastName
	case r.PersonalInfo.LastName == "":
		return r.PersonalInfo.FirstName
	default:
		return r.PersonalInfo.FirstName + " " + r.PersonalInfo.LastName
	}
}

// BoolPtr returns a pointer to b, for populating optional answers.
func BoolPtr(b bool) *bool { return &b }
