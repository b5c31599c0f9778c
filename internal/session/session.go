// Package session implements the intake session state machine: one mutable
// ApplicationRecord per session, driven step by step through document
// uploads, confirmation and edit loops, contact and additional questions,
// and a re-entrant review hub.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tlcintake/internal/domain"
	"tlcintake/internal/i18n"
	"tlcintake/internal/normalize"
)

// documentOrder is the fixed collection sequence. The other-driver license
// is only requested when the user declares the vehicle is not owned solely
// by themselves, and the radio-base certificate only when they affirm
// radio-base use.
var documentOrder = []domain.DocumentTag{
	domain.TagNYSLicense,
	domain.TagTLCLicense,
	domain.TagVehicleTitle,
	domain.TagOtherDriverLicense,
	domain.TagRadioBaseCert,
}

// stagedExtraction holds a normalized batch awaiting user confirmation.
// Nothing is merged into the record until the user confirms, so a failed or
// abandoned extraction leaves the record untouched.
type stagedExtraction struct {
	tag       domain.DocumentTag
	result    *normalize.Result
	storedRef string
}

// Session owns one ApplicationRecord and the state needed to drive it to
// submission. All methods are safe for concurrent use, but steps execute
// sequentially: each method call is one user-driven transition.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	step         Step
	record       *domain.ApplicationRecord
	docs         map[domain.DocumentTag]normalize.ExtractedDocument
	shapes       map[domain.DocumentType]normalize.Shape
	pending      map[domain.DocumentTag]bool
	staged       *stagedExtraction
	returnTo     Step // set when a document flow was entered from review
	resumeStep   Step // where the additional questions resume after the other-driver flow
	confirmation string
	lastActive   time.Time
	catalog      *i18n.Catalog
	ended        bool
}

// New creates a session positioned at the welcome step.
func New(catalog *i18n.Catalog) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		step:       StepWelcome,
		record:     domain.NewApplicationRecord(),
		docs:       make(map[domain.DocumentTag]normalize.ExtractedDocument),
		shapes:     make(map[domain.DocumentType]normalize.Shape),
		pending:    make(map[domain.DocumentTag]bool),
		lastActive: now,
		catalog:    catalog,
	}
}

// Step returns the session's current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Ended reports whether the session has finished.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// LastActive returns the time of the last user interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Record returns a copy of the application record.
func (s *Session) Record() domain.ApplicationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := *s.record
	rec.Documents = make(map[domain.DocumentTag]string, len(s.record.Documents))
	for k, v := range s.record.Documents {
		rec.Documents[k] = v
	}
	return rec
}

// Documents returns the confirmed structured documents in collection order.
func (s *Session) Documents() []normalize.ExtractedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderedDocs()
}

// Shapes returns the recorded extraction shape per document type.
func (s *Session) Shapes() map[domain.DocumentType]normalize.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.DocumentType]normalize.Shape, len(s.shapes))
	for k, v := range s.shapes {
		out[k] = v
	}
	return out
}

func (s *Session) orderedDocs() []normalize.ExtractedDocument {
	out := make([]normalize.ExtractedDocument, 0, len(s.docs))
	for _, tag := range documentOrder {
		if doc, ok := s.docs[tag]; ok {
			out = append(out, doc)
		}
	}
	return out
}

func (s *Session) touch() {
	s.lastActive = time.Now().UTC()
}

func (s *Session) msg(key string) string {
	return s.catalog.Get(key, s.record.Language)
}

// setIfPresent overwrites dst only when the extracted value is non-empty, so
// a document that misses a field never clears a previously known value.
func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// applyDocument merges one confirmed document into the record and retains
// its structured form for the review view.
func (s *Session) applyDocument(doc normalize.ExtractedDocument) {
	s.docs[doc.Tag] = doc

	data := doc.Data
	switch doc.Tag {
	case domain.TagNYSLicense:
		setIfPresent(&s.record.PersonalInfo.FirstName, data["first_name"])
		setIfPresent(&s.record.PersonalInfo.MiddleName, data["middle_name"])
		setIfPresent(&s.record.PersonalInfo.LastName, data["last_name"])
		setIfPresent(&s.record.PersonalInfo.Address, data["address"])
		setIfPresent(&s.record.PersonalInfo.City, data["city"])
		setIfPresent(&s.record.PersonalInfo.State, data["state"])
		setIfPresent(&s.record.PersonalInfo.ZipCode, data["zip_code"])
		setIfPresent(&s.record.LicenseInfo.NYSLicenseNumber, data["license_number"])
	case domain.TagTLCLicense:
		setIfPresent(&s.record.LicenseInfo.TLCLicenseNumber, data["license_number"])
		setIfPresent(&s.record.PersonalInfo.FirstName, data["first_name"])
		setIfPresent(&s.record.PersonalInfo.LastName, data["last_name"])
	case domain.TagVehicleTitle:
		setIfPresent(&s.record.LicenseInfo.VehicleVIN, data["VIN"])
		setIfPresent(&s.record.VehicleInfo.Make, data["vehicle_make"])
		setIfPresent(&s.record.VehicleInfo.Model, data["vehicle_model"])
		setIfPresent(&s.record.VehicleInfo.Year, data["vehicle_year"])
	case domain.TagRadioBaseCert:
		s.record.AdditionalInfo.ObtainsFaresViaRadio = domain.BoolPtr(true)
		setIfPresent(&s.record.AdditionalInfo.AffiliatedRadioBase, data["radio_base_name"])
	}
}

// normalizeContext snapshots the record state the normalizer cross-checks
// against.
func (s *Session) normalizeContext() normalize.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return normalize.Context{
		ApplicantName: s.record.FullName(),
		OwnedBySelf:   s.record.AdditionalInfo.IsOwnedBySelf,
	}
}

// NormalizeContext is the exported form used by the extraction service.
func (s *Session) NormalizeContext() normalize.Context {
	return s.normalizeContext()
}

// reset discards all collected state and restarts the session at welcome.
func (s *Session) reset() {
	s.record = domain.NewApplicationRecord()
	s.docs = make(map[domain.DocumentTag]normalize.ExtractedDocument)
	s.shapes = make(map[domain.DocumentType]normalize.Shape)
	s.pending = make(map[domain.DocumentTag]bool)
	s.staged = nil
	s.returnTo = ""
	s.resumeStep = ""
	s.confirmation = ""
	s.step = StepWelcome
}

func boolLabel(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "true"
	}
	return "false"
}

// ReviewFields builds the flattened field map for the review view and the
// submission payload: document fields first, then contact and additional
// answers. The view is derived fresh on every call.
func (s *Session) ReviewFields() []normalize.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewFieldsLocked()
}

func (s *Session) reviewFieldsLocked() []normalize.Field {
	fields := normalize.Flatten(s.orderedDocs())
	fields = append(fields,
		normalize.Field{Key: "Contact - Phone", Value: s.record.PersonalInfo.Phone},
		normalize.Field{Key: "Contact - Email", Value: s.record.PersonalInfo.Email},
		normalize.Field{Key: "Additional - Owned By Self", Value: boolLabel(s.record.AdditionalInfo.IsOwnedBySelf)},
		normalize.Field{Key: "Additional - Named Drivers", Value: boolLabel(s.record.AdditionalInfo.HasNamedDrivers)},
		normalize.Field{Key: "Additional - Workers Comp", Value: boolLabel(s.record.AdditionalInfo.HasWorkersComp)},
		normalize.Field{Key: "Additional - Radio Base", Value: boolLabel(s.record.AdditionalInfo.ObtainsFaresViaRadio)},
	)
	if s.record.AdditionalInfo.AffiliatedRadioBase != "" {
		fields = append(fields, normalize.Field{
			Key:   "Additional - Affiliated Radio Base",
			Value: s.record.AdditionalInfo.AffiliatedRadioBase,
		})
	}
	return fields
}
