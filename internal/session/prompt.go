package session

import (
	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
)

// Step identifies the session's current position in the intake flow.
type Step string

const (
	StepWelcome           Step = "welcome"
	StepLanguageSelection Step = "language_selection"
	StepContactPhone      Step = "contact_phone"
	StepContactEmail      Step = "contact_email"
	StepOwnedBySelf       Step = "additional_owned_by_self"
	StepNamedDrivers      Step = "additional_named_drivers"
	StepWorkersComp       Step = "additional_workers_comp"
	StepRadioBase         Step = "additional_radio_base"
	StepRadioBaseSelect   Step = "radio_base_select"
	StepRadioBaseOther    Step = "radio_base_other"
	StepReview            Step = "review"
	StepEditSelect        Step = "edit_select"
	StepEditPersonal      Step = "edit_personal"
	StepEditLicense       Step = "edit_license"
	StepEditDocuments     Step = "edit_documents"
	StepSubmitted         Step = "submitted"
	StepEnded             Step = "ended"
)

// Per-document steps are derived from the document tag so the four upload
// flows share one set of transition rules.
func uploadStep(tag domain.DocumentTag) Step  { return Step(string(tag) + "_upload") }
func confirmStep(tag domain.DocumentTag) Step { return Step(string(tag) + "_confirm") }
func retryStep(tag domain.DocumentTag) Step   { return Step(string(tag) + "_retry") }
func editStep(tag domain.DocumentTag) Step    { return Step(string(tag) + "_edit") }

// PromptKind says what kind of response the current step expects.
type PromptKind string

const (
	// PromptChoice expects one option ID from Options.
	PromptChoice PromptKind = "choice"
	// PromptText expects one free-text value.
	PromptText PromptKind = "text"
	// PromptFile expects one file upload matching Accept and MaxSizeMB.
	PromptFile PromptKind = "file"
	// PromptFields expects a value per field in Fields.
	PromptFields PromptKind = "fields"
	// PromptNone expects nothing further; the session has ended.
	PromptNone PromptKind = "none"
)

// Option is one selectable action.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FieldSpec is one editable field in a fields prompt.
type FieldSpec struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Prompt is the session's next request to the user. It is the only thing
// the UI layer needs to render a step.
type Prompt struct {
	Kind      PromptKind        `json:"kind"`
	Step      Step              `json:"step"`
	Message   string            `json:"message"`
	Notice    string            `json:"notice,omitempty"`
	Options   []Option          `json:"options,omitempty"`
	Fields    []FieldSpec       `json:"fields,omitempty"`
	Table     []normalize.Field `json:"table,omitempty"`
	Accept    []string          `json:"accept,omitempty"`
	MaxSizeMB int64             `json:"max_size_mb,omitempty"`
}

// uploadAccept is the fixed set of content types a document upload allows.
var uploadAccept = []string{"image/jpeg", "image/png", "application/pdf"}

const uploadMaxSizeMB = 5
