package session

import (
	"strings"

	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
)

type tagStepKind int

const (
	stepKindUpload tagStepKind = iota
	stepKindConfirm
	stepKindRetry
	stepKindEdit
)

var tagStepSuffixes = []struct {
	suffix string
	kind   tagStepKind
}{
	{"_upload", stepKindUpload},
	{"_confirm", stepKindConfirm},
	{"_retry", stepKindRetry},
	{"_edit", stepKindEdit},
}

// parseTagStep recognizes the per-document steps and recovers their tag.
func parseTagStep(step Step) (domain.DocumentTag, tagStepKind, bool) {
	str := string(step)
	for _, ts := range tagStepSuffixes {
		if !strings.HasSuffix(str, ts.suffix) {
			continue
		}
		tag := domain.DocumentTag(strings.TrimSuffix(str, ts.suffix))
		if _, ok := domain.TypeForTag[tag]; ok {
			return tag, ts.kind, true
		}
	}
	return "", 0, false
}

var uploadIntroKeys = map[domain.DocumentTag]string{
	domain.TagNYSLicense:         "nys_license_intro",
	domain.TagTLCLicense:         "tlc_license_intro",
	domain.TagVehicleTitle:       "vehicle_title_intro",
	domain.TagOtherDriverLicense: "other_driver_intro",
	domain.TagRadioBaseCert:      "radio_base_intro",
}

var confirmNoticeKeys = map[domain.DocumentTag]string{
	domain.TagNYSLicense:   "nys_license_confirm",
	domain.TagTLCLicense:   "tlc_license_confirm",
	domain.TagVehicleTitle: "vehicle_title_confirm",
}

func confirmNoticeKey(tag domain.DocumentTag) string {
	if key, ok := confirmNoticeKeys[tag]; ok {
		return key
	}
	return "document_success"
}

// radioBaseOptions are the selectable radio bases; "other" asks for a
// free-text name.
var radioBaseOptions = []Option{
	{ID: "nyc", Label: "NYC Yellow Cab"},
	{ID: "uber", Label: "Uber"},
	{ID: "lyft", Label: "Lyft"},
	{ID: "other", Label: "Other"},
}

// Start positions a fresh session at language selection and returns its
// first prompt.
func (s *Session) Start() Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.step == StepWelcome {
		s.step = StepLanguageSelection
	}
	return s.promptLocked("")
}

// CurrentPrompt re-renders the prompt for the current step without
// advancing. An expired input wait resolves to this: the step simply does
// not move.
func (s *Session) CurrentPrompt() Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptLocked("")
}

// HandleChoice applies one selected option to the current step. A choice
// outside the step's option set never fails the session: the user is
// returned to the nearest stable prompt with a notice.
func (s *Session) HandleChoice(choice string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Prompt{}, domain.ErrSessionEnded
	}
	s.touch()

	if tag, kind, ok := parseTagStep(s.step); ok {
		switch kind {
		case stepKindConfirm:
			switch choice {
			case "confirm":
				return s.confirmStagedLocked(tag)
			case "edit":
				s.step = editStep(tag)
				return s.promptLocked(""), nil
			}
			return s.invalidChoiceLocked(), nil
		case stepKindRetry:
			switch choice {
			case "retry":
				s.staged = nil
				s.step = uploadStep(tag)
				return s.promptLocked(""), nil
			case "manual":
				s.staged = nil
				s.step = editStep(tag)
				return s.promptLocked(""), nil
			}
			return s.invalidChoiceLocked(), nil
		}
		return Prompt{}, domain.ErrUnexpectedInput
	}

	switch s.step {
	case StepWelcome, StepLanguageSelection:
		lang := domain.Language(choice)
		if !domain.SupportedLanguages[lang] {
			return s.invalidChoiceLocked(), nil
		}
		s.record.Language = lang
		s.step = uploadStep(domain.TagNYSLicense)

	case StepOwnedBySelf:
		v, ok := yesNo(choice)
		if !ok {
			return s.invalidChoiceLocked(), nil
		}
		s.record.AdditionalInfo.IsOwnedBySelf = domain.BoolPtr(v)
		if v {
			s.step = StepNamedDrivers
		} else {
			// A second driver exists; collect their license, then resume
			// the remaining questions.
			s.resumeStep = StepNamedDrivers
			s.step = uploadStep(domain.TagOtherDriverLicense)
		}

	case StepNamedDrivers:
		v, ok := yesNo(choice)
		if !ok {
			return s.invalidChoiceLocked(), nil
		}
		s.record.AdditionalInfo.HasNamedDrivers = domain.BoolPtr(v)
		s.step = StepWorkersComp

	case StepWorkersComp:
		v, ok := yesNo(choice)
		if !ok {
			return s.invalidChoiceLocked(), nil
		}
		s.record.AdditionalInfo.HasWorkersComp = domain.BoolPtr(v)
		s.step = StepRadioBase

	case StepRadioBase:
		v, ok := yesNo(choice)
		if !ok {
			return s.invalidChoiceLocked(), nil
		}
		s.record.AdditionalInfo.ObtainsFaresViaRadio = domain.BoolPtr(v)
		if v {
			s.step = StepRadioBaseSelect
		} else {
			s.step = StepReview
		}

	case StepRadioBaseSelect:
		label, ok := optionLabel(radioBaseOptions, choice)
		if !ok {
			return s.invalidChoiceLocked(), nil
		}
		if choice == "other" {
			s.step = StepRadioBaseOther
		} else {
			s.record.AdditionalInfo.AffiliatedRadioBase = label
			s.step = s.afterRadioBaseLocked()
		}

	case StepReview:
		// "submit" is driven by the submission service, not here.
		if choice != "edit" {
			return s.invalidChoiceLocked(), nil
		}
		s.step = StepEditSelect

	case StepEditSelect:
		switch choice {
		case "personal":
			s.step = StepEditPersonal
		case "license":
			s.step = StepEditLicense
		case "documents":
			s.step = StepEditDocuments
		case "back":
			s.step = StepReview
		default:
			return s.invalidChoiceLocked(), nil
		}

	case StepEditDocuments:
		if choice == "back" {
			s.step = StepReview
			break
		}
		tag := domain.DocumentTag(choice)
		if _, ok := s.docs[tag]; !ok {
			return s.invalidChoiceLocked(), nil
		}
		s.returnTo = StepReview
		s.step = uploadStep(tag)

	case StepSubmitted:
		switch choice {
		case "new_application":
			restart := s.msg("restart")
			s.reset()
			s.step = StepLanguageSelection
			return s.promptLocked(restart), nil
		case "exit":
			s.ended = true
			s.step = StepEnded
		default:
			return s.invalidChoiceLocked(), nil
		}

	default:
		return Prompt{}, domain.ErrUnexpectedInput
	}

	return s.promptLocked(""), nil
}

// HandleText applies one free-text answer to the current step.
func (s *Session) HandleText(text string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Prompt{}, domain.ErrSessionEnded
	}
	s.touch()
	text = strings.TrimSpace(text)

	switch s.step {
	case StepContactPhone:
		s.record.PersonalInfo.Phone = text
		s.step = StepContactEmail
	case StepContactEmail:
		s.record.PersonalInfo.Email = text
		if s.record.AdditionalInfo.IsOwnedBySelf != nil {
			// Ownership was already inferred from the title document.
			s.step = StepNamedDrivers
		} else {
			s.step = StepOwnedBySelf
		}
	case StepRadioBaseOther:
		s.record.AdditionalInfo.AffiliatedRadioBase = text
		s.step = s.afterRadioBaseLocked()
	default:
		return Prompt{}, domain.ErrUnexpectedInput
	}

	return s.promptLocked(""), nil
}

// HandleFields applies an edited field form to the current step.
func (s *Session) HandleFields(values map[string]string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Prompt{}, domain.ErrSessionEnded
	}
	s.touch()

	if tag, kind, ok := parseTagStep(s.step); ok && kind == stepKindEdit {
		docType := domain.TypeForTag[tag]
		data := make(map[string]string)
		for _, field := range domain.ExpectedFields[docType] {
			data[field] = strings.TrimSpace(values[field])
		}
		s.applyDocument(normalize.ExtractedDocument{
			Type: docType,
			Tag:  tag,
			Data: data,
		})
		if _, ok := s.shapes[docType]; !ok {
			s.shapes[docType] = normalize.ShapeObject
		}
		// The upload itself succeeded even though its fields were corrected,
		// so keep the stored file reference.
		if s.staged != nil && s.staged.tag == tag && s.staged.storedRef != "" {
			s.record.SetDocument(tag, s.staged.storedRef)
		}
		s.staged = nil
		return s.advanceAfterDocumentLocked(tag, s.msg("information_updated")), nil
	}

	switch s.step {
	case StepEditPersonal:
		applyEdits(values, map[string]*string{
			"first_name":  &s.record.PersonalInfo.FirstName,
			"middle_name": &s.record.PersonalInfo.MiddleName,
			"last_name":   &s.record.PersonalInfo.LastName,
			"address":     &s.record.PersonalInfo.Address,
			"city":        &s.record.PersonalInfo.City,
			"state":       &s.record.PersonalInfo.State,
			"zip_code":    &s.record.PersonalInfo.ZipCode,
			"phone":       &s.record.PersonalInfo.Phone,
			"email":       &s.record.PersonalInfo.Email,
		})
	case StepEditLicense:
		applyEdits(values, map[string]*string{
			"nys_license_number":      &s.record.LicenseInfo.NYSLicenseNumber,
			"tlc_hack_license_number": &s.record.LicenseInfo.TLCLicenseNumber,
			"vehicle_vin_number":      &s.record.LicenseInfo.VehicleVIN,
		})
	default:
		return Prompt{}, domain.ErrUnexpectedInput
	}

	s.step = StepReview
	return s.promptLocked(s.msg("information_updated")), nil
}

// applyEdits writes every provided key. An explicit edit may clear a value;
// only absent keys leave the record untouched.
func applyEdits(values map[string]string, dst map[string]*string) {
	for key, ptr := range dst {
		if val, ok := values[key]; ok {
			*ptr = strings.TrimSpace(val)
		}
	}
}

// UploadTag reports which document slot the session currently expects a
// file for.
func (s *Session) UploadTag() (domain.DocumentTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag, kind, ok := parseTagStep(s.step); ok && kind == stepKindUpload {
		return tag, nil
	}
	return "", domain.ErrUnexpectedInput
}

// TryBeginExtraction claims the document slot for one extraction call. A
// second call for the same slot while one is pending is refused.
func (s *Session) TryBeginExtraction(tag domain.DocumentTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return domain.ErrSessionEnded
	}
	if s.step != uploadStep(tag) {
		return domain.ErrUnexpectedInput
	}
	if s.pending[tag] {
		return domain.ErrExtractionPending
	}
	s.pending[tag] = true
	return nil
}

// CompleteExtraction releases the slot claimed by TryBeginExtraction and
// either stages the normalized result for confirmation or moves to the
// retry step. The record is never touched here: a failed extraction leaves
// it exactly as it was, and a successful one merges only on confirm.
func (s *Session) CompleteExtraction(tag domain.DocumentTag, storedRef string, result *normalize.Result, extractErr error) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	delete(s.pending, tag)

	if extractErr != nil {
		s.staged = nil
		s.step = retryStep(tag)
		return s.promptLocked(""), nil
	}

	s.staged = &stagedExtraction{tag: tag, result: result, storedRef: storedRef}
	s.step = confirmStep(tag)
	return s.promptLocked(s.msg("document_success")), nil
}

// confirmStagedLocked merges the staged extraction into the record as one
// all-or-nothing step and advances past the document.
func (s *Session) confirmStagedLocked(tag domain.DocumentTag) (Prompt, error) {
	if s.staged == nil || s.staged.tag != tag {
		return Prompt{}, domain.ErrUnexpectedInput
	}
	staged := s.staged
	s.staged = nil

	for _, doc := range staged.result.Documents {
		s.applyDocument(doc)
	}
	for docType, shape := range staged.result.Shapes {
		s.shapes[docType] = shape
	}
	if staged.result.InferredOwnedBySelf != nil && s.record.AdditionalInfo.IsOwnedBySelf == nil {
		s.record.AdditionalInfo.IsOwnedBySelf = staged.result.InferredOwnedBySelf
	}
	if staged.storedRef != "" {
		s.record.SetDocument(tag, staged.storedRef)
	}

	return s.advanceAfterDocumentLocked(tag, s.msg(confirmNoticeKey(tag))), nil
}

// advanceAfterDocumentLocked moves to the step that follows a completed
// document flow. A flow entered from review returns to review.
func (s *Session) advanceAfterDocumentLocked(tag domain.DocumentTag, notice string) Prompt {
	if s.returnTo != "" {
		s.step = s.returnTo
		s.returnTo = ""
		return s.promptLocked(notice)
	}

	switch tag {
	case domain.TagNYSLicense:
		s.step = uploadStep(domain.TagTLCLicense)
	case domain.TagTLCLicense:
		s.step = uploadStep(domain.TagVehicleTitle)
	case domain.TagVehicleTitle:
		s.step = StepContactPhone
	case domain.TagOtherDriverLicense:
		if s.resumeStep != "" {
			s.step = s.resumeStep
			s.resumeStep = ""
		} else {
			s.step = StepContactPhone
		}
	case domain.TagRadioBaseCert:
		s.step = StepReview
	}
	return s.promptLocked(notice)
}

// afterRadioBaseLocked decides what follows the radio-base selection: the
// certificate upload unless one is already on file.
func (s *Session) afterRadioBaseLocked() Step {
	if _, ok := s.docs[domain.TagRadioBaseCert]; ok {
		return StepReview
	}
	return uploadStep(domain.TagRadioBaseCert)
}

// BeginSubmission checks the session is at the review hub before the
// submission flow runs.
func (s *Session) BeginSubmission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return domain.ErrSessionEnded
	}
	if s.step != StepReview {
		return domain.ErrUnexpectedInput
	}
	return nil
}

// FinalizeSubmission marks the session submitted and renders the
// confirmation prompt.
func (s *Session) FinalizeSubmission(confirmationNumber string) Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.confirmation = confirmationNumber
	s.step = StepSubmitted
	return s.promptLocked("")
}

// invalidChoiceLocked handles an out-of-range selection: edit menus fall
// back to the review hub, everything else re-issues the current prompt.
func (s *Session) invalidChoiceLocked() Prompt {
	switch s.step {
	case StepEditSelect, StepEditDocuments:
		s.step = StepReview
	}
	return s.promptLocked(s.msg("invalid_option"))
}

func yesNo(choice string) (bool, bool) {
	switch choice {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

func optionLabel(opts []Option, id string) (string, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o.Label, true
		}
	}
	return "", false
}
