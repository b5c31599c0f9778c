package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlcintake/internal/domain"
	"tlcintake/internal/i18n"
	"tlcintake/internal/normalize"
)

func newTestSession() *Session {
	return New(i18n.NewCatalog())
}

func licenseResult() *normalize.Result {
	return &normalize.Result{
		Documents: []normalize.ExtractedDocument{
			{
				Type: domain.TypeNYSLicense,
				Tag:  domain.TagNYSLicense,
				Data: map[string]string{
					"license_number": "123456789",
					"first_name":     "John",
					"middle_name":    "",
					"last_name":      "Public",
					"address":        "123 Main St",
					"city":           "Brooklyn",
					"state":          "NY",
					"zip_code":       "11201",
				},
			},
		},
		Shapes: map[domain.DocumentType]normalize.Shape{domain.TypeNYSLicense: normalize.ShapeObject},
	}
}

func titleResult(inferred *bool) *normalize.Result {
	return &normalize.Result{
		Documents: []normalize.ExtractedDocument{
			{
				Type: domain.TypeVehicleTitle,
				Tag:  domain.TagVehicleTitle,
				Data: map[string]string{
					"VIN":           "1HGCM82633A004352",
					"vehicle_make":  "Honda",
					"vehicle_model": "Accord",
					"vehicle_year":  "2019",
					"owner_name":    "John Public",
				},
			},
		},
		Shapes:              map[domain.DocumentType]normalize.Shape{domain.TypeVehicleTitle: normalize.ShapeObject},
		InferredOwnedBySelf: inferred,
	}
}

func simpleResult(tag domain.DocumentTag, data map[string]string) *normalize.Result {
	docType := domain.TypeForTag[tag]
	return &normalize.Result{
		Documents: []normalize.ExtractedDocument{{Type: docType, Tag: tag, Data: data}},
		Shapes:    map[domain.DocumentType]normalize.Shape{docType: normalize.ShapeObject},
	}
}

// uploadAndConfirm drives one document slot through extraction and
// confirmation.
func uploadAndConfirm(t *testing.T, s *Session, tag domain.DocumentTag, result *normalize.Result) Prompt {
	t.Helper()
	require.NoError(t, s.TryBeginExtraction(tag))
	prompt, err := s.CompleteExtraction(tag, "stored/"+string(tag), result, nil)
	require.NoError(t, err)
	assert.Equal(t, confirmStep(tag), prompt.Step)
	assert.NotEmpty(t, prompt.Table)

	prompt, err = s.HandleChoice("confirm")
	require.NoError(t, err)
	return prompt
}

func TestFullFlow_HappyPath(t *testing.T) {
	s := newTestSession()

	prompt := s.Start()
	assert.Equal(t, StepLanguageSelection, prompt.Step)
	assert.Equal(t, PromptChoice, prompt.Kind)

	prompt, err := s.HandleChoice("en")
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagNYSLicense), prompt.Step)
	assert.Equal(t, PromptFile, prompt.Kind)
	assert.Equal(t, int64(5), prompt.MaxSizeMB)

	prompt = uploadAndConfirm(t, s, domain.TagNYSLicense, licenseResult())
	assert.Equal(t, uploadStep(domain.TagTLCLicense), prompt.Step)

	rec := s.Record()
	assert.Equal(t, "John", rec.PersonalInfo.FirstName)
	assert.Equal(t, "123456789", rec.LicenseInfo.NYSLicenseNumber)
	assert.Equal(t, "stored/nys_license", rec.Documents[domain.TagNYSLicense])

	prompt = uploadAndConfirm(t, s, domain.TagTLCLicense,
		simpleResult(domain.TagTLCLicense, map[string]string{"license_number": "567890", "first_name": "John", "last_name": "Public"}))
	assert.Equal(t, uploadStep(domain.TagVehicleTitle), prompt.Step)

	// Title owner matches the applicant, so ownership is inferred
	prompt = uploadAndConfirm(t, s, domain.TagVehicleTitle, titleResult(domain.BoolPtr(true)))
	assert.Equal(t, StepContactPhone, prompt.Step)
	assert.Equal(t, PromptText, prompt.Kind)

	prompt, err = s.HandleText("555-0100")
	require.NoError(t, err)
	assert.Equal(t, StepContactEmail, prompt.Step)

	// Ownership was inferred, so the ownership question is skipped
	prompt, err = s.HandleText("john@example.com")
	require.NoError(t, err)
	assert.Equal(t, StepNamedDrivers, prompt.Step)

	prompt, err = s.HandleChoice("no")
	require.NoError(t, err)
	assert.Equal(t, StepWorkersComp, prompt.Step)

	prompt, err = s.HandleChoice("yes")
	require.NoError(t, err)
	assert.Equal(t, StepRadioBase, prompt.Step)

	// "No" to radio base goes straight to review, skipping the certificate
	prompt, err = s.HandleChoice("no")
	require.NoError(t, err)
	assert.Equal(t, StepReview, prompt.Step)
	assert.NotEmpty(t, prompt.Table)

	require.NoError(t, s.BeginSubmission())
	prompt = s.FinalizeSubmission("APP-" + s.Record().ApplicationID)
	assert.Equal(t, StepSubmitted, prompt.Step)
	assert.Contains(t, prompt.Message, "APP-")

	rec = s.Record()
	assert.Equal(t, "555-0100", rec.PersonalInfo.Phone)
	assert.Equal(t, "john@example.com", rec.PersonalInfo.Email)
	require.NotNil(t, rec.AdditionalInfo.IsOwnedBySelf)
	assert.True(t, *rec.AdditionalInfo.IsOwnedBySelf)
	require.NotNil(t, rec.AdditionalInfo.ObtainsFaresViaRadio)
	assert.False(t, *rec.AdditionalInfo.ObtainsFaresViaRadio)
}

func TestRadioBaseAffirmedRequestsCertificate(t *testing.T) {
	s := sessionAtRadioBase(t)

	prompt, err := s.HandleChoice("yes")
	require.NoError(t, err)
	assert.Equal(t, StepRadioBaseSelect, prompt.Step)

	prompt, err = s.HandleChoice("uber")
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagRadioBaseCert), prompt.Step)
	assert.Equal(t, "Uber", s.Record().AdditionalInfo.AffiliatedRadioBase)

	prompt = uploadAndConfirm(t, s, domain.TagRadioBaseCert,
		simpleResult(domain.TagRadioBaseCert, map[string]string{"radio_base_name": "Uber"}))
	assert.Equal(t, StepReview, prompt.Step)
}

func TestRadioBaseOtherAsksForName(t *testing.T) {
	s := sessionAtRadioBase(t)

	_, err := s.HandleChoice("yes")
	require.NoError(t, err)
	prompt, err := s.HandleChoice("other")
	require.NoError(t, err)
	assert.Equal(t, StepRadioBaseOther, prompt.Step)
	assert.Equal(t, PromptText, prompt.Kind)

	prompt, err = s.HandleText("Greenpoint Car Service")
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagRadioBaseCert), prompt.Step)
	assert.Equal(t, "Greenpoint Car Service", s.Record().AdditionalInfo.AffiliatedRadioBase)
}

func TestOwnershipDeniedCollectsOtherDriverLicense(t *testing.T) {
	s := sessionAtContactDone(t, nil)

	assert.Equal(t, StepOwnedBySelf, s.Step())
	prompt, err := s.HandleChoice("no")
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagOtherDriverLicense), prompt.Step)

	prompt = uploadAndConfirm(t, s, domain.TagOtherDriverLicense,
		simpleResult(domain.TagOtherDriverLicense, map[string]string{"license_number": "987", "first_name": "Jane"}))
	assert.Equal(t, StepNamedDrivers, prompt.Step)
}

func TestExtractionFailureOffersRetryAndManualEntry(t *testing.T) {
	s := sessionAtUpload(t, domain.TagNYSLicense)
	before := s.Record()

	require.NoError(t, s.TryBeginExtraction(domain.TagNYSLicense))
	prompt, err := s.CompleteExtraction(domain.TagNYSLicense, "", nil, errors.New("model unavailable"))
	require.NoError(t, err)
	assert.Equal(t, retryStep(domain.TagNYSLicense), prompt.Step)
	require.Len(t, prompt.Options, 2)

	// The record is untouched by the failure
	assert.Equal(t, before, s.Record())

	prompt, err = s.HandleChoice("retry")
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagNYSLicense), prompt.Step)

	// Fail again, then take manual entry
	require.NoError(t, s.TryBeginExtraction(domain.TagNYSLicense))
	_, err = s.CompleteExtraction(domain.TagNYSLicense, "", nil, errors.New("model unavailable"))
	require.NoError(t, err)
	prompt, err = s.HandleChoice("manual")
	require.NoError(t, err)
	assert.Equal(t, editStep(domain.TagNYSLicense), prompt.Step)
	assert.Equal(t, PromptFields, prompt.Kind)

	prompt, err = s.HandleFields(map[string]string{
		"license_number": "111222333",
		"first_name":     "Ana",
		"last_name":      "Perez",
	})
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagTLCLicense), prompt.Step)
	assert.Equal(t, "Ana", s.Record().PersonalInfo.FirstName)
	assert.Equal(t, "111222333", s.Record().LicenseInfo.NYSLicenseNumber)
}

func TestPendingExtractionGuard(t *testing.T) {
	s := sessionAtUpload(t, domain.TagNYSLicense)

	require.NoError(t, s.TryBeginExtraction(domain.TagNYSLicense))
	err := s.TryBeginExtraction(domain.TagNYSLicense)
	assert.ErrorIs(t, err, domain.ErrExtractionPending)

	_, err = s.CompleteExtraction(domain.TagNYSLicense, "ref", licenseResult(), nil)
	require.NoError(t, err)

	// Slot is free again after completion, but the step moved on
	err = s.TryBeginExtraction(domain.TagNYSLicense)
	assert.ErrorIs(t, err, domain.ErrUnexpectedInput)
}

func TestEditRejectedStagesFieldsForCorrection(t *testing.T) {
	s := sessionAtUpload(t, domain.TagNYSLicense)

	require.NoError(t, s.TryBeginExtraction(domain.TagNYSLicense))
	_, err := s.CompleteExtraction(domain.TagNYSLicense, "ref", licenseResult(), nil)
	require.NoError(t, err)

	prompt, err := s.HandleChoice("edit")
	require.NoError(t, err)
	assert.Equal(t, editStep(domain.TagNYSLicense), prompt.Step)

	// Fields are prefilled from the staged extraction
	byName := make(map[string]string)
	for _, f := range prompt.Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "John", byName["first_name"])

	// Nothing merged until the edited fields come back
	assert.Empty(t, s.Record().PersonalInfo.FirstName)
}

func TestReviewIsReentrantHub(t *testing.T) {
	s := sessionAtReview(t)

	prompt, err := s.HandleChoice("edit")
	require.NoError(t, err)
	assert.Equal(t, StepEditSelect, prompt.Step)

	prompt, err = s.HandleChoice("personal")
	require.NoError(t, err)
	assert.Equal(t, StepEditPersonal, prompt.Step)

	prompt, err = s.HandleFields(map[string]string{"first_name": "Johnny"})
	require.NoError(t, err)
	assert.Equal(t, StepReview, prompt.Step)
	assert.Equal(t, "Johnny", s.Record().PersonalInfo.FirstName)

	// Re-uploading a document from review returns to review afterwards
	prompt, err = s.HandleChoice("edit")
	require.NoError(t, err)
	prompt, err = s.HandleChoice("documents")
	require.NoError(t, err)
	assert.Equal(t, StepEditDocuments, prompt.Step)

	prompt, err = s.HandleChoice(string(domain.TagNYSLicense))
	require.NoError(t, err)
	assert.Equal(t, uploadStep(domain.TagNYSLicense), prompt.Step)

	prompt = uploadAndConfirm(t, s, domain.TagNYSLicense, licenseResult())
	assert.Equal(t, StepReview, prompt.Step)
}

func TestInvalidChoiceReturnsToReview(t *testing.T) {
	s := sessionAtReview(t)

	_, err := s.HandleChoice("edit")
	require.NoError(t, err)

	prompt, err := s.HandleChoice("42")
	require.NoError(t, err)
	assert.Equal(t, StepReview, prompt.Step)
	assert.NotEmpty(t, prompt.Notice)
}

func TestInvalidChoiceBeforeReviewReissuesPrompt(t *testing.T) {
	s := newTestSession()
	s.Start()

	prompt, err := s.HandleChoice("fr")
	require.NoError(t, err)
	assert.Equal(t, StepLanguageSelection, prompt.Step)
	assert.NotEmpty(t, prompt.Notice)
}

func TestSubmittedNewApplicationResets(t *testing.T) {
	s := sessionAtReview(t)
	oldID := s.Record().ApplicationID

	require.NoError(t, s.BeginSubmission())
	s.FinalizeSubmission("APP-" + oldID)

	prompt, err := s.HandleChoice("new_application")
	require.NoError(t, err)
	assert.Equal(t, StepLanguageSelection, prompt.Step)

	rec := s.Record()
	assert.NotEqual(t, oldID, rec.ApplicationID)
	assert.Empty(t, rec.PersonalInfo.FirstName)
	assert.Empty(t, s.Documents())
}

func TestSubmittedExitEndsSession(t *testing.T) {
	s := sessionAtReview(t)
	require.NoError(t, s.BeginSubmission())
	s.FinalizeSubmission("APP-1")

	prompt, err := s.HandleChoice("exit")
	require.NoError(t, err)
	assert.Equal(t, PromptNone, prompt.Kind)
	assert.True(t, s.Ended())

	_, err = s.HandleChoice("anything")
	assert.ErrorIs(t, err, domain.ErrSessionEnded)
}

func TestBeginSubmissionRequiresReview(t *testing.T) {
	s := newTestSession()
	s.Start()
	assert.ErrorIs(t, s.BeginSubmission(), domain.ErrUnexpectedInput)
}

func TestTextInputOutsideTextStep(t *testing.T) {
	s := newTestSession()
	s.Start()
	_, err := s.HandleText("hello")
	assert.ErrorIs(t, err, domain.ErrUnexpectedInput)
}

func TestCurrentPromptDoesNotAdvance(t *testing.T) {
	s := sessionAtUpload(t, domain.TagNYSLicense)

	first := s.CurrentPrompt()
	second := s.CurrentPrompt()
	assert.Equal(t, first.Step, second.Step)
	assert.Equal(t, uploadStep(domain.TagNYSLicense), first.Step)
}

// --- helpers to fast-forward a session ---

func sessionAtUpload(t *testing.T, tag domain.DocumentTag) *Session {
	t.Helper()
	s := newTestSession()
	s.Start()
	_, err := s.HandleChoice("en")
	require.NoError(t, err)
	if tag == domain.TagNYSLicense {
		return s
	}
	t.Fatalf("unsupported starting tag %s", tag)
	return nil
}

func sessionAtContactDone(t *testing.T, inferred *bool) *Session {
	t.Helper()
	s := sessionAtUpload(t, domain.TagNYSLicense)
	uploadAndConfirm(t, s, domain.TagNYSLicense, licenseResult())
	uploadAndConfirm(t, s, domain.TagTLCLicense,
		simpleResult(domain.TagTLCLicense, map[string]string{"license_number": "567890"}))
	uploadAndConfirm(t, s, domain.TagVehicleTitle, titleResult(inferred))
	_, err := s.HandleText("555-0100")
	require.NoError(t, err)
	_, err = s.HandleText("john@example.com")
	require.NoError(t, err)
	return s
}

func sessionAtRadioBase(t *testing.T) *Session {
	t.Helper()
	s := sessionAtContactDone(t, domain.BoolPtr(true))
	_, err := s.HandleChoice("no") // named drivers
	require.NoError(t, err)
	_, err = s.HandleChoice("no") // workers comp
	require.NoError(t, err)
	require.Equal(t, StepRadioBase, s.Step())
	return s
}

func sessionAtReview(t *testing.T) *Session {
	t.Helper()
	s := sessionAtRadioBase(t)
	_, err := s.HandleChoice("no")
	require.NoError(t, err)
	require.Equal(t, StepReview, s.Step())
	return s
}
