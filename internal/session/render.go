package session

import (
	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
)

// promptLocked renders the prompt for the current step. All prompt
// construction lives here so every transition path produces the same
// rendering for a given step.
func (s *Session) promptLocked(notice string) Prompt {
	p := Prompt{Step: s.step, Notice: notice}

	if tag, kind, ok := parseTagStep(s.step); ok {
		switch kind {
		case stepKindUpload:
			p.Kind = PromptFile
			p.Message = s.msg(uploadIntroKeys[tag])
			p.Accept = uploadAccept
			p.MaxSizeMB = uploadMaxSizeMB
		case stepKindConfirm:
			p.Kind = PromptChoice
			p.Message = s.msg("confirm_question")
			if s.staged != nil && s.staged.tag == tag {
				p.Table = normalize.Flatten(s.staged.result.Documents)
			}
			p.Options = []Option{
				{ID: "confirm", Label: s.msg("btn_confirm")},
				{ID: "edit", Label: s.msg("btn_edit")},
			}
		case stepKindRetry:
			p.Kind = PromptChoice
			p.Message = s.msg("document_error")
			p.Options = []Option{
				{ID: "retry", Label: s.msg("btn_retry")},
				{ID: "manual", Label: s.msg("btn_manual")},
			}
		case stepKindEdit:
			p.Kind = PromptFields
			p.Message = string(domain.TypeForTag[tag])
			p.Fields = s.documentFieldSpecsLocked(tag)
		}
		return p
	}

	switch s.step {
	case StepWelcome, StepLanguageSelection:
		p.Step = StepLanguageSelection
		p.Kind = PromptChoice
		p.Message = s.msg("welcome") + "\n\n" + s.msg("language_selection")
		p.Options = []Option{
			{ID: "en", Label: "English"},
			{ID: "es", Label: "Español"},
			{ID: "zh", Label: "中文"},
		}

	case StepContactPhone:
		p.Kind = PromptText
		p.Message = s.msg("contact_info_intro") + "\n\n" + s.msg("phone_request")

	case StepContactEmail:
		p.Kind = PromptText
		p.Message = s.msg("email_request")

	case StepOwnedBySelf:
		s.yesNoPrompt(&p, "owned_by_self")
	case StepNamedDrivers:
		s.yesNoPrompt(&p, "named_drivers")
	case StepWorkersComp:
		s.yesNoPrompt(&p, "workers_comp")
	case StepRadioBase:
		s.yesNoPrompt(&p, "radio_base")

	case StepRadioBaseSelect:
		p.Kind = PromptChoice
		p.Message = s.msg("radio_base_select")
		p.Options = radioBaseOptions

	case StepRadioBaseOther:
		p.Kind = PromptText
		p.Message = s.msg("radio_base_name_request")

	case StepReview:
		p.Kind = PromptChoice
		p.Message = s.msg("review_intro") + "\n\n" + s.msg("confirm_question")
		p.Table = s.reviewFieldsLocked()
		p.Options = []Option{
			{ID: "submit", Label: s.msg("btn_submit")},
			{ID: "edit", Label: s.msg("btn_edit_info")},
		}

	case StepEditSelect:
		p.Kind = PromptChoice
		p.Message = s.msg("edit_option")
		p.Options = []Option{
			{ID: "personal", Label: s.msg("personal_information")},
			{ID: "license", Label: s.msg("license_information")},
			{ID: "documents", Label: s.msg("documents_label")},
			{ID: "back", Label: s.msg("btn_back")},
		}

	case StepEditPersonal:
		p.Kind = PromptFields
		p.Message = s.msg("personal_information")
		p.Fields = []FieldSpec{
			{Name: "first_name", Label: normalize.FieldTitle("first_name"), Value: s.record.PersonalInfo.FirstName},
			{Name: "middle_name", Label: normalize.FieldTitle("middle_name"), Value: s.record.PersonalInfo.MiddleName},
			{Name: "last_name", Label: normalize.FieldTitle("last_name"), Value: s.record.PersonalInfo.LastName},
			{Name: "address", Label: normalize.FieldTitle("address"), Value: s.record.PersonalInfo.Address},
			{Name: "city", Label: normalize.FieldTitle("city"), Value: s.record.PersonalInfo.City},
			{Name: "state", Label: normalize.FieldTitle("state"), Value: s.record.PersonalInfo.State},
			{Name: "zip_code", Label: normalize.FieldTitle("zip_code"), Value: s.record.PersonalInfo.ZipCode},
			{Name: "phone", Label: normalize.FieldTitle("phone"), Value: s.record.PersonalInfo.Phone},
			{Name: "email", Label: normalize.FieldTitle("email"), Value: s.record.PersonalInfo.Email},
		}

	case StepEditLicense:
		p.Kind = PromptFields
		p.Message = s.msg("license_information")
		p.Fields = []FieldSpec{
			{Name: "nys_license_number", Label: "NYS License Number", Value: s.record.LicenseInfo.NYSLicenseNumber},
			{Name: "tlc_hack_license_number", Label: "TLC License Number", Value: s.record.LicenseInfo.TLCLicenseNumber},
			{Name: "vehicle_vin_number", Label: "Vehicle VIN Number", Value: s.record.LicenseInfo.VehicleVIN},
		}

	case StepEditDocuments:
		p.Kind = PromptChoice
		p.Message = s.msg("documents_label")
		for _, tag := range documentOrder {
			if _, ok := s.docs[tag]; ok {
				p.Options = append(p.Options, Option{ID: string(tag), Label: string(domain.TypeForTag[tag])})
			}
		}
		p.Options = append(p.Options, Option{ID: "back", Label: s.msg("btn_back")})

	case StepSubmitted:
		p.Kind = PromptChoice
		p.Message = s.msg("submission_success") + "\n\n" + s.msg("submission_details") + "\n\n" +
			s.msg("confirmation_number") + s.confirmation
		p.Options = []Option{
			{ID: "new_application", Label: s.msg("new_application")},
			{ID: "exit", Label: s.msg("exit")},
		}

	case StepEnded:
		p.Kind = PromptNone
		p.Message = s.msg("goodbye")
	}

	return p
}

func (s *Session) yesNoPrompt(p *Prompt, key string) {
	p.Kind = PromptChoice
	p.Message = s.msg(key)
	p.Options = []Option{
		{ID: "yes", Label: s.msg("btn_yes")},
		{ID: "no", Label: s.msg("btn_no")},
	}
}

// documentFieldSpecsLocked prefers the staged extraction's values when the
// user is editing a just-extracted document, falling back to the confirmed
// document for a re-edit, and to empty fields for manual entry.
func (s *Session) documentFieldSpecsLocked(tag domain.DocumentTag) []FieldSpec {
	docType := domain.TypeForTag[tag]

	var data map[string]string
	if s.staged != nil && s.staged.tag == tag {
		for _, d := range s.staged.result.Documents {
			if d.Tag == tag {
				data = d.Data
				break
			}
		}
	}
	if data == nil {
		if d, ok := s.docs[tag]; ok {
			data = d.Data
		}
	}

	specs := make([]FieldSpec, 0, len(domain.ExpectedFields[docType]))
	for _, field := range domain.ExpectedFields[docType] {
		specs = append(specs, FieldSpec{
			Name:  field,
			Label: normalize.FieldTitle(field),
			Value: data[field],
		})
	}
	return specs
}
