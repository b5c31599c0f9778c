// Package classify guesses a document's type from its file name. The guess
// is advisory only: it is sent to the extraction model as a hint and never
// overrides the model's own visually derived classification.
package classify

import (
	"strings"

	"tlcintake/internal/domain"
)

type rule struct {
	tag   domain.DocumentTag
	terms []string
}

// rules are checked in the fixed order below; when a name matches several
// sets the earlier one wins, so "tlc_hack_license" reads as an NYS license.
var rules = []rule{
	{domain.TagNYSLicense, []string{"nys", "driver", "license", "dl"}},
	{domain.TagTLCLicense, []string{"tlc", "hack", "hack_license"}},
	{domain.TagVehicleTitle, []string{"vehicle", "title", "bill", "sale", "cert", "certificate"}},
	{domain.TagRadioBaseCert, []string{"radio", "base", "certification", "letter"}},
}

// Detect returns the document tag whose keyword set first matches the file
// name, or TagUnknown when nothing matches. Matching is case-insensitive
// substring containment.
func Detect(filename string) domain.DocumentTag {
	name := strings.ToLower(filename)
	for _, r := range rules {
		for _, term := range r.terms {
			if strings.Contains(name, term) {
				return r.tag
			}
		}
	}
	return domain.TagUnknown
}
