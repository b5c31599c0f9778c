package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tlcintake/internal/domain"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		filename string
		want     domain.DocumentTag
	}{
		{"nys_license.png", domain.TagNYSLicense},
		{"drivers-license.pdf", domain.TagNYSLicense},
		{"DL_front.jpg", domain.TagNYSLicense},
		// "license" sorts before the TLC terms, so a combined name reads
		// as an NYS license.
		{"tlc_hack_license.png", domain.TagNYSLicense},
		{"tlc_hack.pdf", domain.TagTLCLicense},
		{"TLC.pdf", domain.TagTLCLicense},
		{"vehicle_title.pdf", domain.TagVehicleTitle},
		{"bill_of_sale.jpg", domain.TagVehicleTitle},
		// "cert" belongs to the vehicle set and wins over the radio-base
		// terms inside the same name.
		{"certification_letter.pdf", domain.TagVehicleTitle},
		{"radio_base_certification.pdf", domain.TagVehicleTitle},
		{"radio_base_letter.pdf", domain.TagRadioBaseCert},
		{"IMG_20260831.jpg", domain.TagUnknown},
		{"scan001.pdf", domain.TagUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.filename), tc.filename)
	}
}
