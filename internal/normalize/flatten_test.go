package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlcintake/internal/domain"
)

func TestFlatten_OrderedAndComplete(t *testing.T) {
	docs := []ExtractedDocument{
		{
			Type: domain.TypeTLCLicense,
			Tag:  domain.TagTLCLicense,
			Data: map[string]string{"license_number": "567890", "first_name": "John", "last_name": ""},
		},
	}

	fields := Flatten(docs)
	require.Len(t, fields, 3)
	assert.Equal(t, "TLC Hack License - License Number", fields[0].Key)
	assert.Equal(t, "567890", fields[0].Value)
	assert.Equal(t, "TLC Hack License - First Name", fields[1].Key)
	assert.Equal(t, "TLC Hack License - Last Name", fields[2].Key)
	assert.Equal(t, "", fields[2].Value)
}

func TestFlatten_UnknownTypeEmitsSortedVerbatim(t *testing.T) {
	docs := []ExtractedDocument{
		{
			Type: domain.TypeUnknown,
			Tag:  domain.TagUnknown,
			Data: map[string]string{"serial": "9", "issuer": "x"},
		},
	}

	fields := Flatten(docs)
	require.Len(t, fields, 2)
	assert.Equal(t, "Unknown - Issuer", fields[0].Key)
	assert.Equal(t, "Unknown - Serial", fields[1].Key)
}

func TestFieldTitle(t *testing.T) {
	assert.Equal(t, "License Number", FieldTitle("license_number"))
	assert.Equal(t, "VIN", FieldTitle("VIN"))
	assert.Equal(t, "Vehicle Make", FieldTitle("vehicle_make"))
	assert.Equal(t, "Zip Code", FieldTitle("zip_code"))
}

func TestFieldKey_RoundTripsExpectedFields(t *testing.T) {
	for docType, fields := range domain.ExpectedFields {
		for _, key := range fields {
			assert.Equal(t, key, FieldKey(docType, FieldTitle(key)), "type %s field %s", docType, key)
		}
	}
}

func TestFieldKey_UnrecognizedTitleSnakeCases(t *testing.T) {
	assert.Equal(t, "eye_color", FieldKey(domain.TypeNYSLicense, "Eye Color"))
}

func TestSplitKey(t *testing.T) {
	cat, field := SplitKey("NYS Driver License - First Name")
	assert.Equal(t, "NYS Driver License", cat)
	assert.Equal(t, "First Name", field)

	cat, field = SplitKey("Contact - Email")
	assert.Equal(t, "Contact", cat)
	assert.Equal(t, "Email", field)

	cat, field = SplitKey("bare")
	assert.Equal(t, "bare", cat)
	assert.Equal(t, "", field)
}
