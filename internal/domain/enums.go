package domain

// DocumentTag is the internal snake_case identifier for a document slot.
type DocumentTag string

const (
	TagNYSLicense         DocumentTag = "nys_license"
	TagTLCLicense         DocumentTag = "tlc_license"
	TagVehicleTitle       DocumentTag = "vehicle_title"
	TagRadioBaseCert      DocumentTag = "radio_base_cert"
	TagOtherDriverLicense DocumentTag = "other_driver_license"
	TagUnknown            DocumentTag = "unknown"
)

// DocumentType is the human-facing label the extraction model is instructed
// to use. These form a closed set; anything else fails normalization.
type DocumentType string

const (
	TypeNYSLicense         DocumentType = "NYS Driver License"
	TypeTLCLicense         DocumentType = "TLC Hack License"
	TypeVehicleTitle       DocumentType = "Vehicle Certificate of Title"
	TypeBillOfSale         DocumentType = "Bill of Sale"
	TypeRadioBaseCert      DocumentType = "Radio Base Certification Letter"
	TypeOtherDriverLicense DocumentType = "Other Driver's License"
	TypeUnknown            DocumentType = "Unknown"
)

// ValidDocumentTypes is the closed set of type labels accepted from the model.
var ValidDocumentTypes = map[DocumentType]bool{
	TypeNYSLicense:         true,
	TypeTLCLicense:         true,
	TypeVehicleTitle:       true,
	TypeBillOfSale:         true,
	TypeRadioBaseCert:      true,
	TypeOtherDriverLicense: true,
	TypeUnknown:            true,
}

// TagForType maps a type label to its internal document tag. Bill of Sale
// shares the vehicle_title slot.
var TagForType = map[DocumentType]DocumentTag{
	TypeNYSLicense:         TagNYSLicense,
	TypeTLCLicense:         TagTLCLicense,
	TypeVehicleTitle:       TagVehicleTitle,
	TypeBillOfSale:         TagVehicleTitle,
	TypeRadioBaseCert:      TagRadioBaseCert,
	TypeOtherDriverLicense: TagOtherDriverLicense,
	TypeUnknown:            TagUnknown,
}

// TypeForTag maps an internal tag back to its canonical type label.
var TypeForTag = map[DocumentTag]DocumentType{
	TagNYSLicense:         TypeNYSLicense,
	TagTLCLicense:         TypeTLCLicense,
	TagVehicleTitle:       TypeVehicleTitle,
	TagRadioBaseCert:      TypeRadioBaseCert,
	TagOtherDriverLicense: TypeOtherDriverLicense,
	TagUnknown:            TypeUnknown,
}

var driverLicenseFields = []string{
	"license_number", "first_name", "middle_name", "last_name",
	"address", "city", "state", "zip_code",
}

// ExpectedFields is the canonical field set per document type, in display
// order. The extraction prompt and the normalizer must agree on this table:
// the normalizer completes missing fields to empty strings, so the review
// surface always sees exactly these keys in this order.
var ExpectedFields = map[DocumentType][]string{
	TypeNYSLicense:         driverLicenseFields,
	TypeTLCLicense:         {"license_number", "first_name", "last_name"},
	TypeVehicleTitle:       {"VIN", "vehicle_make", "vehicle_model", "vehicle_year", "owner_name"},
	TypeBillOfSale:         {"VIN", "vehicle_make", "vehicle_model", "vehicle_year", "owner_name"},
	TypeRadioBaseCert:      {"radio_base_name"},
	TypeOtherDriverLicense: driverLicenseFields,
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// ContentTypeForFileType maps FileType to the canonical MIME type used for
// storage and model attachments.
var ContentTypeForFileType = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// Language is a supported locale tag. Unsupported tags fall back to English.
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
	LangChinese Language = "zh"
)

// SupportedLanguages is the closed set of locale tags.
var SupportedLanguages = map[Language]bool{
	LangEnglish: true,
	LangSpanish: true,
	LangChinese: true,
}
