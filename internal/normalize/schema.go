package normalize

import "github.com/santhosh-tekuri/jsonschema/v5"

// envelopeSchema validates the canonicalized extraction envelope after alias
// repair and shape conversion. The type enum is the closed set of labels the
// prompt instructs the model to use; anything else is a validation mismatch
// and fails the whole batch.
const envelopeSchema = `{
  "type": "object",
  "required": ["documents"],
  "properties": {
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "data"],
        "properties": {
          "type": {
            "type": "string",
            "enum": [
              "NYS Driver License",
              "TLC Hack License",
              "Vehicle Certificate of Title",
              "Bill of Sale",
              "Radio Base Certification Letter",
              "Other Driver's License",
              "Unknown"
            ]
          },
          "filename": {"type": "string"},
          "data": {"type": "object"}
        }
      }
    }
  }
}`

var envelope = jsonschema.MustCompileString("envelope.json", envelopeSchema)
