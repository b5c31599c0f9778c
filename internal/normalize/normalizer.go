// Package normalize turns the extraction model's free-form JSON into a
// canonical, validated document list. It tolerates the known output drifts
// (type-name aliases, sibling-flat address fields, the legacy top-level-keyed
// envelope) and guarantees a complete, stable field set per document type.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tlcintake/internal/domain"
)

// Shape records whether the model returned a document type's payload as a
// single object or as a list, so edit round-trips preserve cardinality.
type Shape string

const (
	ShapeObject Shape = "object"
	ShapeList   Shape = "list"
)

// ExtractedDocument is one validated document from an extraction batch.
type ExtractedDocument struct {
	Type     domain.DocumentType
	Tag      domain.DocumentTag
	Filename string
	Data     map[string]string
}

// Context carries the session state the normalizer cross-checks against.
type Context struct {
	// ApplicantName is the applicant's full name as far as it is known,
	// used for the ownership inference against a title's owner name.
	ApplicantName string
	OwnedBySelf   *bool
}

// Result is a validated extraction batch.
type Result struct {
	Documents []ExtractedDocument
	Shapes    map[domain.DocumentType]Shape
	// InferredOwnedBySelf is set to true when a title document's owner name
	// matches the known applicant name. It is a hint only and never set to
	// false; an explicit user answer always takes precedence.
	InferredOwnedBySelf *bool
}

// rawDoc is one document entry after envelope canonicalization, before
// schema validation.
type rawDoc struct {
	typeLabel string
	filename  string
	data      interface{}
	shape     Shape // set only for the top-level-keyed envelope
}

// Normalize validates and canonicalizes one raw model response. Any failure
// (malformed JSON, a type outside the closed set, a non-object data value)
// returns an *ExtractionError carrying the raw payload; the caller must not
// merge anything from a failed normalization.
func Normalize(raw json.RawMessage, nctx Context) (*Result, error) {
	var top map[string]interface{}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, newExtractionError("malformed JSON", raw, err)
	}

	rawDocs, err := canonicalDocs(top, raw)
	if err != nil {
		return nil, err
	}

	// Alias repair and label reconciliation happen before validation so the
	// schema enum only ever sees canonical labels.
	for i := range rawDocs {
		rawDocs[i].typeLabel = resolveTypeLabel(rawDocs[i].typeLabel)
	}

	if err := validateEnvelope(rawDocs); err != nil {
		return nil, newExtractionError("response does not match the expected envelope", raw, err)
	}

	result := &Result{Shapes: make(map[domain.DocumentType]Shape)}
	typeCounts := make(map[domain.DocumentType]int)

	for _, rd := range rawDocs {
		docType := domain.DocumentType(rd.typeLabel)
		typeCounts[docType]++

		dataMap, ok := rd.data.(map[string]interface{})
		if !ok {
			return nil, newExtractionError(fmt.Sprintf("data for %q is not an object", rd.typeLabel), raw, nil)
		}

		fields := denest(dataMap)
		fields = completeFields(docType, fields)

		result.Documents = append(result.Documents, ExtractedDocument{
			Type:     docType,
			Tag:      domain.TagForType[docType],
			Filename: rd.filename,
			Data:     fields,
		})
		if rd.shape != "" {
			result.Shapes[docType] = rd.shape
		}
	}

	for docType, n := range typeCounts {
		if _, ok := result.Shapes[docType]; !ok {
			if n > 1 {
				result.Shapes[docType] = ShapeList
			} else {
				result.Shapes[docType] = ShapeObject
			}
		}
	}

	inferOwnership(result, nctx)
	filterOtherDriver(result, nctx)

	return result, nil
}

// canonicalDocs converts either accepted envelope into a flat document list.
// The documents-array form is canonical; the legacy form keys documents by
// type label at the top level, with object or list values.
func canonicalDocs(top map[string]interface{}, raw json.RawMessage) ([]rawDoc, error) {
	if docsVal, ok := top["documents"]; ok {
		docsList, ok := docsVal.([]interface{})
		if !ok {
			return nil, newExtractionError(`"documents" is not an array`, raw, nil)
		}
		docs := make([]rawDoc, 0, len(docsList))
		for _, item := range docsList {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return nil, newExtractionError("document entry is not an object", raw, nil)
			}
			docs = append(docs, rawDoc{
				typeLabel: entryType(entry),
				filename:  stringValue(entry["filename"]),
				data:      entry["data"],
			})
		}
		return docs, nil
	}

	var docs []rawDoc
	for key, content := range top {
		if strings.HasPrefix(key, "_") {
			continue
		}
		switch v := content.(type) {
		case []interface{}:
			for _, item := range v {
				docs = append(docs, rawDoc{typeLabel: key, data: item, shape: ShapeList})
			}
		case map[string]interface{}:
			docs = append(docs, rawDoc{typeLabel: key, data: v, shape: ShapeObject})
		}
	}
	if len(docs) == 0 {
		return nil, newExtractionError("no document entries found", raw, nil)
	}
	return docs, nil
}

// entryType reads the type label under any of its known key spellings.
func entryType(entry map[string]interface{}) string {
	for _, key := range []string{"type", "document_type", "doc_type"} {
		if s := stringValue(entry[key]); s != "" {
			return s
		}
	}
	return ""
}

// resolveTypeLabel reconciles a model-emitted type label with the closed set.
// The known "Other" abbreviation is repaired, and snake_case or otherwise
// drifted spellings of the canonical labels are matched by keyword. A label
// that resolves to nothing is returned unchanged so schema validation can
// reject it with the original value in the diagnostics.
func resolveTypeLabel(label string) string {
	if domain.ValidDocumentTypes[domain.DocumentType(label)] {
		return label
	}
	if label == "Other" {
		return string(domain.TypeOtherDriverLicense)
	}

	l := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(label))
	switch {
	case strings.Contains(l, "other"):
		return string(domain.TypeOtherDriverLicense)
	case strings.Contains(l, "tlc") || strings.Contains(l, "hack"):
		return string(domain.TypeTLCLicense)
	case strings.Contains(l, "bill") || strings.Contains(l, "sale"):
		return string(domain.TypeBillOfSale)
	case strings.Contains(l, "title") || strings.Contains(l, "vehicle"):
		return string(domain.TypeVehicleTitle)
	case strings.Contains(l, "radio") || strings.Contains(l, "base"):
		return string(domain.TypeRadioBaseCert)
	case strings.Contains(l, "nys") || strings.Contains(l, "driver") || strings.Contains(l, "license"):
		return string(domain.TypeNYSLicense)
	case strings.Contains(l, "unknown"):
		return string(domain.TypeUnknown)
	}
	return label
}

// validateEnvelope runs the compiled schema over the canonicalized envelope.
func validateEnvelope(docs []rawDoc) error {
	entries := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		entry := map[string]interface{}{
			"type": d.typeLabel,
			"data": d.data,
		}
		if d.filename != "" {
			entry["filename"] = d.filename
		}
		entries = append(entries, entry)
	}
	return envelope.Validate(map[string]interface{}{"documents": entries})
}

// addressAliases maps the sibling-flat and nested address spellings onto the
// canonical flat field names.
var addressAliases = map[string]string{
	"street": "address",
	"zip":    "zip_code",
}

// denest flattens nested address and owner groups and folds sibling-flat
// aliases, producing one flat string map. The flattened key space is
// identical whichever shape the model emitted.
func denest(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for key, val := range data {
		switch nested := val.(type) {
		case map[string]interface{}:
			switch key {
			case "address":
				for subKey, subVal := range nested {
					canon := subKey
					if alias, ok := addressAliases[subKey]; ok {
						canon = alias
					}
					out[canon] = stringValue(subVal)
				}
			case "owner":
				for subKey, subVal := range nested {
					out["owner_"+subKey] = stringValue(subVal)
				}
			default:
				for subKey, subVal := range nested {
					out[key+"_"+subKey] = stringValue(subVal)
				}
			}
		default:
			canon := key
			if alias, ok := addressAliases[key]; ok {
				canon = alias
			}
			out[canon] = stringValue(val)
		}
	}
	return out
}

// completeFields retains only the type's expected fields and represents any
// missing one as an empty string, so downstream flattening always produces
// the same key set per type. An unrecognized type's fields pass through
// verbatim.
func completeFields(docType domain.DocumentType, data map[string]string) map[string]string {
	expected, ok := domain.ExpectedFields[docType]
	if !ok {
		return data
	}
	out := make(map[string]string, len(expected))
	for _, field := range expected {
		out[field] = data[field]
	}
	return out
}

// inferOwnership sets the owned-by-self hint when a title document's owner
// name matches the applicant name. The match is token-based in both
// directions, so middle initials on either side do not defeat it.
func inferOwnership(result *Result, nctx Context) {
	fullName := strings.TrimSpace(nctx.ApplicantName)
	if fullName == "" {
		// In a combined batch the applicant's license arrives alongside the
		// title, so take the name from it.
		for _, doc := range result.Documents {
			if doc.Tag == domain.TagNYSLicense {
				fullName = strings.TrimSpace(doc.Data["first_name"] + " " + doc.Data["last_name"])
				break
			}
		}
	}
	if fullName == "" {
		return
	}
	for _, doc := range result.Documents {
		if doc.Tag != domain.TagVehicleTitle {
			continue
		}
		owner := strings.TrimSpace(doc.Data["owner_name"])
		if owner == "" {
			continue
		}
		if namesMatch(owner, fullName) {
			result.InferredOwnedBySelf = domain.BoolPtr(true)
		}
	}
}

// namesMatch reports whether either name's word set is contained in the
// other's, case-insensitively.
func namesMatch(a, b string) bool {
	return wordsContained(a, b) || wordsContained(b, a)
}

func wordsContained(inner, outer string) bool {
	outerWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(outer)) {
		outerWords[w] = true
	}
	for _, w := range strings.Fields(strings.ToLower(inner)) {
		if !outerWords[w] {
			return false
		}
	}
	return true
}

// filterOtherDriver drops other-driver license documents when the user has
// declared sole ownership; the application has no second-driver slot then.
func filterOtherDriver(result *Result, nctx Context) {
	if nctx.OwnedBySelf == nil || !*nctx.OwnedBySelf {
		return
	}
	kept := make([]ExtractedDocument, 0, len(result.Documents))
	dropped := false
	for _, doc := range result.Documents {
		if doc.Tag == domain.TagOtherDriverLicense {
			dropped = true
			continue
		}
		kept = append(kept, doc)
	}
	if dropped {
		result.Documents = kept
		delete(result.Shapes, domain.TypeOtherDriverLicense)
	}
}

// stringValue renders a decoded JSON scalar as its display string. Integral
// numbers drop the trailing ".0" json decoding would otherwise introduce.
func stringValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
