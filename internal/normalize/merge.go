package normalize

import (
	"strings"

	"tlcintake/internal/domain"
)

// groupPrefixes are the reserved field-name prefixes that regroup into a
// nested object on the way back in. They only apply to fields outside a
// type's expected flat set, so canonical fields round-trip unchanged.
var groupPrefixes = map[string]bool{
	"address": true,
	"owner":   true,
}

// catchAllCategory collects edits whose category is not a document type or a
// reserved category. They are preserved rather than dropped so user edits
// are never lost, even for unanticipated field names.
const catchAllCategory = "Uncategorized"

// Regroup reconciles a flattened, user-edited field map back into structured
// per-category payloads. Document-type categories are rebuilt with canonical
// field keys, reserved group prefixes nest back into sub-objects, and each
// type's payload is re-wrapped as an object or single-element list according
// to the shape the original extraction used, so an edit round-trip never
// changes a document's cardinality.
func Regroup(fields []Field, shapes map[domain.DocumentType]Shape) map[string]interface{} {
	grouped := make(map[string]map[string]string)
	var order []string
	for _, f := range fields {
		category, title := SplitKey(f.Key)
		if _, ok := grouped[category]; !ok {
			grouped[category] = make(map[string]string)
			order = append(order, category)
		}
		grouped[category][title] = f.Value
	}

	out := make(map[string]interface{})
	for _, category := range order {
		titles := grouped[category]

		resolved := resolveTypeLabel(category)
		docType := domain.DocumentType(resolved)
		if !domain.ValidDocumentTypes[docType] || docType == domain.TypeUnknown {
			switch category {
			case CategoryContact, CategoryAdditional:
				out[category] = plainPayload(titles)
			default:
				addToCatchAll(out, category, titles)
			}
			continue
		}

		payload := documentPayload(docType, titles)
		if shapes[docType] == ShapeList {
			out[string(docType)] = []interface{}{payload}
		} else {
			out[string(docType)] = payload
		}
	}
	return out
}

// Entry pairs a regrouped category with its payload.
type Entry struct {
	Category string
	Payload  interface{}
}

// RegroupEntries is Regroup with a deterministic order: Contact and
// Additional first, then document categories as they first appear in the
// field list, with the catch-all bucket wherever its first member appeared.
func RegroupEntries(fields []Field, shapes map[domain.DocumentType]Shape) []Entry {
	out := Regroup(fields, shapes)

	var order []string
	seen := make(map[string]bool)
	place := func(key string) {
		if _, ok := out[key]; ok && !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	place(CategoryContact)
	place(CategoryAdditional)
	for _, f := range fields {
		category, _ := SplitKey(f.Key)
		if category == CategoryContact || category == CategoryAdditional {
			continue
		}
		docType := domain.DocumentType(resolveTypeLabel(category))
		if domain.ValidDocumentTypes[docType] && docType != domain.TypeUnknown {
			place(string(docType))
		} else {
			place(catchAllCategory)
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, Entry{Category: key, Payload: out[key]})
	}
	return entries
}

// documentPayload rebuilds one document's structured data from its edited
// field titles.
func documentPayload(docType domain.DocumentType, titles map[string]string) map[string]interface{} {
	payload := make(map[string]interface{}, len(titles))
	expected := expectedSet(docType)

	for title, value := range titles {
		key := FieldKey(docType, title)
		if expected[key] {
			payload[key] = value
			continue
		}
		prefix, rest, found := strings.Cut(key, "_")
		if found && groupPrefixes[prefix] && rest != "" {
			nested, ok := payload[prefix].(map[string]interface{})
			if !ok {
				nested = make(map[string]interface{})
				payload[prefix] = nested
			}
			nested[rest] = value
			continue
		}
		payload[key] = value
	}
	return payload
}

func expectedSet(docType domain.DocumentType) map[string]bool {
	set := make(map[string]bool)
	for _, f := range domain.ExpectedFields[docType] {
		set[f] = true
	}
	return set
}

func plainPayload(titles map[string]string) map[string]interface{} {
	payload := make(map[string]interface{}, len(titles))
	for title, value := range titles {
		payload[strings.ToLower(strings.ReplaceAll(title, " ", "_"))] = value
	}
	return payload
}

func addToCatchAll(out map[string]interface{}, category string, titles map[string]string) {
	bucket, ok := out[catchAllCategory].(map[string]interface{})
	if !ok {
		bucket = make(map[string]interface{})
		out[catchAllCategory] = bucket
	}
	bucket[category] = plainPayload(titles)
}
