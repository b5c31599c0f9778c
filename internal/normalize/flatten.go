package normalize

import (
	"sort"
	"strings"

	"tlcintake/internal/domain"
)

// Reserved category labels for non-document fields in the flattened view.
const (
	CategoryContact    = "Contact"
	CategoryAdditional = "Additional"
)

// Field is one entry of the flattened review view. Keys have the form
// "<Category> - <Field Title>" where Category is a document type label or
// one of the reserved category labels.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Flatten builds the ordered flattened field map for a document list. Known
// types emit their expected fields in canonical order; an unrecognized
// type's fields are emitted sorted. The view is derived and rebuilt on every
// render; it is never a source of truth.
func Flatten(docs []ExtractedDocument) []Field {
	var out []Field
	for _, doc := range docs {
		for _, fieldKey := range fieldOrder(doc) {
			out = append(out, Field{
				Key:   string(doc.Type) + " - " + FieldTitle(fieldKey),
				Value: doc.Data[fieldKey],
			})
		}
	}
	return out
}

func fieldOrder(doc ExtractedDocument) []string {
	if expected, ok := domain.ExpectedFields[doc.Type]; ok {
		return expected
	}
	keys := make([]string, 0, len(doc.Data))
	for k := range doc.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FieldTitle renders a snake_case field key as its display title. Tokens
// that are already all-caps (VIN) are preserved.
func FieldTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if w == strings.ToUpper(w) && len(w) > 1 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// FieldKey inverts FieldTitle for a given document type: a title matching
// one of the type's expected fields case-insensitively maps back to the
// canonical key; anything else lowercases to snake_case.
func FieldKey(docType domain.DocumentType, title string) string {
	if expected, ok := domain.ExpectedFields[docType]; ok {
		for _, key := range expected {
			if strings.EqualFold(FieldTitle(key), title) {
				return key
			}
		}
	}
	return strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

// SplitKey splits a flattened key on its first " - " separator into
// (category, field title). A key without a separator is returned as a bare
// category with an empty field.
func SplitKey(key string) (category, field string) {
	parts := strings.SplitN(key, " - ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
