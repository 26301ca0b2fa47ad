package models

// InputKind is the HTML-style input vocabulary the analysis stage assigns
// to detected fields. The set is open: kinds the catalog does not name are
// preserved as-is and passed through to the schema builder untouched.
type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputDate     InputKind = "date"
	InputNumber   InputKind = "number"
	InputTel      InputKind = "tel"
	InputURL      InputKind = "url"
	InputTextarea InputKind = "textarea"
	InputFile     InputKind = "file"
	InputCheckbox InputKind = "checkbox"
	InputRadio    InputKind = "radio"
	InputSelect   InputKind = "select"
)

// FieldSpec is one input field detected on a source form. Order within a
// list is the top-to-bottom, left-to-right reading order of the form and
// carries through to the built schema.
type FieldSpec struct {
	// Label is the text printed on the form, nil when the field has none.
	Label *string `json:"label"`
	// SuggestedLabel is the cleaned-up label for the digital form. The
	// analysis stage must always supply one, even when Label is nil.
	SuggestedLabel string    `json:"suggested_label"`
	Kind           InputKind `json:"type"`
}
