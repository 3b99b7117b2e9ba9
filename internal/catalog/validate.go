package catalog

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldCategory    = "category"
)

const (
	MsgPrice    = "Price must be a non negative number."
	MsgQuantity = "Quantity must be a non negative number."
	MsgCategory = "Invalid product category."
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the outcome of validating one product. It doubles as an
// error so stores fronting a remote API can hand rejections back unchanged.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, x.Field+": "+x.Message)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// Map returns field -> message.
func (v Violations) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, x := range v {
		m[x.Field] = x.Message
	}
	return m
}

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	for _, x := range v {
		if x.Field == field {
			return true
		}
	}
	return false
}

// ViolationsFromMap is the inverse of Map. Fields come back in the order
// Validate reports them.
func ViolationsFromMap(m map[string]string) Violations {
	var out Violations
	for _, f := range []string{FieldName, FieldDescription, FieldPrice, FieldQuantity, FieldCategory} {
		if msg, ok := m[f]; ok {
			out = append(out, Violation{Field: f, Message: msg})
		}
	}
	for f, msg := range m {
		if !out.Has(f) {
			out = append(out, Violation{Field: f, Message: msg})
		}
	}
	return out
}

// Rules holds the length bounds for text fields.
type Rules struct {
	NameMin, NameMax               int
	DescriptionMin, DescriptionMax int
}

// DefaultRules is the API rule set: names of 3-10 characters.
var DefaultRules = Rules{NameMin: 3, NameMax: 10, DescriptionMin: 3, DescriptionMax: 100}

// WithNameMax returns a copy of r with a different upper bound for names.
func (r Rules) WithNameMax(n int) Rules {
	r.NameMax = n
	return r
}

// Validate checks every field of p and returns all violations found.
func (r Rules) Validate(p Product) Violations {
	var out Violations

	if !within(p.Name, r.NameMin, r.NameMax) {
		out = append(out, Violation{FieldName, fmt.Sprintf(
			"The product name must be between %d and %d characters.", r.NameMin, r.NameMax)})
	}
	if !within(p.Description, r.DescriptionMin, r.DescriptionMax) {
		out = append(out, Violation{FieldDescription, fmt.Sprintf(
			"The product description must be between %d and %d characters.", r.DescriptionMin, r.DescriptionMax)})
	}
	if !inRange(p.Price) {
		out = append(out, Violation{FieldPrice, MsgPrice})
	}
	if !inRange(p.Quantity) {
		out = append(out, Violation{FieldQuantity, MsgQuantity})
	}
	if !p.Category.Valid() {
		out = append(out, Violation{FieldCategory, MsgCategory})
	}

	return out
}

// Validate applies DefaultRules.
func Validate(p Product) Violations {
	return DefaultRules.Validate(p)
}

// MaxAmount is the largest price or quantity any store can hold; the
// relational stores keep both in 32-bit INTEGER columns.
const MaxAmount = math.MaxInt32

func inRange(n int) bool {
	return n >= 0 && n <= MaxAmount
}

func within(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
