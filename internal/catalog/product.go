package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is the single catalog entity. ID is assigned by the store on
// creation and ignored on input to Create and Update.
type Product struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Quantity    int      `json:"quantity"`
	Category    Category `json:"productCategory"`
}

type Category int

const (
	Electronics Category = iota
	Clothing
	Food
	Other
)

// categoryUnknown marks a name that matched no enumerant.
const categoryUnknown Category = -1

var categoryNames = [...]string{"Electronics", "Clothing", "Food", "Other"}

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{Electronics, Clothing, Food, Other}
}

func (c Category) Valid() bool {
	return c >= Electronics && c <= Other
}

func (c Category) String() string {
	if c.Valid() {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// ParseCategory accepts an enumerant name (case-insensitive) or its number.
// Numbers outside the enumerant range are returned as-is so validation can
// report them; unknown names fail.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Category(n), nil
	}
	return categoryUnknown, fmt.Errorf("unknown product category %q", s)
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return []byte(strconv.Itoa(int(c))), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON takes either the string enumerant or a number. Unknown
// values decode to an invalid category rather than failing, so they surface
// as a field violation instead of a malformed body.
func (c *Category) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseCategory(s)
		if err != nil {
			parsed = categoryUnknown
		}
		*c = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product category must be a string or integer: %w", err)
	}
	*c = Category(n)
	return nil
}
