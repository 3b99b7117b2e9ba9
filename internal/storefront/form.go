package storefront

import (
	"net/http"
	"strconv"
	"strings"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/pkg/kit"
)

const (
	formID       = "id"
	formLegacyID = "guid"
	formCategory = "productCategory"
)

// amounts holds the price and quantity text as typed, so a re-displayed form
// shows the submitted value even when it is not a number.
type amounts struct {
	Price    string
	Quantity string
}

func amountsOf(p catalog.Product) amounts {
	return amounts{Price: strconv.Itoa(p.Price), Quantity: strconv.Itoa(p.Quantity)}
}

// productFromForm binds the posted fields. Numbers that do not parse are
// reported as violations of their field and left at zero in the product.
func productFromForm(w http.ResponseWriter, r *http.Request) (catalog.Product, amounts, catalog.Violations, error) {
	if err := parseForm(w, r); err != nil {
		return catalog.Product{}, amounts{}, nil, err
	}

	p := catalog.Product{
		ID:          formProductID(r),
		Name:        strings.TrimSpace(r.PostFormValue(catalog.FieldName)),
		Description: strings.TrimSpace(r.PostFormValue(catalog.FieldDescription)),
	}

	raw := amounts{
		Price:    strings.TrimSpace(r.PostFormValue(catalog.FieldPrice)),
		Quantity: strings.TrimSpace(r.PostFormValue(catalog.FieldQuantity)),
	}

	var bad catalog.Violations
	var err error
	if p.Price, err = strconv.Atoi(raw.Price); err != nil {
		bad = append(bad, catalog.Violation{Field: catalog.FieldPrice, Message: catalog.MsgPrice})
	}
	if p.Quantity, err = strconv.Atoi(raw.Quantity); err != nil {
		bad = append(bad, catalog.Violation{Field: catalog.FieldQuantity, Message: catalog.MsgQuantity})
	}
	// an unknown name parses to an invalid category, which validation reports
	p.Category, _ = catalog.ParseCategory(r.PostFormValue(formCategory))

	return p, raw, bad, nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, kit.MaxBodyBytes)
	return r.ParseForm()
}

func formProductID(r *http.Request) string {
	if id := strings.TrimSpace(r.PostFormValue(formID)); id != "" {
		return id
	}
	return strings.TrimSpace(r.PostFormValue(formLegacyID))
}

// merge combines binding and validation violations, one per field.
func merge(bind, rules catalog.Violations) catalog.Violations {
	m := rules.Map()
	for _, v := range bind {
		if _, ok := m[v.Field]; !ok {
			m[v.Field] = v.Message
		}
	}
	if len(m) == 0 {
		return nil
	}
	return catalog.ViolationsFromMap(m)
}
