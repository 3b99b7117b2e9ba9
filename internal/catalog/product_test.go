package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductJSON(t *testing.T) {
	b, err := json.Marshal(Product{Name: "Mouse", Description: "Optical.", Price: 10, Quantity: 1, Category: Food})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Mouse","description":"Optical.","price":10,"quantity":1,"productCategory":"Food"}`, string(b))
}

func TestCategoryUnmarshal(t *testing.T) {
	cases := map[string]Category{
		`"Clothing"`: Clothing,
		`"other"`:    Other,
		`0`:          Electronics,
		`3`:          Other,
		`12`:         Category(12),
		`"Toys"`:     categoryUnknown,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			var c Category
			require.NoError(t, json.Unmarshal([]byte(in), &c))
			assert.Equal(t, want, c)
		})
	}

	var c Category
	assert.Error(t, json.Unmarshal([]byte(`true`), &c))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" electronics ")
	require.NoError(t, err)
	assert.Equal(t, Electronics, c)

	c, err = ParseCategory("2")
	require.NoError(t, err)
	assert.Equal(t, Food, c)

	_, err = ParseCategory("Toys")
	assert.Error(t, err)
}

func TestInvalidCategoryMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(Category(9))
	require.NoError(t, err)
	assert.Equal(t, "9", string(b))
	assert.Equal(t, "Category(9)", Category(9).String())
}
