package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Encode_NormalizesCase(t *testing.T) {
	q := Query{
		Sizes:  []string{"m", " l "},
		Colors: []string{"Black", "WHITE"},
	}

	values, err := url.ParseQuery(q.Encode())
	assert.NoError(t, err)
	assert.Equal(t, "M,L", values.Get("size"))
	assert.Equal(t, "black,white", values.Get("color"))
}

func TestQuery_Encode_AllFacets(t *testing.T) {
	q := Query{
		Sizes:    []string{"42"},
		Colors:   []string{"brown"},
		Material: "leather",
		Search:   "runner",
		Section:  "men",
		Category: 3,
	}

	values, err := url.ParseQuery(q.Encode())
	assert.NoError(t, err)
	assert.Equal(t, "42", values.Get("size"))
	assert.Equal(t, "brown", values.Get("color"))
	assert.Equal(t, "leather", values.Get("material"))
	assert.Equal(t, "runner", values.Get("search"))
	assert.Equal(t, "men", values.Get("type"))
	assert.Equal(t, "3", values.Get("category"))
}

func TestQuery_Encode_Empty(t *testing.T) {
	assert.Equal(t, "", Query{}.Encode())
}

func TestQuery_HasFacets(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"empty", Query{}, false},
		{"sizes", Query{Sizes: []string{"M"}}, true},
		{"colors", Query{Colors: []string{"black"}}, true},
		{"material", Query{Material: "suede"}, true},
		{"search", Query{Search: "boot"}, true},
		{"section", Query{Section: "women"}, true},
		{"category", Query{Category: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.HasFacets())
		})
	}
}

func TestFromValues_CommaJoinedAndRepeated(t *testing.T) {
	values := url.Values{
		"size":     []string{"M,L", "XL"},
		"color":    []string{"black"},
		"search":   []string{"  runner "},
		"type":     []string{"men"},
		"category": []string{"5"},
	}

	q := FromValues(values)
	assert.Equal(t, []string{"M", "L", "XL"}, q.Sizes)
	assert.Equal(t, []string{"black"}, q.Colors)
	assert.Equal(t, "runner", q.Search)
	assert.Equal(t, "men", q.Section)
	assert.Equal(t, 5, q.Category)
}

func TestFromValues_BadCategoryIgnored(t *testing.T) {
	q := FromValues(url.Values{"category": []string{"abc"}})
	assert.Zero(t, q.Category)
	assert.False(t, q.HasFacets())
}
