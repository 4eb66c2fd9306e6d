package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Default(t *testing.T) {
	products, err := Catalog("")
	require.NoError(t, err)
	require.Len(t, products, 3)

	want := []struct {
		name, category, price string
	}{
		{"Football", "Soccer", "25"},
		{"Surf board", "Watersports", "179"},
		{"Running Shoes", "Running", "95"},
	}
	for i, w := range want {
		assert.Equal(t, w.name, products[i].Name)
		assert.Equal(t, w.category, products[i].Category)
		assert.Equal(t, w.price, products[i].Price.String())
		assert.NotEmpty(t, products[i].Description)
		assert.True(t, products[i].IsNew())
	}
}

func TestCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - name: Kayak
    description: A boat for one person
    category: Watersports
    price: "275"
    image_url: https://img.example.com/kayak.png
`), 0o600))

	products, err := Catalog(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kayak", products[0].Name)
	assert.Equal(t, "https://img.example.com/kayak.png", products[0].ImageURL)
}

func TestCatalog_MissingFile(t *testing.T) {
	_, err := Catalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read seed catalog")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", "products: [", "decode catalog"},
		{"bad price", "products:\n  - {name: Ball, description: d, category: Soccer, price: abc}\n", "invalid price"},
		{"zero price", "products:\n  - {name: Ball, description: d, category: Soccer, price: \"0\"}\n", "price must be positive"},
		{"missing name", "products:\n  - {description: d, category: Soccer, price: \"5\"}\n", "Name"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	products, err := Parse([]byte("products: []\n"))
	require.NoError(t, err)
	assert.Empty(t, products)
}
