package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "WH-1000", NormalizeSKU("  wh-1000 "))
	assert.Equal(t, "ABC", NormalizeSKU("abc"))
	assert.Empty(t, NormalizeSKU("   "))
}

func TestNormalizeImages(t *testing.T) {
	t.Run("first primary wins", func(t *testing.T) {
		images := NormalizeImages([]ProductImage{
			{URL: "a", IsPrimary: false},
			{URL: "b", IsPrimary: true},
			{URL: "c", IsPrimary: true},
		})

		assert.False(t, images[0].IsPrimary)
		assert.True(t, images[1].IsPrimary)
		assert.False(t, images[2].IsPrimary)
	})

	t.Run("none marked promotes first", func(t *testing.T) {
		images := NormalizeImages([]ProductImage{
			{URL: "a"},
			{URL: "b"},
		})

		assert.True(t, images[0].IsPrimary)
		assert.False(t, images[1].IsPrimary)
	})

	t.Run("empty slice untouched", func(t *testing.T) {
		assert.Empty(t, NormalizeImages(nil))
	})
}

func TestProduct_PrimaryImage(t *testing.T) {
	p := &Product{Images: []ProductImage{
		{URL: "a"},
		{URL: "b", IsPrimary: true},
	}}

	img := p.PrimaryImage()
	require.NotNil(t, img)
	assert.Equal(t, "b", img.URL)

	empty := &Product{}
	assert.Nil(t, empty.PrimaryImage())
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryElectronics.IsValid())
	assert.True(t, CategoryOther.IsValid())
	assert.False(t, Category("furniture").IsValid())
	assert.False(t, Category("").IsValid())
}
