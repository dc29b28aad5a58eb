package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"Power Tools":       "power-tools",
		"  power   tools  ": "power-tools",
		"Power_Tools":       "power-tools",
		"power-tools":       "power-tools",
		"Çeşitli Ürünler":   "çeşitli-ürünler",
		"!!!":               "",
		"--a--":             "a",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeSlug(in), "input %q", in)
	}
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("Power Tools", "")

	assert.NoError(t, err)
	assert.Equal(t, "Power Tools", c.Name)
	assert.Equal(t, "power-tools", c.Slug)
	assert.True(t, c.Active)
}

func TestNewCategory_ExplicitSlugWins(t *testing.T) {
	c, err := NewCategory("Power Tools", "Tools & More")

	assert.NoError(t, err)
	assert.Equal(t, "tools-more", c.Slug)
}

func TestNewCategory_Invalid(t *testing.T) {
	_, err := NewCategory("", "")
	assert.Error(t, err)

	_, err = NewCategory("!!!", "")
	assert.Error(t, err)
}
