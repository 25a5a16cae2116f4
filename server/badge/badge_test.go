package badge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRarity(t *testing.T) {
	r, err := ParseRarity(" Epic ")
	require.NoError(t, err)
	assert.Equal(t, RarityEpic, r)
	assert.Equal(t, "Epic", r.DisplayName())

	_, err = ParseRarity("mythic")
	assert.ErrorIs(t, err, ErrUnknownRarity)
	_, err = ParseRarity("")
	assert.ErrorIs(t, err, ErrUnknownRarity)
}

func TestEveryRarityHasStyle(t *testing.T) {
	for r := range rarityNames {
		_, ok := variantClasses[Variant(r)]
		assert.True(t, ok, "rarity %s has no style", r)
		assert.True(t, strings.HasPrefix(r.Style(), baseClasses), "rarity %s", r)
	}
	assert.Contains(t, RarityLegendary.Style(), "badge-glow")
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantDefault, v)

	v, err = ParseVariant("LEVEL")
	require.NoError(t, err)
	assert.Equal(t, VariantLevel, v)
	assert.Contains(t, v.Classes(), "from-verdict-gold")

	_, err = ParseVariant("ghost")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	assert.Equal(t, VariantDefault.Classes(), Variant("").Classes())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("expertise")
	require.NoError(t, err)
	assert.Equal(t, CategoryExpertise, c)

	_, err = ParseCategory("misc")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestVertical(t *testing.T) {
	v, err := ParseVertical("Medical")
	require.NoError(t, err)
	assert.Equal(t, "text-medical-primary", v.TextClass())
	assert.Equal(t, "bg-medical-primary", v.BackgroundClass())
	assert.Equal(t, VariantMedical, v.Variant())

	_, err = ParseVertical("dental")
	assert.ErrorIs(t, err, ErrUnknownVertical)

	assert.Equal(t, "text-legal-primary", Vertical("").TextClass())
	assert.Equal(t, "bg-legal-primary", Vertical("dental").BackgroundClass())
}
