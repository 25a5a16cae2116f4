// Package badge holds the closed enumerations used to classify and style
// badges. Unknown names are rejected when a value is parsed, so a valid value
// always has an entry in the style tables.
package badge

import (
	"errors"
	"strings"
)

var (
	ErrUnknownRarity   = errors.New("unknown badge rarity")
	ErrUnknownCategory = errors.New("unknown badge category")
	ErrUnknownVariant  = errors.New("unknown badge variant")
	ErrUnknownVertical = errors.New("unknown vertical")
)

// Rarity represents how hard a badge is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "Common",
	RarityUncommon:  "Uncommon",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
}

// ParseRarity accepts the lower-case names, ignoring case and surrounding space.
func ParseRarity(raw string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := rarityNames[r]; !ok {
		return "", ErrUnknownRarity
	}
	return r, nil
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return string(r)
}

// Style returns the class list for r. Rarities share their names with
// variants, so the lookup goes through the variant table.
func (r Rarity) Style() string {
	return Variant(r).Classes()
}

// Category groups badges by what they reward.
type Category string

const (
	CategoryParticipation Category = "participation"
	CategoryQuality       Category = "quality"
	CategoryExpertise     Category = "expertise"
	CategoryCommunity     Category = "community"
	CategorySpecial       Category = "special"
	CategoryLegendary     Category = "legendary"
)

var categories = map[Category]bool{
	CategoryParticipation: true,
	CategoryQuality:       true,
	CategoryExpertise:     true,
	CategoryCommunity:     true,
	CategorySpecial:       true,
	CategoryLegendary:     true,
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !categories[c] {
		return "", ErrUnknownCategory
	}
	return c, nil
}
