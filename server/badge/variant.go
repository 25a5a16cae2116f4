package badge

import "strings"

// Variant is a badge presentation variant.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
	VariantLegal       Variant = "legal"
	VariantMedical     Variant = "medical"
	VariantFinancial   Variant = "financial"
	VariantCommon      Variant = Variant(RarityCommon)
	VariantUncommon    Variant = Variant(RarityUncommon)
	VariantRare        Variant = Variant(RarityRare)
	VariantEpic        Variant = Variant(RarityEpic)
	VariantLegendary   Variant = Variant(RarityLegendary)
	VariantLevel       Variant = "level"
)

const baseClasses = "inline-flex items-center rounded-full border px-2.5 py-0.5 text-xs font-semibold transition-colors focus:outline-none focus:ring-2 focus:ring-ring focus:ring-offset-2"

var variantClasses = map[Variant]string{
	VariantDefault:     "border-transparent bg-primary text-primary-foreground hover:bg-primary/80",
	VariantSecondary:   "border-transparent bg-secondary text-secondary-foreground hover:bg-secondary/80",
	VariantDestructive: "border-transparent bg-destructive text-destructive-foreground hover:bg-destructive/80",
	VariantOutline:     "text-foreground",
	VariantLegal:       "border-transparent bg-legal-primary text-white hover:bg-legal-secondary",
	VariantMedical:     "border-transparent bg-medical-primary text-white hover:bg-medical-secondary",
	VariantFinancial:   "border-transparent bg-financial-primary text-white hover:bg-financial-secondary",
	VariantCommon:      "border-gray-300 bg-gray-100 text-gray-700",
	VariantUncommon:    "border-green-300 bg-green-100 text-green-700",
	VariantRare:        "border-blue-300 bg-blue-100 text-blue-700",
	VariantEpic:        "border-purple-300 bg-purple-100 text-purple-700",
	VariantLegendary:   "border-gold-300 bg-gradient-to-r from-yellow-200 to-yellow-300 text-yellow-800 badge-glow",
	VariantLevel:       "border-transparent bg-gradient-to-r from-verdict-gold to-yellow-400 text-white font-bold",
}

// ParseVariant accepts a variant name. An empty name selects VariantDefault.
func ParseVariant(raw string) (Variant, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return VariantDefault, nil
	}
	v := Variant(trimmed)
	if _, ok := variantClasses[v]; !ok {
		return "", ErrUnknownVariant
	}
	return v, nil
}

// Classes returns the full class list for v, base classes first.
// A zero Variant renders as VariantDefault.
func (v Variant) Classes() string {
	if v == "" {
		v = VariantDefault
	}
	return baseClasses + " " + variantClasses[v]
}
