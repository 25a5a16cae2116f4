package badge

import "strings"

// Vertical is a professional field served by the site.
type Vertical string

const (
	VerticalLegal     Vertical = "legal"
	VerticalMedical   Vertical = "medical"
	VerticalFinancial Vertical = "financial"
)

func ParseVertical(raw string) (Vertical, error) {
	switch v := Vertical(strings.ToLower(strings.TrimSpace(raw))); v {
	case VerticalLegal, VerticalMedical, VerticalFinancial:
		return v, nil
	default:
		return "", ErrUnknownVertical
	}
}

// TextClass returns the text color class. Unknown verticals use legal.
func (v Vertical) TextClass() string {
	switch v {
	case VerticalMedical:
		return "text-medical-primary"
	case VerticalFinancial:
		return "text-financial-primary"
	default:
		return "text-legal-primary"
	}
}

// BackgroundClass returns the background class. Unknown verticals use legal.
func (v Vertical) BackgroundClass() string {
	switch v {
	case VerticalMedical:
		return "bg-medical-primary"
	case VerticalFinancial:
		return "bg-financial-primary"
	default:
		return "bg-legal-primary"
	}
}

// Variant returns the badge variant used to tag content of this vertical.
func (v Vertical) Variant() Variant {
	switch v {
	case VerticalMedical:
		return VariantMedical
	case VerticalFinancial:
		return VariantFinancial
	default:
		return VariantLegal
	}
}
