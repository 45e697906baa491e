package password

import "unicode"

// Motivos de rechazo de Policy.Validate; viajan tal cual al detail del 400.
const (
	ReasonTooShort      = "too_short"
	ReasonMissingUpper  = "missing_upper"
	ReasonMissingLower  = "missing_lower"
	ReasonMissingDigit  = "missing_digit"
	ReasonMissingSymbol = "missing_symbol"
	ReasonBlacklisted   = "blacklisted"
)

// DefaultMinLength es el largo mínimo cuando la config no lo fija.
const DefaultMinLength = 10

// Policy define las reglas de complejidad para passwords nuevas. El valor cero
// no exige nada; Blacklist nil tampoco.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool

	Blacklist *Blacklist
}

// Validate devuelve ok=false y los motivos si s no cumple la política.
func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, ReasonTooShort)
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if p.RequireUpper && !upper {
		reasons = append(reasons, ReasonMissingUpper)
	}
	if p.RequireLower && !lower {
		reasons = append(reasons, ReasonMissingLower)
	}
	if p.RequireDigit && !digit {
		reasons = append(reasons, ReasonMissingDigit)
	}
	if p.RequireSymbol && !symbol {
		reasons = append(reasons, ReasonMissingSymbol)
	}
	if p.Blacklist.Contains(s) {
		reasons = append(reasons, ReasonBlacklisted)
	}
	return len(reasons) == 0, reasons
}
