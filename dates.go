package spacetraveling

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/goodsign/monday"
)

// FormatDate renders t as "dd LLL yyyy" with pt-BR month abbreviations,
// e.g. "15 mar 2021".
func FormatDate(t time.Time) string {
	// Month abbreviations are always lowercase.
	return strings.ToLower(monday.Format(t, "02 Jan 2006", monday.LocalePtBR))
}

// FormatEdited renders the edited annotation, e.g.
// "*editado em 19 mar 2021 às 15:49".
func FormatEdited(t time.Time) string {
	return "*editado em " + FormatDate(t) + " às " + t.Format("15:04")
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
