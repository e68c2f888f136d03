package barplot

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/derickschaefer/forecast/internal/config"
)

// Role is the semantic colour role of a painted cell.
type Role int

const (
	RoleBar Role = iota
	RoleOverlay
	RolePrecipitation
	RoleLegend
	RoleHighlight
	RoleDaylight
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleBar:
		return "bar"
	case RoleOverlay:
		return "overlay"
	case RolePrecipitation:
		return "precipitation"
	case RoleLegend:
		return "legend"
	case RoleHighlight:
		return "highlight"
	case RoleDaylight:
		return "daylight"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Styles binds every role to a terminal style. Bar roles colour the
// background; text roles colour the foreground. The other side of each pair
// is Base.
type Styles struct {
	Base   tcell.Color
	byRole [numRoles]tcell.Style
}

// NewStyles resolves the configured colour names. Base is the terminal
// default colour unless the plot is opaque.
func NewStyles(p config.Plot) (Styles, error) {
	st := Styles{Base: tcell.ColorDefault}
	if p.Opaque {
		st.Base = tcell.ColorBlack
	}
	base := tcell.StyleDefault.Foreground(st.Base).Background(st.Base)

	pairs := []struct {
		role       Role
		name       string
		background bool
	}{
		{RoleBar, p.Bar.Color, true},
		{RoleOverlay, p.Bar.OverlayColor, true},
		{RolePrecipitation, p.Precipitation.BarColor, true},
		{RoleLegend, p.Legend.Color, false},
		{RoleHighlight, p.Legend.TextHighlightColor, false},
		{RoleDaylight, p.Daylight.Color, false},
	}
	for _, pr := range pairs {
		c, err := config.ParseColor(pr.name)
		if err != nil {
			return Styles{}, fmt.Errorf("%s color: %w", pr.role, err)
		}
		if pr.background {
			st.byRole[pr.role] = base.Background(c)
		} else {
			st.byRole[pr.role] = base.Foreground(c)
		}
	}
	return st, nil
}

// Of returns the style bound to r.
func (s Styles) Of(r Role) tcell.Style {
	if r < 0 || r >= numRoles {
		return tcell.StyleDefault
	}
	return s.byRole[r]
}

// plainShades gives the overlay its own glyph in plain output unless its
// colour is shared with a primary bar role.
func (s Styles) plainShades() map[tcell.Color]rune {
	bg := func(r Role) tcell.Color {
		_, c, _ := s.Of(r).Decompose()
		return c
	}
	overlay := bg(RoleOverlay)
	if overlay == bg(RoleBar) || overlay == bg(RolePrecipitation) {
		return nil
	}
	return map[tcell.Color]rune{overlay: overlayGlyph}
}
