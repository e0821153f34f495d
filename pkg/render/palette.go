package render

// NodeColors is the fill, border, and label color for one node state.
type NodeColors struct {
	Fill   string `json:"fill" bson:"fill"`
	Border string `json:"border" bson:"border"`
	Text   string `json:"text" bson:"text"`
}

// Palette maps scene states to colors for one theme.
type Palette struct {
	Name       string     `json:"name" bson:"name"`
	Background string     `json:"background" bson:"background"`

	Neutral  NodeColors `json:"neutral" bson:"neutral"`
	Selected NodeColors `json:"selected" bson:"selected"`
	Focused  NodeColors `json:"focused" bson:"focused"`
	Incoming NodeColors `json:"incoming" bson:"incoming"`
	Outgoing NodeColors `json:"outgoing" bson:"outgoing"`

	Edge         string `json:"edge" bson:"edge"`
	EdgeIncoming string `json:"edge_incoming" bson:"edge_incoming"`
	EdgeOutgoing string `json:"edge_outgoing" bson:"edge_outgoing"`
}

// Focus and highlight colors are theme-independent so the states read
// the same in both themes.
var (
	focusedColors  = NodeColors{Fill: "#32B432", Border: "#64DC64", Text: "#FFFFFF"}
	incomingColors = NodeColors{Fill: "#DCB41E", Border: "#FFDC50", Text: "#FFFFFF"}
	outgoingColors = NodeColors{Fill: "#DC3C3C", Border: "#FF6464", Text: "#FFFFFF"}
)

// DarkPalette is the default theme.
func DarkPalette() Palette {
	return Palette{
		Name:       "dark",
		Background: "#1E222A",
		Neutral:    NodeColors{Fill: "#2A2F3A", Border: "#3B4252", Text: "#E6E6E6"},
		Selected:   NodeColors{Fill: "#5E81AC", Border: "#3B4252", Text: "#FFFFFF"},
		Focused:    focusedColors,
		Incoming:   incomingColors,
		Outgoing:   outgoingColors,

		Edge:         "#88C0D0",
		EdgeIncoming: "#FFDC50",
		EdgeOutgoing: "#FF6464",
	}
}

// LightPalette is the light theme.
func LightPalette() Palette {
	return Palette{
		Name:       "light",
		Background: "#FFFFFF",
		Neutral:    NodeColors{Fill: "#FFFFFF", Border: "#D0D0D0", Text: "#212121"},
		Selected:   NodeColors{Fill: "#1976D2", Border: "#D0D0D0", Text: "#FFFFFF"},
		Focused:    focusedColors,
		Incoming:   incomingColors,
		Outgoing:   outgoingColors,

		Edge:         "#646464",
		EdgeIncoming: "#FFDC50",
		EdgeOutgoing: "#FF6464",
	}
}

// PaletteFor returns the palette for a theme name, defaulting to dark.
func PaletteFor(theme string) Palette {
	if theme == "light" {
		return LightPalette()
	}
	return DarkPalette()
}

// NodeColorsFor resolves the colors for one node state.
func (p Palette) NodeColorsFor(s State) NodeColors {
	switch s {
	case StateSelected:
		return p.Selected
	case StateFocused:
		return p.Focused
	case StateIncoming:
		return p.Incoming
	case StateOutgoing:
		return p.Outgoing
	default:
		return p.Neutral
	}
}

// EdgeColorFor resolves the color for one edge state.
func (p Palette) EdgeColorFor(s State) string {
	switch s {
	case StateIncoming:
		return p.EdgeIncoming
	case StateOutgoing:
		return p.EdgeOutgoing
	default:
		return p.Edge
	}
}
