package elk

import "strconv"

// Option key lists consulted for the values the renderer cares about.
// ELK option keys appear in the wild fully qualified, with the
// org.eclipse.elk prefix dropped, or bare.
var (
	fontSizeKeys = []string{
		"org.eclipse.elk.font.size",
		"elk.font.size",
		"font.size",
	}
	edgeThicknessKeys = []string{
		"org.eclipse.elk.edge.thickness",
		"elk.edge.thickness",
		"edge.thickness",
		"stroke.width",
	}
	edgeTypeKeys = []string{
		"org.eclipse.elk.edge.type",
		"elk.edge.type",
	}
)

// Options is the free-form option bag every graph element carries.
// Values under layoutOptions take precedence over properties when both
// bags define the same key.
type Options struct {
	LayoutOptions map[string]any `json:"layoutOptions,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// Option reads the first key found across both bags, checking layoutOptions
// before properties for each key in turn.
func (o Options) Option(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := o.LayoutOptions[key]; ok {
			return v, true
		}
		if v, ok := o.Properties[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// FontSize extracts an optional font size. Unparseable values are treated
// as absent.
func (o Options) FontSize() (float64, bool) {
	return o.optionFloat(fontSizeKeys)
}

// EdgeThickness extracts an optional edge stroke width. Unparseable values
// are treated as absent.
func (o Options) EdgeThickness() (float64, bool) {
	return o.optionFloat(edgeThicknessKeys)
}

// EdgeTypeOption returns the edge type declared through the option bags,
// or "" when none is set.
func (o Options) EdgeTypeOption() string {
	v, ok := o.Option(edgeTypeKeys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (o Options) optionFloat(keys []string) (float64, bool) {
	v, ok := o.Option(keys...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// toFloat coerces JSON option values. Decoded JSON numbers arrive as
// float64; numeric strings are common in hand-written documents.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
