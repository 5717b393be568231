// Package theme bundles the default stylesheet embedded into rendered
// documents when theme embedding is enabled and no override is supplied.
package theme

import _ "embed"

//go:embed default_theme.css
var defaultCSS string

// DefaultCSS returns the bundled default theme stylesheet.
func DefaultCSS() string {
	return defaultCSS
}
