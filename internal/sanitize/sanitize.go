// Package sanitize strips known-dangerous markup from backend-supplied text
// before it is rendered as raw HTML. The rules are regex substitutions applied
// in a fixed order rather than a real HTML parser, so this is best-effort
// cleanup of trusted-ish backend output, not a security boundary.
package sanitize

import "regexp"

var (
	scriptElements = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	eventHandlers  = regexp.MustCompile(`(?i)\bon\w+\s*=\s*("[^"]*"|'[^']*')`)
	jsHrefDouble   = regexp.MustCompile(`(?i)href\s*=\s*"javascript:[^"]*"`)
	jsHrefSingle   = regexp.MustCompile(`(?i)href\s*=\s*'javascript:[^']*'`)
	jsSrcDouble    = regexp.MustCompile(`(?i)src\s*=\s*"javascript:[^"]*"`)
	jsSrcSingle    = regexp.MustCompile(`(?i)src\s*=\s*'javascript:[^']*'`)
)

// HTML removes script elements with their content, inline on* event handler
// attributes, and javascript: pseudo-protocol href/src attributes. href values
// are neutralized to href="#" so anchors keep rendering; src attributes are
// dropped entirely. Re-running the function on its own output is not
// guaranteed to be a no-op.
func HTML(s string) string {
	if s == "" {
		return ""
	}

	s = scriptElements.ReplaceAllString(s, "")
	s = eventHandlers.ReplaceAllString(s, "")
	s = jsHrefDouble.ReplaceAllString(s, `href="#"`)
	s = jsHrefSingle.ReplaceAllString(s, `href="#"`)
	s = jsSrcDouble.ReplaceAllString(s, "")
	s = jsSrcSingle.ReplaceAllString(s, "")

	return s
}
