package catalog

import "strings"

// Render substitutes {name} placeholders in a template with values from
// data. Placeholders without a matching key are left verbatim, which makes
// rendering idempotent: re-rendering an already rendered string with the
// same data never changes it further.
func Render(tmpl string, data map[string]string) string {
	if tmpl == "" || !strings.ContainsRune(tmpl, '{') {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		close := strings.IndexByte(tmpl[open:], '}')
		if close < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		close += open
		b.WriteString(tmpl[:open])
		key := tmpl[open+1 : close]
		if val, ok := data[key]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(tmpl[open : close+1])
		}
		tmpl = tmpl[close+1:]
	}
}

// RenderTemplate renders all three texts of a message template.
func RenderTemplate(t MessageTemplate, data map[string]string) (public, attacker, target string) {
	return Render(t.Public, data), Render(t.Attacker, data), Render(t.Target, data)
}
