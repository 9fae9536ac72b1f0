package tui

import "unicode"

// splitShellWords splits an editor command such as `code --wait` into argv.
// Single quotes, double quotes and backslash escapes (outside single quotes)
// are honored; nothing is expanded.
func splitShellWords(s string) []string {
	var (
		out     []string
		cur     []rune
		started bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			started = true
		case quote == 0 && unicode.IsSpace(r):
			if started {
				out = append(out, string(cur))
				cur = cur[:0]
				started = false
			}
		default:
			cur = append(cur, r)
			started = true
		}
	}
	if started {
		out = append(out, string(cur))
	}
	return out
}
