package main

import (
	"os"
	"regexp"
	"strings"

	"case-cli/internal/cli"
)

var reHandle = regexp.MustCompile(`^n\d+(\.\d+)?$`)

func isHandle(s string) bool {
	return reHandle.MatchString(strings.TrimSpace(s))
}

// rewriteDirectHandleArgs makes `case <handle>` work like
// `case show --ascii --from <handle>`. Cobra treats the first positional
// token as a subcommand, so argv is rewritten before parsing. Persistent
// flags may come first (`case --dir x n3`), so the first positional token
// is located rather than assuming argv[1].
func rewriteDirectHandleArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value so the
	// handle is never swallowed.
	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isHandle(a) {
			out := make([]string, 0, len(argv)+3)
			out = append(out, argv[:i]...)
			out = append(out, "show", "--ascii", "--from")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectHandleArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
