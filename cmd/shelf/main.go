package main

import (
	"os"
	"strings"

	"shelf-cli/internal/cli"
)

func isCategoryID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "cat-") && len(s) > len("cat-")
}

// rewriteDirectCategoryArgs turns `shelf <category-id>` into `shelf categories show <category-id>`.
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (e.g. `shelf --dir ... <category-id>`), so we look for the
// first positional token rather than argv[1].
func rewriteDirectCategoryArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "categories", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCategoryID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isCategoryID(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectCategoryArgs(os.Args)

	cmd := cli.NewRootCmd()
	err := cmd.Execute()
	os.Exit(cli.ExitCode(err))
}
