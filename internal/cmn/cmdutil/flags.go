package cmdutil

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"mvdan.cc/sh/v3/syntax"
)

// SplitFlags tokenizes a user-supplied flag string the way a POSIX shell
// would, honoring single quotes, double quotes and backslash escapes.
// Variables and command substitutions are left untouched. Blank input
// yields an empty, non-nil slice. An unquoted operator (;, |, &, < or >) is
// an error: the tokens after it would otherwise be dropped.
func SplitFlags(flags string) ([]string, error) {
	if strings.TrimSpace(flags) == "" {
		return []string{}, nil
	}

	parser := shellwords.NewParser()
	parser.ParseBacktick = false
	parser.ParseEnv = false

	args, err := parser.Parse(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flags %q: %w", flags, err)
	}
	if parser.Position != -1 {
		return nil, fmt.Errorf("failed to parse flags %q: unquoted shell operator at position %d", flags, parser.Position)
	}
	if args == nil {
		args = []string{}
	}
	return args, nil
}

// JoinFlags renders args as a single POSIX sh string that SplitFlags turns
// back into the same tokens, quoting only where needed.
func JoinFlags(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, quoteArg(arg))
	}
	return strings.Join(quoted, " ")
}

// quoteArg falls back to plain single quotes for what syntax.Quote cannot
// express in POSIX sh, such as control characters.
func quoteArg(arg string) string {
	if q, err := syntax.Quote(arg, syntax.LangPOSIX); err == nil {
		return q
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
