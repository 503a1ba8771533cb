package domain

import "strings"

// ParseCommandArgs returns everything after the command keyword.
func ParseCommandArgs(args string) string {
	args = strings.TrimSpace(args)
	i := strings.IndexFunc(args, isSpace)
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(args[i:])
}

// ParseCommand returns the command keyword, the text up to the first whitespace. Case is preserved.
func ParseCommand(args string) string {
	args = strings.TrimSpace(args)
	i := strings.IndexFunc(args, isSpace)
	if i < 0 {
		return args
	}

	return args[:i]
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
