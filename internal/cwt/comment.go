package cwt

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

// classifyComments splits a trivia run's comments into `##` options,
// `###` documentation lines, and plain `#` comments, by counting how
// many '#' characters actually led the comment (the scanner already
// strips one as the comment marker itself, so two remaining means the
// source had "##").
func classifyComments(comments []syntax.Comment) (options []Option, documentation []string, regular []string) {
	for _, c := range comments {
		extra, rest := countLeadingHashes(c.Text)
		switch extra + 1 {
		case 1:
			regular = append(regular, strings.TrimSpace(rest))
		case 2:
			options = append(options, parseOptionLine(strings.TrimSpace(rest))...)
		default:
			documentation = append(documentation, strings.TrimSpace(rest))
		}
	}
	return options, documentation, regular
}

// rawComments returns each comment's text verbatim (trimmed, with only the
// scanner's own leading '#' removed), making no attempt to decode `##`/`###`
// hash-count conventions. Block and Identifier attach comments this way:
// only Rule decodes leading comments into options/documentation/regular by
// hash count.
func rawComments(comments []syntax.Comment) []string {
	if len(comments) == 0 {
		return nil
	}
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = strings.TrimSpace(c.Text)
	}
	return out
}

func countLeadingHashes(text string) (int, string) {
	i := 0
	for i < len(text) && text[i] == '#' {
		i++
	}
	return i, text[i:]
}

// parseOptionLine parses the mini-DSL inside a `##` comment: one or more
// `key = value` pairs, e.g. "push_scope = country" or
// "cardinality = 0..1 severity = error".
func parseOptionLine(line string) []Option {
	fields := strings.Fields(line)
	var opts []Option
	for i := 0; i < len(fields); {
		if i+2 < len(fields) && fields[i+1] == "=" {
			opts = append(opts, Option{Key: fields[i], Value: fields[i+2]})
			i += 3
			continue
		}
		if key, value, found := strings.Cut(fields[i], "="); found {
			opts = append(opts, Option{Key: key, Value: value})
		}
		i++
	}
	return opts
}
