package keyframe

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a directive line that does not have the expected shape
type ParseError struct {
	Line    int // 1-based line number in the template
	Text    string
	Keyword string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("строка %d (%s): %s: %q", e.Line, e.Keyword, e.Reason, strings.TrimSpace(e.Text))
}

// Directive is a template line split into tokens
type Directive struct {
	Number int // 1-based line number
	Text   string
	Indent string
	Tokens []string
	Ending string
}

// isDirective reports whether trimmed starts with keyword and is not a comment
func isDirective(trimmed, keyword string) bool {
	return strings.HasPrefix(trimmed, keyword) && !strings.HasPrefix(trimmed, "#")
}

// parseDirective splits a raw line keeping its indentation and terminator
func parseDirective(number int, line string) Directive {
	body := strings.TrimRight(line, "\r\n")
	ending := line[len(body):]
	indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
	return Directive{
		Number: number,
		Text:   line,
		Indent: indent,
		Tokens: strings.Fields(body),
		Ending: ending,
	}
}

func (d Directive) errorf(format string, args ...any) *ParseError {
	keyword := ""
	if len(d.Tokens) > 0 {
		keyword = d.Tokens[0]
	}
	return &ParseError{
		Line:    d.Number,
		Text:    d.Text,
		Keyword: keyword,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// requireTokens fails when the directive has fewer than n tokens
func (d Directive) requireTokens(n int) error {
	if len(d.Tokens) < n {
		return d.errorf("ожидалось минимум %d токенов, получено %d", n, len(d.Tokens))
	}
	return nil
}

// number parses token i as a float
func (d Directive) number(i int) (float64, error) {
	v, err := strconv.ParseFloat(d.Tokens[i], 64)
	if err != nil {
		return 0, d.errorf("токен %d не число: %s", i, d.Tokens[i])
	}
	return v, nil
}

// join rebuilds the line from tokens keeping the line indent and terminator
func (d Directive) join(tokens ...string) string {
	return d.Indent + strings.Join(tokens, " ") + d.Ending
}

// FormatFloat renders a value with 6 fractional digits; negative zero prints as zero.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}
