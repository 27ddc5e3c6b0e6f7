package keyframe

import (
	"fmt"
	"strings"
)

// Rule rewrites one kind of directive line with a frame's values
type Rule interface {
	Keyword() string
	Rewrite(d Directive, values []float64) (string, error)
}

// LookAtRule moves the eye of a "LookAt ex ey ez tx ty tz [ux uy uz]" directive.
// Target and up tokens are kept verbatim.
type LookAtRule struct{}

func (LookAtRule) Keyword() string { return "LookAt" }

func (LookAtRule) Rewrite(d Directive, values []float64) (string, error) {
	if err := d.requireTokens(7); err != nil {
		return "", err
	}
	if len(values) != 3 {
		return "", fmt.Errorf("LookAt: ожидалось 3 значения, получено %d", len(values))
	}

	eye := []string{d.Tokens[0], FormatFloat(values[0]), FormatFloat(values[1]), FormatFloat(values[2])}
	groups := []string{strings.Join(eye, " "), strings.Join(d.Tokens[4:7], " ")}
	if rest := d.Tokens[7:]; len(rest) > 0 {
		groups = append(groups, strings.Join(rest, " "))
	}
	return d.Indent + strings.Join(groups, "  ") + d.Ending, nil
}

// TranslateRule replaces the y slot of a "Translate x y z" directive.
// x and z are re-emitted at fixed precision.
type TranslateRule struct{}

func (TranslateRule) Keyword() string { return "Translate" }

func (TranslateRule) Rewrite(d Directive, values []float64) (string, error) {
	if err := d.requireTokens(4); err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", fmt.Errorf("Translate: ожидалось 1 значение, получено %d", len(values))
	}

	x, err := d.number(1)
	if err != nil {
		return "", err
	}
	z, err := d.number(3)
	if err != nil {
		return "", err
	}

	tokens := []string{d.Tokens[0], FormatFloat(x), FormatFloat(values[0]), FormatFloat(z)}
	tokens = append(tokens, d.Tokens[4:]...)
	return d.join(tokens...), nil
}
