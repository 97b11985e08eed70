// Package prompt renders typed form data into natural-language generation
// requests. Builders are pure: the same form always yields the same bytes, which
// is what lets a stored form regenerate the identical request later.
package prompt

import (
	"fmt"
	"math"
	"strings"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
)

// Builder implements models.FormDataVisitor with one prompt builder per document type
type Builder struct{}

var _ models.FormDataVisitor = Builder{}

// Build validates form and renders its generation prompt
func Build(form models.FormData) (string, error) {
	if form == nil {
		return "", fmt.Errorf("build prompt: nil form data")
	}
	if err := form.Validate(); err != nil {
		return "", err
	}
	return form.Accept(Builder{})
}

// request accumulates the sections of a prompt in a fixed order
type request struct {
	b   strings.Builder
	err error
}

func newRequest(intro string) *request {
	r := &request{}
	r.b.WriteString(intro)
	r.b.WriteString("\n")
	return r
}

// section starts a titled block of lines
func (r *request) section(title string) {
	r.b.WriteString("\n")
	r.b.WriteString(title)
	r.b.WriteString(":\n")
}

// field writes "- label: value", skipping empty values
func (r *request) field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(&r.b, "- %s: %s\n", label, value)
}

// line writes a bullet
func (r *request) line(format string, args ...any) {
	r.b.WriteString("- ")
	fmt.Fprintf(&r.b, format, args...)
	r.b.WriteString("\n")
}

// headers lists the section headers the generated document must contain, in order
func (r *request) headers(names ...string) {
	r.section("The document must contain these sections, in this order")
	for i, name := range names {
		fmt.Fprintf(&r.b, "%d. %s\n", i+1, name)
	}
}

// money formats amount, recording the first amount that cannot be rendered
func (r *request) money(amount float64) string {
	s, err := formatMoney(amount)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return "[INVALID AMOUNT]"
	}
	return s
}

// result returns the finished prompt, or the first formatting error
func (r *request) result() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.b.String() + closing, nil
}

// closing is appended to every prompt
const closing = `
Write the complete document text only. Use plain text with the section headers above in
uppercase. Leave bracketed blanks like [SIGNATURE] and [DATE] where a signature or
hand-written date is needed. Do not invent facts that are not listed above.`

// maxFormattable is the largest magnitude whose cents fit in an int64 exactly
const maxFormattable = 1e13

// formatMoney formats an amount as US dollars with thousands separators, e.g. $1,234.50
func formatMoney(amount float64) (string, error) {
	if math.IsNaN(amount) || math.Abs(amount) > maxFormattable {
		return "", fmt.Errorf("%w: amount %v out of range", domain.ErrValidation, amount)
	}
	negative := amount < 0
	if negative {
		amount = -amount
	}
	cents := int64(amount*100 + 0.5)
	whole := cents / 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	s := fmt.Sprintf("$%s.%02d", grouped.String(), cents%100)
	if negative {
		return "-" + s, nil
	}
	return s, nil
}

// orDefault returns value, or fallback when value is empty
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
