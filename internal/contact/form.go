// Package contact implements the quote request form: field validation, the
// submit flow and the collaborators an inquiry is handed to.
package contact

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldProjectType Field = "projectType"
	FieldBudget      Field = "budget"
	FieldMessage     Field = "message"
)

const (
	DefaultProjectType = "Residential"
	DefaultBudget      = "Under ₱500k"

	ThankYou = "Thanks! We’ll get back to you within 24 hours."
)

var (
	ProjectTypes = []string{"Residential", "Commercial", "Renovation", "Interior Fit-Out"}
	Budgets      = []string{"Under ₱500k", "₱500k - ₱1M", "₱1M - ₱5M", "Above ₱5M"}
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type FormData struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"projectType"`
	Budget      string `json:"budget"`
	Message     string `json:"message"`
}

// NewFormData returns an empty form with the default selections
func NewFormData() FormData {
	return FormData{ProjectType: DefaultProjectType, Budget: DefaultBudget}
}

// Errors maps a field to its message
type Errors map[Field]string

// Fields lists the failing fields in sorted order
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks the required fields. Values are trimmed first.
func Validate(d FormData) Errors {
	e := Errors{}
	if strings.TrimSpace(d.Name) == "" {
		e[FieldName] = "Please enter your name."
	}
	email := strings.TrimSpace(d.Email)
	switch {
	case email == "":
		e[FieldEmail] = "Please enter your email."
	case !emailRe.MatchString(email):
		e[FieldEmail] = "Please enter a valid email."
	}
	if strings.TrimSpace(d.Message) == "" {
		e[FieldMessage] = "Tell us a bit about your project."
	}
	return e
}

type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		fields = append(fields, string(f))
	}
	return "invalid form: " + strings.Join(fields, ", ")
}

// Submitter receives valid inquiries
type Submitter interface {
	Submit(ctx context.Context, d FormData) error
}

type SubmitterFunc func(ctx context.Context, d FormData) error

func (f SubmitterFunc) Submit(ctx context.Context, d FormData) error { return f(ctx, d) }

// Form tracks edits of one visitor. Errors of a field are shown once it has
// been blurred or a submit was attempted.
type Form struct {
	data      FormData
	touched   map[Field]bool
	submitted bool
	submitter Submitter
}

func NewForm(s Submitter) *Form {
	return &Form{data: NewFormData(), touched: map[Field]bool{}, submitter: s}
}

func (f *Form) Set(field Field, value string) error {
	switch field {
	case FieldName:
		f.data.Name = value
	case FieldEmail:
		f.data.Email = value
	case FieldPhone:
		f.data.Phone = value
	case FieldProjectType:
		f.data.ProjectType = value
	case FieldBudget:
		f.data.Budget = value
	case FieldMessage:
		f.data.Message = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Load replaces every field at once
func (f *Form) Load(d FormData) {
	f.data = d
	if f.data.ProjectType == "" {
		f.data.ProjectType = DefaultProjectType
	}
	if f.data.Budget == "" {
		f.data.Budget = DefaultBudget
	}
}

func (f *Form) Blur(field Field) { f.touched[field] = true }

func (f *Form) Data() FormData { return f.data }

func (f *Form) Submitted() bool { return f.submitted }

// Errors re-validates the current values
func (f *Form) Errors() Errors { return Validate(f.data) }

// VisibleErrors is the subset of Errors the visitor should see
func (f *Form) VisibleErrors() Errors {
	all := Validate(f.data)
	if f.submitted {
		return all
	}
	visible := Errors{}
	for field, msg := range all {
		if f.touched[field] {
			visible[field] = msg
		}
	}
	return visible
}

// Submit validates and hands the data to the submitter. A successful
// submit resets the form; a failed one keeps the visitor's input.
func (f *Form) Submit(ctx context.Context) error {
	f.submitted = true
	if errs := Validate(f.data); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	if err := f.submitter.Submit(ctx, f.data); err != nil {
		return fmt.Errorf("submit inquiry: %w", err)
	}
	f.Reset()
	return nil
}

func (f *Form) Reset() {
	f.data = NewFormData()
	f.touched = map[Field]bool{}
	f.submitted = false
}
