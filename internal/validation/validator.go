package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/story-sharing-api/internal/models"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidationError represents a single field-level problem
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is the list of problems found in one payload
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Field+": "+ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with the rules used by the API
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients can map errors to inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "storystatus", func(fl validator.FieldLevel) bool {
		return models.StoryStatus(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ValidateStory validates a story submission
func (v *Validator) ValidateStory(in *models.StoryInput) ValidationErrors {
	return v.check(in)
}

// ValidateCategory validates a category payload
func (v *Validator) ValidateCategory(in *models.CategoryInput) ValidationErrors {
	return v.check(in)
}

// ValidateStatusUpdate validates a moderation status change
func (v *Validator) ValidateStatusUpdate(req *models.StatusUpdateRequest) ValidationErrors {
	return v.check(req)
}

// ValidateFeatureUpdate validates a feature toggle
func (v *Validator) ValidateFeatureUpdate(req *models.FeatureUpdateRequest) ValidationErrors {
	return v.check(req)
}

func (v *Validator) check(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: message(fe),
			Value:   reportedValue(fe),
		})
	}
	return out
}

// fieldPath strips the struct name so "StoryInput.tags[1]" becomes "tags[1]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "email":
		return "invalid email format"
	case "slug":
		return "slug must be kebab-case (lowercase letters, numbers, hyphens)"
	case "storystatus":
		return "invalid status, must be one of: pending, approved, rejected"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func reportedValue(fe validator.FieldError) interface{} {
	switch fe.Tag() {
	case "required", "notblank":
		return nil
	}
	if s, ok := fe.Value().(string); ok && len(s) > 100 {
		return s[:100] + "..."
	}
	return fe.Value()
}
