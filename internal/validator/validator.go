package validator

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate = validator.New()
	strip    = bluemonday.StrictPolicy()
)

const (
	maxSubmissionLength = 64 * 1024
	maxFlagsPerRequest  = 5000
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Messages joins every error message of the result.
func (r ValidationResult) Messages() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, " ")
}

func Validate(s any) error {
	return validate.Struct(s)
}

// ValidateStruct converts validator errors into a ValidationResult.
func ValidateStruct(s any) ValidationResult {
	result := ValidationResult{Valid: true}

	err := validate.Struct(s)
	if err == nil {
		return result
	}

	result.Valid = false
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
		return result
	}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag()),
		})
	}
	return result
}

// SubmissionForm is the manual submission form body.
type SubmissionForm struct {
	Text string `validate:"required,max=65536"`
}

// CompileFlagFormat compiles the game flag regex.
func CompileFlagFormat(format string) (*regexp.Regexp, error) {
	if format == "" {
		return nil, errors.New("flag format is empty")
	}
	re, err := regexp.Compile(format)
	if err != nil {
		return nil, fmt.Errorf("invalid flag format %q: %w", format, err)
	}
	return re, nil
}

// ExtractFlags returns every substring of text matching format, in order of
// appearance. Markup is stripped first so pasted HTML does not leak tags
// into flag values.
func ExtractFlags(text string, format *regexp.Regexp) ([]string, error) {
	if len(text) > maxSubmissionLength {
		return nil, fmt.Errorf("submission too long (máximo %d bytes)", maxSubmissionLength)
	}
	clean := html.UnescapeString(strip.Sanitize(text))

	matches := format.FindAllString(clean, maxFlagsPerRequest+1)
	if len(matches) > maxFlagsPerRequest {
		return nil, fmt.Errorf("too many flags in one submission (máximo %d)", maxFlagsPerRequest)
	}
	return matches, nil
}
