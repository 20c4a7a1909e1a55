package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Violation is one failed rule on a record field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found on a record.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError returns nil when there is nothing to report.
func NewValidationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("industry", oneOf(Industries))
		_ = v.RegisterValidation("jobtype", oneOf(JobTypes))
		_ = v.RegisterValidation("education", oneOf(Educations))
		_ = v.RegisterValidation("experience", oneOf(Experiences))
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return Role(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func oneOf(values []string) validator.Func {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

// ValidateJob checks a job against its schema rules.
func ValidateJob(j *Job) []Violation {
	return violations(j)
}

// ValidateUser checks a user against its schema rules.
func ValidateUser(u *User) []Violation {
	return violations(u)
}

func violations(record any) []Violation {
	err := recordValidator().Struct(record)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []Violation{{Field: "", Message: err.Error()}}
	}
	out := make([]Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, Violation{Field: fe.Field(), Message: violationMessage(fe)})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s can not exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s value(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "industry":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(Industries, ", "))
	case "jobtype":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(JobTypes, ", "))
	case "education":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(Educations, ", "))
	case "experience":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(Experiences, ", "))
	case "role":
		return fmt.Sprintf("%s must be one of: %s, %s, %s", field, RoleUser, RoleEmployer, RoleAdmin)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
