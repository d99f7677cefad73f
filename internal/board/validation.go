package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tgienger/taskboard/internal/models"
)

// Field length limits
const (
	MaxProjectNameLength = 100
	MaxTaskNameLength    = 100
	MaxDescriptionLength = 500
	MaxSubtaskNameLength = 200
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStatus(fl.Field().String())
		return ok
	})

	return v
}

// Optional distinguishes a JSON field that was left out from one that was
// explicitly set to null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"required,rgbhex"`
}

// ProjectPatch carries a partial project update.
type ProjectPatch struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,rgbhex"`
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Name        string         `json:"name" validate:"required,min=1,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=500"`
	ProjectID   *int64         `json:"project_id"`
	Status      *models.Status `json:"status" validate:"omitempty,taskstatus"`
}

// UpdateTaskInput carries a partial task update. Status and Completed go
// through the completion synchronizer.
type UpdateTaskInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description Optional[string] `json:"description"`
	ProjectID   Optional[int64]  `json:"project_id"`
	Status      *models.Status   `json:"status" validate:"omitempty,taskstatus"`
	Completed   *bool            `json:"completed"`
}

// CreateSubtaskInput carries the fields of a new subtask. A nil or zero
// Position means append after the last active sibling.
type CreateSubtaskInput struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

// UpdateSubtaskInput carries a partial subtask update.
type UpdateSubtaskInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Completed *bool   `json:"completed"`
	Position  *int    `json:"position" validate:"omitempty,min=0"`
}

// Validate checks the input against its field constraints.
func (in ProjectInput) Validate() error { return check(validate.Struct(in)) }

// Validate checks the input against its field constraints.
func (in ProjectPatch) Validate() error { return check(validate.Struct(in)) }

// Validate checks the input against its field constraints.
func (in CreateTaskInput) Validate() error { return check(validate.Struct(in)) }

// Validate checks the input against its field constraints.
func (in UpdateTaskInput) Validate() error {
	errs := []error{validate.Struct(in)}
	if in.Description.Value != nil {
		errs = append(errs, checkVar("description", *in.Description.Value, "max=500"))
	}
	return check(errs...)
}

// Validate checks the input against its field constraints.
func (in CreateSubtaskInput) Validate() error { return check(validate.Struct(in)) }

// Validate checks the input against its field constraints.
func (in UpdateSubtaskInput) Validate() error { return check(validate.Struct(in)) }

func checkVar(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: field, Message: describe(fe)})
	}
	return ve
}

// check folds validator failures into a single ValidationError
func check(errs ...error) error {
	merged := &ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		var ve *ValidationError
		switch {
		case errors.As(err, &verrs):
			for _, fe := range verrs {
				merged.Fields = append(merged.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
			}
		case errors.As(err, &ve):
			merged.Fields = append(merged.Fields, ve.Fields...)
		default:
			return err
		}
	}
	if len(merged.Fields) == 0 {
		return nil
	}
	return merged
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "rgbhex":
		return "must be a color like #1A2B3C"
	case "taskstatus":
		return "must be one of backlog, doing, done"
	}
	return "is invalid"
}
