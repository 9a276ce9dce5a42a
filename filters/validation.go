package filters

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("orderable", func(fl validator.FieldLevel) bool {
		params := reflect.Indirect(fl.Top()).Interface().(specialParams)
		_, ok := params.Orderable[strings.TrimLeft(fl.Field().String(), "+-")]
		return ok
	})

	_ = validate.RegisterValidation("projectable", func(fl validator.FieldLevel) bool {
		params := reflect.Indirect(fl.Top()).Interface().(specialParams)
		if params.Projectable == nil {
			return true
		}
		_, ok := params.Projectable[fl.Field().String()]
		return ok
	})

	_ = validate.RegisterTranslation("ltefield", trans, func(ut ut.Translator) error {
		return ut.Add("ltefield", "{0} must be less than or equal to the maximum page size", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("ltefield", fe.Field())
		return t
	})

	_ = validate.RegisterTranslation("orderable", trans, func(ut ut.Translator) error {
		return ut.Add("orderable", "Unknown sort value '{0}'", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("orderable", fmt.Sprint(fe.Value()))
		return t
	})

	_ = validate.RegisterTranslation("projectable", trans, func(ut ut.Translator) error {
		return ut.Add("projectable", "Unknown field '{0}'", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("projectable", fmt.Sprint(fe.Value()))
		return t
	})
}

// specialParams carries the capability owned values through the validator
type specialParams struct {
	Page        int      `json:"page" validate:"min=1"`
	PageSize    int      `json:"page_size" validate:"gt=0,ltefield=MaxPageSize"`
	MaxPageSize int      `json:"-"`
	Sort        []string `json:"sort" validate:"dive,orderable"`
	Fields      []string `json:"fields" validate:"dive,projectable"`

	Orderable   map[string]struct{} `json:"-"`
	Projectable map[string]struct{} `json:"-"`
}

// validate checks the special values. Defaults are trusted, so page_size is
// only checked when supplied.
func (f *Filter) validate(supplied map[string]bool) []FieldError {
	var partial []string
	for _, c := range f.schema.capabilities {
		for _, name := range c.validated() {
			if name == "PageSize" && !supplied[PageSizeField] {
				continue
			}
			partial = append(partial, name)
		}
	}
	if len(partial) == 0 {
		return nil
	}

	params := specialParams{
		Page:        f.Page(),
		PageSize:    f.PageSize(),
		MaxPageSize: f.schema.maxPageSize(),
		Sort:        f.Sort(),
		Fields:      f.Fields(),
	}
	if f.schema.ordering != nil {
		params.Orderable = f.schema.ordering.allowed()
	}
	if f.schema.projection != nil {
		params.Projectable = f.schema.projection.allowed()
	}

	err := validate.StructPartial(params, partial...)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Message: err.Error()}}
	}

	errs := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		if i := strings.Index(field, "["); i >= 0 {
			field = field[:i]
		}

		msg := fe.Translate(trans)
		if fe.Tag() == "orderable" {
			msg += ". Allowed values: " + strings.Join(f.schema.ordering.Fields, ", ")
		}
		errs = append(errs, FieldError{Field: field, Message: msg, Value: fe.Value()})
	}
	return errs
}

// FieldError is one failed field of a ValidationError.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError is returned when values do not satisfy the schema. It is a
// client error: the filter never reaches a resolver.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Sprintf("invalid %s filter: %s", e.Schema, strings.Join(msgs, "; "))
}
