package field

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/syssam/arangox"
)

// Kind is the expected JSON kind of a field value.
type Kind uint8

// Field kinds.
const (
	KindAny Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindObject
)

var kindNames = [...]string{
	KindAny:    "any",
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindList:   "list",
	KindObject: "object",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Descriptor holds the rules of a single field.
type Descriptor struct {
	Name       string
	Kind       Kind
	Optional   bool
	Tag        string // go-playground/validator tag
	Validators []func(any) error
	Comment    string
}

// Field is a fluent builder for a field descriptor.
type Field struct {
	desc *Descriptor
}

func newField(name string, kind Kind) *Field {
	return &Field{desc: &Descriptor{Name: name, Kind: kind}}
}

// String returns a new string field.
func String(name string) *Field { return newField(name, KindString) }

// Int returns a new integer field.
func Int(name string) *Field { return newField(name, KindInt) }

// Float returns a new floating point field.
func Float(name string) *Field { return newField(name, KindFloat) }

// Bool returns a new boolean field.
func Bool(name string) *Field { return newField(name, KindBool) }

// List returns a new list field.
func List(name string) *Field { return newField(name, KindList) }

// Object returns a new object field.
func Object(name string) *Field { return newField(name, KindObject) }

// Any returns a new field that accepts any value.
func Any(name string) *Field { return newField(name, KindAny) }

// Optional marks the field as not required.
func (f *Field) Optional() *Field {
	f.desc.Optional = true
	return f
}

// Comment sets the field comment.
func (f *Field) Comment(c string) *Field {
	f.desc.Comment = c
	return f
}

// Validate adds a go-playground/validator tag, e.g. "email" or "oneof=a b".
func (f *Field) Validate(tag string) *Field {
	if f.desc.Tag != "" {
		f.desc.Tag += ","
	}
	f.desc.Tag += tag
	return f
}

// Check adds a custom validator.
func (f *Field) Check(fn func(any) error) *Field {
	f.desc.Validators = append(f.desc.Validators, fn)
	return f
}

// NotEmpty adds a validator that fails on empty strings.
func (f *Field) NotEmpty() *Field {
	return f.Check(func(v any) error {
		if s, _ := v.(string); s == "" {
			return errors.New("value is empty")
		}
		return nil
	})
}

// MinLen adds a minimum length validator for strings.
func (f *Field) MinLen(n int) *Field {
	return f.Check(func(v any) error {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) < n {
			return fmt.Errorf("value is shorter than %d characters", n)
		}
		return nil
	})
}

// MaxLen adds a maximum length validator for strings.
func (f *Field) MaxLen(n int) *Field {
	return f.Check(func(v any) error {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > n {
			return fmt.Errorf("value is longer than %d characters", n)
		}
		return nil
	})
}

// Match adds a regular expression validator for strings.
func (f *Field) Match(re *regexp.Regexp) *Field {
	return f.Check(func(v any) error {
		if s, ok := v.(string); ok && !re.MatchString(s) {
			return fmt.Errorf("value does not match %q", re.String())
		}
		return nil
	})
}

// Min adds a minimum value validator for numbers.
func (f *Field) Min(n float64) *Field {
	return f.Check(func(v any) error {
		if x, ok := number(v); ok && x < n {
			return fmt.Errorf("value %v is less than %v", x, n)
		}
		return nil
	})
}

// Max adds a maximum value validator for numbers.
func (f *Field) Max(n float64) *Field {
	return f.Check(func(v any) error {
		if x, ok := number(v); ok && x > n {
			return fmt.Errorf("value %v is greater than %v", x, n)
		}
		return nil
	})
}

// Range adds a validator requiring numbers in [lo, hi].
func (f *Field) Range(lo, hi float64) *Field {
	return f.Min(lo).Max(hi)
}

// Positive adds a validator requiring numbers greater than zero.
func (f *Field) Positive() *Field {
	return f.Check(func(v any) error {
		if x, ok := number(v); ok && x <= 0 {
			return fmt.Errorf("value %v is not positive", x)
		}
		return nil
	})
}

// NonNegative adds a validator requiring numbers greater than or equal to zero.
func (f *Field) NonNegative() *Field {
	return f.Min(0)
}

// Descriptor returns the field descriptor.
func (f *Field) Descriptor() *Descriptor {
	return f.desc
}

var validate = validator.New()

// Value checks a single value against the descriptor.
func (d *Descriptor) Value(v any) error {
	if v == nil {
		if d.Optional {
			return nil
		}
		return arangox.NewValidationError(d.Name, errors.New("value is required"))
	}
	if err := checkKind(d.Kind, v); err != nil {
		return arangox.NewValidationError(d.Name, err)
	}
	if d.Tag != "" {
		if err := validate.Var(v, d.Tag); err != nil {
			return arangox.NewValidationError(d.Name, formatValidationError(err))
		}
	}
	for _, fn := range d.Validators {
		if err := fn(v); err != nil {
			return arangox.NewValidationError(d.Name, err)
		}
	}
	return nil
}

// Validate checks attrs against the given rules. Missing required fields,
// values of the wrong kind and failing validators are all reported.
// Private attributes are checked with ValidatePrivate.
func Validate(rules []*Descriptor, attrs map[string]any) error {
	var errs []error
	for _, d := range rules {
		errs = append(errs, d.Value(attrs[d.Name]))
	}
	for name, v := range attrs {
		if strings.HasPrefix(name, "_") {
			errs = append(errs, ValidatePrivate(name, v))
		}
	}
	return arangox.NewAggregateError(errs...)
}

func checkKind(k Kind, v any) error {
	ok := true
	switch k {
	case KindString:
		_, ok = v.(string)
	case KindInt:
		x, isNum := number(v)
		ok = isNum && x == math.Trunc(x)
	case KindFloat:
		_, ok = number(v)
	case KindBool:
		_, ok = v.(bool)
	case KindList:
		rk := reflect.TypeOf(v).Kind()
		ok = rk == reflect.Slice || rk == reflect.Array
	case KindObject:
		rk := reflect.TypeOf(v).Kind()
		ok = rk == reflect.Map || rk == reflect.Struct
	}
	if !ok {
		return fmt.Errorf("expected %s value, got %T", k, v)
	}
	return nil
}

// number converts numeric values, including JSON-decoded float64, to float64.
func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// formatValidationError formats validator errors into readable messages.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, "value is required")
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("value must be at least %s", e.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("value must be at most %s", e.Param()))
		case "email":
			msgs = append(msgs, "value must be a valid email")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("value must be one of: %s", e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("value failed %q", e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
