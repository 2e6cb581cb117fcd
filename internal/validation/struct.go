package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// validate is shared by every struct schema. validator caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name so paths match the request.
	v.RegisterTagNameFunc(jsonFieldName)

	return v
}

// jsonFieldName names a field by its json tag, then its query or param tag
// for types bound from the URL.
func jsonFieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "query", "param"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// Refinable is implemented by request types with rules that cannot be
// expressed as tags (cross-field checks and the like). Refine only runs once
// the value has passed every tag rule.
type Refinable interface {
	Refine() CustomValidationErrors
}

// StructOption configures a StructSchema.
type StructOption func(*structOptions)

type structOptions struct {
	coerce bool
	strict bool
}

// Coerce enables weak typing: "12" decodes into an int field, "true" into a
// bool, a single value into a one-element slice.
func Coerce() StructOption {
	return func(o *structOptions) { o.coerce = true }
}

// Strict reports unknown keys as violations. Without it they are dropped
// from the normalized value.
func Strict() StructOption {
	return func(o *structOptions) { o.strict = true }
}

// StructSchema describes a request body with a Go struct:
//   - `json` tags name the fields
//   - `default` tags (creasty/defaults) fill zero-valued fields
//   - `validate` tags (go-playground/validator) constrain them
//
// T must be a struct type, not a pointer.
type StructSchema[T any] struct {
	opts structOptions
}

// Struct builds a StructSchema for T.
func Struct[T any](opts ...StructOption) *StructSchema[T] {
	s := &StructSchema[T]{}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Parse decodes raw into T, applies defaults and runs every rule.
//
// Flow:
//  1. decode (type errors and unknown keys become issues)
//  2. apply `default` tags
//  3. run `validate` tags, skipping fields that already failed to decode
//  4. run Refine when nothing failed so far
func (s *StructSchema[T]) Parse(raw any) (T, error) {
	var zero, out T

	input, ok := raw.(map[string]any)
	if !ok {
		return zero, newValidationError(Issue{
			Path:    "",
			Message: fmt.Sprintf("Expected object, received %s", jsonTypeOf(raw)),
		})
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: s.opts.coerce,
		ErrorUnused:      s.opts.strict,
		MatchName:        exactName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			wholeNumberHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return zero, errors.Wrap(err, "building struct decoder")
	}

	var issues []Issue
	failed := make(map[string]bool)

	if err := decoder.Decode(input); err != nil {
		decodeErr, ok := err.(*mapstructure.Error)
		if !ok {
			return zero, errors.Wrap(err, "decoding request body")
		}
		for _, msg := range decodeErr.Errors {
			for _, issue := range decodeIssues(msg) {
				issues = append(issues, issue)
				failed[issue.Path] = true
			}
		}
	}

	if err := defaults.Set(&out); err != nil {
		return zero, errors.Wrap(err, "applying defaults")
	}

	if err := validate.Struct(&out); err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return zero, errors.Wrap(err, "validating request body")
		}
		for _, fe := range fieldErrors {
			path := namespacePath(fe.Namespace())
			if coveredBy(failed, path) {
				continue
			}
			issues = append(issues, Issue{Path: path, Message: tagMessage(fe)})
		}
	}

	if len(issues) == 0 {
		if r, ok := any(&out).(Refinable); ok {
			for _, custom := range r.Refine() {
				issues = append(issues, Issue{Path: custom.Field, Message: custom.Message})
			}
		}
	}

	if len(issues) > 0 {
		return zero, newValidationError(issues...)
	}

	return out, nil
}

// exactName matches body keys to json tags case-sensitively. mapstructure
// folds case by default, which would let "AGE" fill "age".
func exactName(mapKey, fieldName string) bool {
	return mapKey == fieldName
}

// wholeNumberHook rejects JSON numbers that an integer field cannot hold
// exactly. mapstructure would otherwise truncate 12.7 to 12 even without
// weak typing.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}

	v := reflect.ValueOf(data).Float()

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		limit := math.Ldexp(1, to.Bits()-1)
		if v != math.Trunc(v) || v < -limit || v >= limit {
			return nil, errors.New(integerMessage)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v != math.Trunc(v) || v >= math.Ldexp(1, to.Bits()) {
			return nil, errors.New(integerMessage)
		}
		if v < 0 {
			return nil, errors.New("Number must be greater than or equal to 0")
		}
	}

	return data, nil
}
