package validation

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Typed projects the normalized output of a dynamic schema (JSON Schema,
// OpenAPI) into a struct T so handlers can work with typed requests.
//
// The projection runs only after the inner schema accepted the value, so a
// projection failure is a mismatch between the schema and T and is reported
// as an unexpected error.
func Typed[T any](inner Schema[any]) Schema[T] {
	return SchemaFunc[T](func(raw any) (T, error) {
		var zero, out T

		normalized, err := inner.Parse(raw)
		if err != nil {
			return zero, err
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:    "json",
			Result:     &out,
			MatchName:  exactName,
			DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		})
		if err != nil {
			return zero, errors.Wrap(err, "building projection decoder")
		}
		if err := decoder.Decode(normalized); err != nil {
			return zero, errors.Wrapf(err, "projecting normalized body into %T", out)
		}

		return out, nil
	})
}
