package validation

import (
	"fmt"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema description versions accepted by Compile.
const (
	VersionDraft04     = "draft-04"
	VersionDraft06     = "draft-06"
	VersionDraft07     = "draft-07"
	VersionDraft201909 = "draft-2019-09"
	VersionDraft202012 = "draft-2020-12"
	VersionOpenAPI30   = "openapi-3.0"
)

var cache, _ = lru.New[uint64, Schema[any]](128)

func hash(str string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(str))
	return h.Sum64()
}

// Compile builds a dynamic schema from its textual definition. Compiled
// schemas are cached by version and definition.
func Compile(version string, schemaDef string) (Schema[any], error) {
	cacheKey := hash(version + "." + schemaDef)
	if schema, exist := cache.Get(cacheKey); exist {
		return schema, nil
	}

	var (
		schema Schema[any]
		err    error
	)
	switch version {
	case VersionDraft04:
		schema, err = NewJSONSchema(jsonschema.Draft4, schemaDef)
	case VersionDraft06:
		schema, err = NewJSONSchema(jsonschema.Draft6, schemaDef)
	case VersionDraft07:
		schema, err = NewJSONSchema(jsonschema.Draft7, schemaDef)
	case VersionDraft201909:
		schema, err = NewJSONSchema(jsonschema.Draft2019, schemaDef)
	case VersionDraft202012:
		schema, err = NewJSONSchema(jsonschema.Draft2020, schemaDef)
	case VersionOpenAPI30:
		schema, err = NewOpenAPISchema(schemaDef)
	default:
		err = fmt.Errorf("unsupported schema version: %s", version)
	}
	if err != nil {
		return nil, err
	}

	_ = cache.Add(cacheKey, schema)
	return schema, nil
}

// MustCompile is like Compile but panics on error. Meant for package-level
// schema definitions.
func MustCompile(version string, schemaDef string) Schema[any] {
	schema, err := Compile(version, schemaDef)
	if err != nil {
		panic(fmt.Sprintf("validation: compiling %s schema: %v", version, err))
	}
	return schema
}
