// Package validation contains the logic for validating
// request data.
//
// A Schema turns a raw, untyped request body into a normalized,
// type-conformant value or reports every violated constraint at once.
// Adapters exist for Go structs (json/validate/default tags), JSON Schema
// documents and OpenAPI 3.0 schema objects. Validate is the single entry
// point used by the request gate in the middleware package.
package validation
