// Package model holds the domain entities stored by the repositories and
// the request types and schemas the handlers validate against.
package model
