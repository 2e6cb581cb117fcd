// Package middleware holds global and route-specific Echo middleware.
//
// It covers request body validation, authentication (Clerk), request
// logging, tracing (New Relic), rate limiting, CORS and panic recovery.
package middleware
