// Package sqlerr translates database driver errors into HTTP errors.
//
// It reads the SQLSTATE code and constraint metadata of a Postgres error
// and turns, for example, a unique violation into a 400 with a readable
// message ("A Speaker with this Email already exists").
package sqlerr

import "github.com/jackc/pgx/v5/pgconn"

// Code is the category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	InvalidTextValue    Code = "invalid_text_representation"
	StringTooLong       Code = "string_data_right_truncation"
	SerializationFailed Code = "serialization_failure"
	DeadlockDetected    Code = "deadlock_detected"
)

// Severity of a database error as reported by Postgres.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized Postgres error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextValue
	case "22001":
		return StringTooLong
	case "40001":
		return SerializationFailed
	case "40P01":
		return DeadlockDetected
	default:
		return Other
	}
}

// MapSeverity maps the (non-localized) severity string to a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// ConvertPgError converts a raw Postgres error into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	severity := src.SeverityUnlocalized
	if severity == "" {
		severity = src.Severity
	}

	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}
