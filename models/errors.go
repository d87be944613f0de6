package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type ErrorKind int

const (
	// caller input is incomplete or malformed; nothing was written
	ErrorKindValidation ErrorKind = iota + 1
	// input names a record that does not exist
	ErrorKindReferential
	// the database rejected or failed a write; the transaction was rolled back
	ErrorKindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindReferential:
		return "referential"
	case ErrorKindPersistence:
		return "persistence"
	}
	return "unknown"
}

// DomainError is returned by the invoice workflows and master-data writes.
type DomainError struct {
	Kind    ErrorKind
	Message string
	// offending input fields or ids, when known
	Fields []string
	Err    error
}

func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DomainError) Unwrap() error { return e.Err }

// Diagnostic is the underlying cause reported back to the caller.
func (e *DomainError) Diagnostic() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func NewValidationError(message string, fields ...string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Message: message, Fields: fields}
}

func NewReferentialError(message string, refs ...string) *DomainError {
	return &DomainError{Kind: ErrorKindReferential, Message: message, Fields: refs}
}

func NewPersistenceError(message string, err error) *DomainError {
	return &DomainError{Kind: ErrorKindPersistence, Message: message, Err: err}
}

// ErrorKindOf returns 0 for errors that are not *DomainError.
func ErrorKindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

const mysqlErrDuplicateEntry = 1062

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrDuplicateEntry
	}
	return false
}

func missingRefs(prefix string, ids []int) []string {
	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, fmt.Sprintf("%s %d", prefix, id))
	}
	return refs
}
