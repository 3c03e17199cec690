package core

import "fmt"

// The engine surfaces four error kinds. Front ends treat them as opaque
// message strings; the types exist so tests and embedding code can tell a
// malformed query from a violated constraint with errors.As.

// SyntaxError reports a lexical or grammatical problem in the query text.
type SyntaxError struct {
	Message string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Message
}

func NewSyntaxError(format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...)}
}

// SchemaError reports a reference to a missing or conflicting catalog object.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Message
}

func NewSchemaError(format string, args ...any) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}

// ConstraintError reports a NOT NULL, PRIMARY KEY/UNIQUE, length, or type
// conversion violation.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string {
	return "constraint error: " + e.Message
}

func NewConstraintError(format string, args ...any) *ConstraintError {
	return &ConstraintError{Message: fmt.Sprintf(format, args...)}
}

// ExecutionError reports a statement that parsed and referenced valid schema
// but could not be carried out, such as an INSERT arity mismatch.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return "execution error: " + e.Message
}

func NewExecutionError(format string, args ...any) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}
