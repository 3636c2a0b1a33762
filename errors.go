package jhp

import "fmt"

// IncludeNotFoundError is produced by the path resolver when a reference
// cannot be located by any of its three resolution tiers.
type IncludeNotFoundError struct {
	Reference string
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("include not found: %s", e.Reference)
}

// ConstantRedeclarationError is produced when a script attempts to rebind
// an existing constant to a different value.
type ConstantRedeclarationError struct {
	Name string
}

func (e *ConstantRedeclarationError) Error() string {
	return fmt.Sprintf("attempt to redeclare defined constant '%s'", e.Name)
}

// VariableThenConstantError is produced when define() is called for a name
// that already exists as a plain variable in context.
type VariableThenConstantError struct {
	Name string
}

func (e *VariableThenConstantError) Error() string {
	return fmt.Sprintf("cannot define '%s': already bound as a variable", e.Name)
}

// UnclosedConditionalError is appended once, at the end of a document,
// when the conditional scope's block-open flag is still set.
type UnclosedConditionalError struct{}

func (e *UnclosedConditionalError) Error() string {
	return "unclosed conditional block detected"
}

// OutputBufferAlreadyOpenError covers Open Question Q1: a second obOpen()
// without an intervening obClose(). The spec leaves behavior
// implementation-defined with a recommendation to treat it as an error;
// this implementation follows that recommendation.
type OutputBufferAlreadyOpenError struct{}

func (e *OutputBufferAlreadyOpenError) Error() string {
	return "output buffer is already open"
}

// FileReadError wraps a failure to read a file's bytes. Process renders it
// when its top-level input path cannot be read; during an include, a read
// failure makes the resolver move on to its next tier, so an unreadable
// include ends as an IncludeNotFoundError.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("could not read %s: %s", e.Path, e.Err.Error())
}

func (e *FileReadError) Unwrap() error { return e.Err }

// EvaluationError wraps a goja runtime error raised while evaluating one
// script block's rewritten text.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string { return e.Err.Error() }

func (e *EvaluationError) Unwrap() error { return e.Err }

// errorEnvelope renders a recoverable error as the in-band `<< Error: ... >>`
// string that is part of the observable output contract.
func errorEnvelope(err error) string {
	return "<< Error: " + capitalizeFirst(err.Error()) + ". >>"
}

// undefinedEnvelope renders the `<< Undefined: name >>` sentinel for a
// used-but-undeclared identifier. The rewriter (rewrite/ast.go) formats the
// same text itself when it stubs an identifier; nothing in this package
// calls this helper.
func undefinedEnvelope(name string) string {
	return "<< Undefined: " + name + " >>"
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
