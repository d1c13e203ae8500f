package specs

import "fmt"

// ErrorKind represents the different ways building a specification can fail
type ErrorKind int

const (
	KindEmptyDefinition ErrorKind = iota
	KindUnparsableDefinition
	KindInvalidDecorator
	KindInvalidParameter
	KindInvalidLiteral
	KindDuplicateParameterName
	KindMisplacedVariadic
	KindInvalidReturnType
	KindUnbalancedDelimiter
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindEmptyDefinition:
		return "EmptyDefinitionError"
	case KindUnparsableDefinition:
		return "UnparsableDefinitionError"
	case KindInvalidDecorator:
		return "InvalidDecoratorError"
	case KindInvalidParameter:
		return "InvalidParameterError"
	case KindInvalidLiteral:
		return "InvalidLiteralError"
	case KindDuplicateParameterName:
		return "DuplicateParameterNameError"
	case KindMisplacedVariadic:
		return "MisplacedVariadicError"
	case KindInvalidReturnType:
		return "InvalidReturnTypeError"
	case KindUnbalancedDelimiter:
		return "UnbalancedDelimiterError"
	default:
		return "UnknownError"
	}
}

// Error is returned by every builder in this module. Message is the
// human-readable text callers surface verbatim; Text is the offending
// input fragment (definition, token, name or literal).
type Error struct {
	Kind    ErrorKind
	Message string
	Text    string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying error, if any
func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrEmptyDefinition        = &Error{Kind: KindEmptyDefinition, Message: KindEmptyDefinition.String()}
	ErrUnparsableDefinition   = &Error{Kind: KindUnparsableDefinition, Message: KindUnparsableDefinition.String()}
	ErrInvalidDecorator       = &Error{Kind: KindInvalidDecorator, Message: KindInvalidDecorator.String()}
	ErrInvalidParameter       = &Error{Kind: KindInvalidParameter, Message: KindInvalidParameter.String()}
	ErrInvalidLiteral         = &Error{Kind: KindInvalidLiteral, Message: KindInvalidLiteral.String()}
	ErrDuplicateParameterName = &Error{Kind: KindDuplicateParameterName, Message: KindDuplicateParameterName.String()}
	ErrMisplacedVariadic      = &Error{Kind: KindMisplacedVariadic, Message: KindMisplacedVariadic.String()}
	ErrInvalidReturnType      = &Error{Kind: KindInvalidReturnType, Message: KindInvalidReturnType.String()}
	ErrUnbalancedDelimiter    = &Error{Kind: KindUnbalancedDelimiter, Message: KindUnbalancedDelimiter.String()}
)

// NewError creates an error of the given kind about text
func NewError(kind ErrorKind, text string) *Error {
	return &Error{
		Kind:    kind,
		Message: message(kind, text),
		Text:    text,
	}
}

// Wrap creates an error of the given kind about text, caused by cause
func Wrap(kind ErrorKind, text string, cause error) *Error {
	err := NewError(kind, text)
	err.Cause = cause
	return err
}

// message produces the caller-facing wording; it is relied upon by
// registration layers, so keep it stable.
func message(kind ErrorKind, text string) string {
	switch kind {
	case KindEmptyDefinition:
		return "Definition must be non-empty string"
	case KindUnparsableDefinition:
		return fmt.Sprintf("Unable to parse definition: '%s'", text)
	case KindInvalidDecorator:
		return fmt.Sprintf("Invalid decorator definition: '%s'", text)
	case KindInvalidParameter:
		return fmt.Sprintf("Invalid parameter definition: '%s'", text)
	case KindInvalidLiteral:
		return fmt.Sprintf("Invalid literal: '%s'", text)
	case KindDuplicateParameterName:
		return fmt.Sprintf("Duplicate parameter name: '%s'", text)
	case KindMisplacedVariadic:
		return fmt.Sprintf("Variadic parameter should be the last one: '%s'", text)
	case KindInvalidReturnType:
		return fmt.Sprintf("Invalid return type: '%s'", text)
	case KindUnbalancedDelimiter:
		return fmt.Sprintf("Unbalanced delimiter in: '%s'", text)
	default:
		return fmt.Sprintf("%s: '%s'", kind, text)
	}
}
