package eip712

import (
	"errors"
	"fmt"
)

// SchemaError reports a malformed or unsupported type definition or a message
// that does not fit its schema. It is always raised before any hashing happens.
type SchemaError struct {
	Type   string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("eip712 schema %q: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("eip712 schema %q field %q: %s", e.Type, e.Field, e.Reason)
}

// IsSchemaError reports whether err is or wraps a *SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// Error definitions
var (
	ErrInvalidSignatureLen = errors.New("signature must be 65 bytes")
	ErrAddressMismatch     = errors.New("recovered address does not match")
)
