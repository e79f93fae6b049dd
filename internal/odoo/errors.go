package odoo

import (
	"errors"
	"fmt"

	"github.com/kolo/xmlrpc"
)

// AuthError indicates the server rejected the credentials during Dial.
type AuthError struct {
	URL      string
	Database string
	User     string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s on %s (database %s)", e.User, e.URL, e.Database)
}

// CallError indicates a transport-level failure: the call may never have
// reached the server, or the response could not be decoded.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// ServerFault indicates the server received the call and rejected it, for
// example a validation error or missing access rights.
type ServerFault struct {
	Op      string
	Code    int
	Message string
}

func (e *ServerFault) Error() string {
	return fmt.Sprintf("%s rejected by server: %s", e.Op, e.Message)
}

// classify maps an error from the underlying XML-RPC library to the client's
// error taxonomy. An xmlrpc fault becomes a ServerFault; anything else is a
// transport failure.
func classify(op string, err error) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return &ServerFault{Op: op, Code: fault.Code, Message: fault.String}
	}
	return &CallError{Op: op, Err: err}
}
