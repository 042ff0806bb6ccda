package hdlsim

import (
	"errors"
	"fmt"
)

var (
	// ErrReference matches every ReferenceError through errors.Is.
	ErrReference = errors.New("reference error")
	// ErrConnection matches every ConnectionError through errors.Is.
	ErrConnection = errors.New("connection error")
	// ErrDeclaration matches every DeclarationError through errors.Is.
	ErrDeclaration = errors.New("declaration error")
	// ErrInvalidState is returned by ParseState for an unknown state name.
	ErrInvalidState = errors.New("invalid signal state")
)

// ReferenceError reports a name that does not resolve in a component.
type ReferenceError struct {
	Component string
	Name      string
	Reason    string
}

func (e *ReferenceError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is not declared"
	}
	return fmt.Sprintf("reference error in %s: %q %s", e.Component, e.Name, reason)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ConnectionError reports an invalid connection or bundle width mismatch.
type ConnectionError struct {
	Component string
	Msg       string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error in %s: %s", e.Component, e.Msg)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// DeclarationError reports a declaration that cannot be instantiated.
type DeclarationError struct {
	Component string
	Msg       string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declaration error in %s: %s", e.Component, e.Msg)
}

func (e *DeclarationError) Is(target error) bool {
	return target == ErrDeclaration
}
