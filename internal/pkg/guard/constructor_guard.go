// Package guard provides ConstructorGuard, a marker embedded in commands, queries
// and value objects so that zero values can be told apart from instances built by
// their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value went through its constructor.
//
// Example:
//
//	var ErrCodeIsNotConstructed = errors.New("Code must be created via NewCode")
//
//	type Code struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCode(value string) (Code, error) {
//	    if value == "" {
//	        return Code{}, errors.New("code is required")
//	    }
//	    return Code{value: value, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c Code) Validate() error {
//	    return c.guard.Validate(ErrCodeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
