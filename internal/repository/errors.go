// Package repository contains the data access layer, separated from HTTP
// handlers. This file defines sentinel errors reused across repositories so
// handlers can distinguish failure scenarios: ErrForbidden maps to HTTP 403,
// ErrConflict to 409, and the duplicate-row sentinels carry the "uniqueness
// violation is not a hard failure" semantics that profile bootstrap and
// add-to-cart rely on.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a seller advancing another seller's
// order.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a product that is part of a pending
// order.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyInCart is returned when the unique (buyer_id, product_id) index
// rejects an add-to-cart insert. Callers surface it as "already in cart",
// not as a failure.
var ErrAlreadyInCart = errors.New("product already in cart")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
