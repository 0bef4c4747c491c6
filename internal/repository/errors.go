// Package repository defines error values that are reused across
// multiple repositories. These sentinels let handlers distinguish
// failure scenarios without inspecting driver errors: ErrNameExists
// maps to HTTP 409, ErrValidation to 400, the various *NotFound
// sentinels to 404.
package repository

import (
	"errors"
	"strings"
)

// ErrNameExists is returned when inserting a category or streaming
// service whose unique name is already taken. Handlers should
// translate this into an HTTP 409 response.
var ErrNameExists = errors.New("name already exists")

// ErrValidation is returned when a write is rejected before reaching
// the database, e.g. an empty movie title or a rating outside the
// allowed range. Handlers should translate this into an HTTP 400
// response.
var ErrValidation = errors.New("validation failed")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062). The driver exposes no typed error for this, so we
// match on the error text.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
