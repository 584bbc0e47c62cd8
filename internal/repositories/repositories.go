// Package repositories defines the data access interfaces and their GORM
// implementations. Lookups scoped to an owner always combine the record id
// and the owner id in a single predicate, so a missing record and a record
// owned by someone else are indistinguishable to the caller.
package repositories

import "errors"

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting user.
var ErrNotFound = errors.New("record not found")
