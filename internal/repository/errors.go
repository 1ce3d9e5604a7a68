// Package repository defines the data access layer and the sentinel errors
// shared across repositories.  Higher layers use errors.Is against these
// values to distinguish failure scenarios from driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEmailExists is returned when the users.email unique index rejects an insert.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTripNotFound is returned when no trip matches both the trip id and the
// owner.  A trip owned by someone else is reported the same way.
var ErrTripNotFound = errors.New("trip not found")

// isUniqueViolation reports whether err is a unique-key violation from
// either supported driver.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
