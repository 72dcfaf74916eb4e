// Copyright (c) 2026 camp-sub001 contributors.

// Package dberr bridges low-level database/sql and SQLite errors into
// [apperr.Error] values, so the generic persistence adapter and the entity
// stores never need to know which driver is underneath.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// sqliteConstraintUnique is the result code modernc.org/sqlite reports for a
// UNIQUE constraint violation (SQLITE_CONSTRAINT_UNIQUE, 2067). A PRIMARY KEY
// violation reports a different code (1555) and is not matched by it.
const sqliteConstraintUnique = 2067

// Wrap inspects a database error and turns it into a meaningful
// [apperr.Error], classifying the failure without leaking driver internals
// to the caller.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("row")
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintUnique {
		return apperr.Duplicate(fmt.Sprintf("%s: unique constraint violated", action))
	}

	return apperr.IO(fmt.Sprintf("%s failed", action), err)
}

// RowsAffected reports an [apperr.KindIntegrity] error if result reports it
// changed a different number of rows than want (typically 1 for an update
// or delete keyed by id).
func RowsAffected(result sql.Result, action string, want int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperr.IO(action+": read rows affected", err)
	}
	if n != want {
		return apperr.Integrity(
			fmt.Sprintf("%s: expected %d row(s) affected, got %d", action, want, n),
			nil,
		)
	}
	return nil
}
