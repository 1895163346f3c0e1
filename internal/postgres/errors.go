// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConnTimeout = errors.New("connection timeout")
	ErrNoRows      = errors.New("no rows")
)

type ErrRelationDoesNotExist struct {
	Details string
}

func (e *ErrRelationDoesNotExist) Error() string {
	return fmt.Sprintf("relation does not exist: %s", e.Details)
}

type ErrPermissionDenied struct {
	Details string
}

func (e *ErrPermissionDenied) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Details)
}

type ErrSyntax struct {
	Details string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("syntax error: %s", e.Details)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	if pgconn.Timeout(err) {
		return ErrConnTimeout
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable:
			return &ErrRelationDoesNotExist{Details: pgErr.Message}
		case pgErr.Code == pgerrcode.InsufficientPrivilege:
			return &ErrPermissionDenied{Details: pgErr.Message}
		case pgErr.Code == pgerrcode.SyntaxError:
			return &ErrSyntax{Details: pgErr.Message}
		}
	}

	return err
}
