package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate key")
	ErrConcurrentUpdate = errors.New("concurrent update, retry the request")
	ErrLimitReached     = errors.New("usage limit reached")
	ErrReferenced       = errors.New("record is still referenced")
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrReferenced, pgErr.ConstraintName)
		case "40001", "40P01", "55P03", "57014":
			return fmt.Errorf("%w: %s", ErrConcurrentUpdate, pgErr.Message)
		}
		return err
	}

	if isSQLiteUniqueError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	}
	if strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed") {
		return fmt.Errorf("%w: %s", ErrReferenced, err.Error())
	}
	return err
}

func isSQLiteUniqueError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "constraint failed: unique")
}
