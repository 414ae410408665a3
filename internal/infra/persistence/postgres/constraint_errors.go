package postgres

import (
	"strings"

	domainerrors "estate/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// listingWriteError maps a failed listing insert or update onto the persistence taxonomy.
func listingWriteError(err error, action string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrPersistence.WrapMessage("listing already exists")
	case isForeignKeyConstraintViolation(err):
		return domainerrors.ErrPersistence.WrapMessage("invalid development reference")
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return domainerrors.ErrPersistence.WrapMessage("listing is missing required information")
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to "+action+" listing")
}

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || hasSQLState(err, "23505")
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || hasSQLState(err, "23503")
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") || hasSQLState(err, "23502")
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || hasSQLState(err, "23514")
}

// hasSQLState matches the "(SQLSTATE xxxxx)" suffix pgx puts on server errors
// when the dialector does not translate them.
func hasSQLState(err error, code string) bool {
	return strings.Contains(err.Error(), "SQLSTATE "+code)
}
