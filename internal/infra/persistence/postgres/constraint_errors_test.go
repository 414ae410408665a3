package postgres

import (
	"testing"

	domainerrors "estate/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestListingWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		persistence bool
	}{
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, persistence: true},
		{name: "raw foreign key", err: errors.New(`ERROR: insert violates foreign key constraint "fk_dev" (SQLSTATE 23503)`), persistence: true},
		{name: "not null", err: errors.New(`ERROR: null value in column "title" (SQLSTATE 23502)`), persistence: true},
		{name: "translated check", err: gorm.ErrCheckConstraintViolated, persistence: true},
		{name: "connection", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := listingWriteError(tt.err, "create")

			assert.Equal(t, tt.persistence, errors.Is(err, domainerrors.ErrPersistence))

			var appErr domainerrors.AppError
			assert.True(t, errors.As(err, &appErr))
		})
	}
}
