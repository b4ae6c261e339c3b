package persistence

import (
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto the domain taxonomy
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewStorageError(op, err)
}
