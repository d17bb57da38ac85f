package repository

import (
	"errors"
	"fmt"

	"github.com/corebank/ledger/pkg/domain/common"
	"gorm.io/gorm"
)

// mapStoreError converts GORM errors to domain errors so that database
// concerns never leak past this layer. notFound names the domain flavor of a
// missing record.
func mapStoreError(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", common.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
}
