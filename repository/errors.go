package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced doctor, patient or visit does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAssociationExists is returned when a doctor and patient are already associated.
	ErrAssociationExists = errors.New("association already exists")
	// ErrAssociationNotFound is returned when removing a pair that is not associated.
	ErrAssociationNotFound = fmt.Errorf("association %w", ErrNotFound)
	// ErrInvalidInput is returned for values the store must not accept, such as blank names.
	ErrInvalidInput = errors.New("invalid input")
)

func notFound(kind string, id uint) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// translateFirst maps gorm's not-found error on a First lookup to ErrNotFound.
func translateFirst(err error, kind string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return fmt.Errorf("load %s %d: %w", kind, id, err)
}

// IsNotFound reports whether err means a referenced record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
