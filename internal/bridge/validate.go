package bridge

import (
	"fmt"
	"strings"

	"github.com/desertthunder/slbridge/internal/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxIdentifierLen = 256

var validate = validator.New()

// ValidateIdentifier checks the shape of a caller identifier.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: identifier is required", shared.ErrInvalidIdentifier)
	}
	if err := validate.Var(id, fmt.Sprintf("max=%d,printascii", maxIdentifierLen)); err != nil {
		return fmt.Errorf("%w: must be at most %d printable ASCII characters", shared.ErrInvalidIdentifier, maxIdentifierLen)
	}
	if strings.ContainsRune(id, ' ') {
		return fmt.Errorf("%w: must not contain spaces", shared.ErrInvalidIdentifier)
	}
	return nil
}

// ValidateAvatar checks the optional avatar key proof. An empty key passes unless required.
func ValidateAvatar(avatar string, required bool) error {
	if avatar == "" {
		if required {
			return fmt.Errorf("%w: avatar key is required", shared.ErrInvalidProof)
		}
		return nil
	}

	if len(avatar) != 36 {
		return fmt.Errorf("%w: avatar key must be a UUID like 00000000-0000-0000-0000-000000000000", shared.ErrInvalidProof)
	}
	if _, err := uuid.Parse(avatar); err != nil {
		return fmt.Errorf("%w: avatar key must be a UUID: %v", shared.ErrInvalidProof, err)
	}
	return nil
}
