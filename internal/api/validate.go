package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkPayload validates a request payload before it is sent. Create and
// update bodies are explicit structs with validate tags, so bad input is
// rejected without a network round trip.
func checkPayload(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}
