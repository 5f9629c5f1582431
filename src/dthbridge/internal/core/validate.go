package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/config"
)

var _validate = validator.New()

// PopulateSection decodes the config section at key into target, starting from whatever
// defaults target already holds, and validates the result against its `validate` tags.
func PopulateSection(provider config.Provider, key string, target interface{}) error {
	if err := provider.Get(key).Populate(target); err != nil {
		return fmt.Errorf("getting config field %q: %w", key, err)
	}
	if err := _validate.Struct(target); err != nil {
		return fmt.Errorf("invalid config field %q: %w", key, err)
	}
	return nil
}
