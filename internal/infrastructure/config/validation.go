package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across calls; the library caches struct metadata
// on first use.
var validate = validator.New()

// ValidateConfig checks every section against its validate tags and
// reports all violations in one error.
func ValidateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	lines := make([]string, 0, len(verrs))
	for _, e := range verrs {
		lines = append(lines, fmt.Sprintf("%s failed %q (value %v)", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(lines, "\n  "))
}
