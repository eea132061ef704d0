package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"equipment-access/internal/entities"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// registerRules registers the tags used in struct tags.
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank":              isNotBlank,
		"custom_email":          isGoodEmailFormat,
		"person_role":           enumRule(entities.Role.Valid),
		"equipment_status":      enumRule(entities.EquipmentStatus.Valid),
		"equipment_kind":        enumRule(entities.EquipmentKind.Valid),
		"maintenance_frequency": enumRule(entities.MaintenanceFrequency.Valid),
		"request_type":          enumRule(entities.RequestType.Valid),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// enumRule adapts an enum's Valid method to a validator rule. Input is
// normalized the same way the entities Parse functions do.
func enumRule[E ~string](valid func(E) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(E(strings.ToUpper(strings.TrimSpace(fl.Field().String()))))
	}
}
