// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"wallet/internal/models"
	"wallet/internal/money"
	"wallet/internal/period"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the wallet validators to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("entry_type", validateEntryType)
	_ = v.RegisterValidation("period", validatePeriod)
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("signed_money", validateSignedMoney)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateEntryType(fl validator.FieldLevel) bool {
	return models.EntryType(fl.Field().String()).Valid()
}

func validatePeriod(fl validator.FieldLevel) bool {
	_, err := period.Parse(fl.Field().String())
	return err == nil
}

// validateMoney accepts a positive amount up to the ceiling. Precision is
// already enforced when the JSON number is decoded into money.Cents.
func validateMoney(fl validator.FieldLevel) bool {
	return money.ValidatePositive(money.Cents(fl.Field().Int())) == nil
}

func validateSignedMoney(fl validator.FieldLevel) bool {
	c := money.Cents(fl.Field().Int())
	return c != 0 && money.ValidatePositive(c.Abs()) == nil
}
