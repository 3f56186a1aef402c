// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// symbolRegex matches exchange tickers such as RELIANCE.NS, M&M.NS or ^NSEI.
var symbolRegex = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.&_-]{0,29}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("symbol", validateSymbol)
	_ = v.RegisterValidation("update_type", validateUpdateType)
	_ = v.RegisterValidation("decimal", validateDecimal)
	_ = v.RegisterValidation("decimal_positive", validateDecimalPositive)
}

// validateISO4217 accepts the upper-case currency codes go-money can format.
func validateISO4217(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return code == strings.ToUpper(code) && money.GetCurrency(code) != nil
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}

func validateUpdateType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weight", "quantity":
		return true
	}
	return false
}

// validateDecimal accepts any decimal number written as a string or json.Number.
func validateDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func validateDecimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}
