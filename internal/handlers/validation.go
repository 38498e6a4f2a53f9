package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the custom binding validators on gin's
// validator engine. Must run once before any route binds a request that
// uses them.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("money", validMoneyAmount)
	}
}

// validMoneyAmount accepts a decimal string strictly greater than zero.
// Scale normalization happens in the domain layer; the binding only rejects
// unparseable or non-positive values early.
func validMoneyAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
