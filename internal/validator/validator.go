// Package validator registers BudgetWise's custom tags with Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"budgetwise/internal/domain"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("currency", validateCurrency)
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("category_name", validateCategoryName)
}

func fieldString(fl validator.FieldLevel) string {
	f := fl.Field()
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	return f.String()
}

func validateCurrency(fl validator.FieldLevel) bool {
	return domain.IsSupportedCurrency(fieldString(fl))
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fieldString(fl))
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return domain.BudgetPeriod(fieldString(fl)).IsValid()
}

func validateCategoryName(fl validator.FieldLevel) bool {
	return domain.ValidateCategoryName(fieldString(fl)) == nil
}
