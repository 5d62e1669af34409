package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	studentStatusTag  = "studentstatus"
	studentStatusText = "invalid student status"
)

// InitValidators registers the school validators. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(studentStatusTag, studentStatusValidation)
	core.RegisterCustomTranslation(validate, translator, studentStatusTag, studentStatusText)
}

func studentStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range StudentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
