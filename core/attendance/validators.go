package attendance

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/absensi/core"
)

var (
	statusTag  = "status"
	statusText = fmt.Sprintf("must be one of: %s", joinStatuses())
)

// InitValidators registers attendance validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

// statusValidation checks that the value is in the closed status set.
func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func joinStatuses() string {
	ss := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		ss[i] = string(s)
	}
	return strings.Join(ss, ", ")
}
