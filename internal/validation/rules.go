package validation

import (
	"math"
	"reflect"
	"strings"

	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field paths with their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "finite", isFinite)
	mustRegister(v, "month", isMonth)
	mustRegister(v, "dayofmonth", isDayOfMonth)
	mustRegister(v, "storelocation", isStoreLocation)
	mustRegister(v, "calendarview", isCalendarView)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func isMonth(fl validator.FieldLevel) bool {
	return constants.MonthNumber(fl.Field().String()) != 0
}

func isDayOfMonth(fl validator.FieldLevel) bool {
	day := fl.Field().String()
	if len(day) != 2 || day[0] < '0' || day[0] > '3' || day[1] < '0' || day[1] > '9' {
		return false
	}
	n := int(day[0]-'0')*10 + int(day[1]-'0')
	return n >= 1 && n <= 31
}

func isStoreLocation(fl validator.FieldLevel) bool {
	return constants.StoreLocation(fl.Field().String()).IsValid()
}

func isCalendarView(fl validator.FieldLevel) bool {
	return constants.CalendarView(fl.Field().String()).IsValid()
}
