package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"studiobooking/internal/pkg/facilitytime"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
	_ = validate.RegisterValidation("timeofday", timeOfDay)
}

// Register adds the custom rules to another engine, such as gin's binding validator.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	return v.RegisterValidation("timeofday", timeOfDay)
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	return Fields(verrs)
}

// Fields maps each failing field to the tag it failed.
func Fields(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, err := range verrs {
		out[err.Namespace()[strings.Index(err.Namespace(), ".")+1:]] = err.Tag()
	}
	return out
}

func timeOfDay(fl validator.FieldLevel) bool {
	return facilitytime.IsValidTimeOfDay(fl.Field().String())
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	}
	if name == "" {
		return f.Name
	}
	return name
}
