package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hoursRequest struct {
	Open  string `json:"opening_time" validate:"required,timeofday"`
	Close string `json:"closing_time" validate:"required,timeofday"`
	Seats int    `json:"total_seats" validate:"gte=1"`
}

type leadRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type nestedRequest struct {
	Lead leadRequest `json:"lead"`
}

func TestValidatePasses(t *testing.T) {
	assert.Nil(t, Validate(hoursRequest{Open: "10:00", Close: "21:00", Seats: 4}))
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	errs := Validate(hoursRequest{Open: "25:00", Seats: 0})

	assert.Equal(t, map[string]string{
		"opening_time": "timeofday",
		"closing_time": "required",
		"total_seats":  "gte",
	}, errs)
}

func TestValidateNestedNamespace(t *testing.T) {
	errs := Validate(nestedRequest{Lead: leadRequest{Email: "not-an-email"}})

	assert.Equal(t, map[string]string{"lead.email": "email"}, errs)
}
