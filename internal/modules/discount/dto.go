package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDiscountRequest struct {
	Code          string           `json:"code" validate:"required,max=64"`
	Description   string           `json:"description"`
	Type          string           `json:"type" validate:"omitempty,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value         decimal.Decimal  `json:"value"`
	MinAmount     *decimal.Decimal `json:"min_amount,omitempty"`
	MaxUses       *int             `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	FirstTimeOnly bool             `json:"first_time_only"`
}

// UpdateDiscountRequest changes only the fields that are present.
type UpdateDiscountRequest struct {
	Code          *string          `json:"code,omitempty" validate:"omitempty,min=1,max=64"`
	Description   *string          `json:"description,omitempty"`
	Type          *string          `json:"type,omitempty" validate:"omitempty,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	MinAmount     *decimal.Decimal `json:"min_amount,omitempty"`
	MaxUses       *int             `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
	FirstTimeOnly *bool            `json:"first_time_only,omitempty"`
}

// copyable holds the update fields whose types match domain.DiscountCode after dereference.
type copyable struct {
	Description   *string
	MaxUses       *int
	StartDate     *time.Time
	EndDate       *time.Time
	IsActive      *bool
	FirstTimeOnly *bool
}

type ValidateQuery struct {
	Code   string `form:"code" validate:"required"`
	Amount string `form:"amount"`
	Email  string `form:"email" validate:"omitempty,email"`
}

// ValidateResponse reports whether a code can be redeemed. Reason and Message
// are set only when it cannot.
type ValidateResponse struct {
	Valid          bool             `json:"valid"`
	Code           string           `json:"code"`
	Type           string           `json:"type,omitempty"`
	Value          *decimal.Decimal `json:"value,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	FinalAmount    decimal.Decimal  `json:"final_amount"`
	Reason         string           `json:"reason,omitempty"`
	Message        string           `json:"message,omitempty"`
}
