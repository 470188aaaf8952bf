package availability

import "studiobooking/internal/pkg/apperr"

var (
	ErrStudioNotFound = apperr.NotFound("STUDIO_NOT_FOUND", "studio not found")
	ErrInvalidView    = apperr.Validation("INVALID_VIEW", "view must be month or day")
	ErrInvalidDate    = apperr.Validation("INVALID_DATE", "date must be YYYY-MM-DD or YYYY-MM")
	ErrInvalidHours   = apperr.Validation("INVALID_STUDIO_HOURS", "studio operating hours are invalid")
)
