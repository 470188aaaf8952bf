package catalog

import "studiobooking/internal/pkg/apperr"

var (
	ErrStudioNotFound  = apperr.NotFound("STUDIO_NOT_FOUND", "studio not found")
	ErrPackageNotFound = apperr.NotFound("PACKAGE_NOT_FOUND", "package not found")
	ErrServiceNotFound = apperr.NotFound("ADDITIONAL_SERVICE_NOT_FOUND", "additional service not found")

	ErrInvalidHours    = apperr.Validation("INVALID_HOURS", "opening time must be before closing time")
	ErrNegativePrice   = apperr.Validation("INVALID_PRICE", "price must not be negative")
	ErrDuplicateStudio = apperr.Conflict("STUDIO_EXISTS", "a studio with this name already exists")
)
