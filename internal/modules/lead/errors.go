package lead

import "studiobooking/internal/pkg/apperr"

var ErrLeadNotFound = apperr.NotFound("LEAD_NOT_FOUND", "lead not found")
