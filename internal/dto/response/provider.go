package response

import (
	"marketplace-booking/internal/data/entity"
)

type BusinessHoursResponse struct {
	BusinessHours entity.BusinessHours `json:"business_hours"`
}
