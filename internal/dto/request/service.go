package request

type CreateServiceRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	Description       string  `json:"description" validate:"max=1000"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	Duration          string  `json:"duration" validate:"required"`
	MaxBookingsPerDay int     `json:"maxBookingsPerDay" validate:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description       *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price             *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Duration          *string  `json:"duration,omitempty"`
	MaxBookingsPerDay *int     `json:"maxBookingsPerDay,omitempty" validate:"omitempty,gt=0"`
	IsActive          *bool    `json:"isActive,omitempty"`
}
