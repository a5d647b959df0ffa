package request

type DayHoursRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// UpdateBusinessHoursRequest maps lowercase weekday names to opening
// windows. Days left out are treated as closed.
type UpdateBusinessHoursRequest struct {
	BusinessHours map[string]DayHoursRequest `json:"businessHours" validate:"required,dive"`
}
