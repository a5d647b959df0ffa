package response

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
)

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}
