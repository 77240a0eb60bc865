package request

type CreateRequestRequest struct {
	RoomID    int64  `json:"room_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`

	Date      string `json:"date" binding:"required"`
	StartHour string `json:"start_hour" binding:"required"`
	EndHour   string `json:"end_hour" binding:"required"`
	Note      string `json:"note"`
}

type TriageRequest struct {
	Status string `json:"status" binding:"required"`
}
