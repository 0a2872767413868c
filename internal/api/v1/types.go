package apiv1

// Pong is the ping response
type Pong struct {
	Ping string `json:"ping"`
}

// AvailableTimes lists bookable start times of one date
type AvailableTimes struct {
	BusinessID     uint     `json:"business_id"`
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
}

// UnreadNotifications is the badge counter of the signed-in owner
type UnreadNotifications struct {
	Unread int64 `json:"unread"`
}

// Error is the JSON error body
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
