package domain

// BookingStatusPending is the status of every newly submitted request
const BookingStatusPending = "Pending"

// Booking consultation request as written to the remote Bookings table.
// Field names follow the remote columns.
type Booking struct {
	Name      string `json:"Name"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
	Details   string `json:"Details"`
	Timestamp string `json:"Timestamp"` // ISO-8601
	Status    string `json:"Status"`
}
