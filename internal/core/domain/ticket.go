package domain

import "time"

// Ticket is one successful booking. Tickets are append-only: created exactly
// once after a reservation commits, never mutated or deleted.
type Ticket struct {
	ID        int64     `db:"id" json:"id"`
	ServiceID int64     `db:"service_id" json:"service_id"`
	CarType   CarType   `db:"car_type" json:"car_type"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookingRequest names the booking target. RequestID is optional; when set it
// is used as an idempotency key and duplicates are rejected.
type BookingRequest struct {
	RequestID string
	ServiceID int64
	CarType   CarType
	Quantity  int
}

// TicketIssuedEvent is published after a ticket is persisted.
type TicketIssuedEvent struct {
	EventID   string    `json:"eventId"`
	TicketID  int64     `json:"ticketId"`
	ServiceID int64     `json:"serviceId"`
	CarType   CarType   `json:"carType"`
	Quantity  int       `json:"quantity"`
	IssuedAt  time.Time `json:"issuedAt"`
}
