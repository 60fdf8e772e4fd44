package port

import (
	"context"
	"errors"

	"github.com/nicezozad/railbook/internal/core/domain"
)

// ErrStaleInventory means the conditional reserve affected no row: either the
// version fence failed against a concurrent writer, or the capacity predicate
// no longer held at write time. The two causes are indistinguishable at the
// storage layer; the booking service re-reads to tell them apart.
var ErrStaleInventory = errors.New("stale inventory snapshot")

type BookingRepository interface {
	// GetSeatInventory returns the current inventory row for the
	// service/car-type pair, or nil when no such pair exists. The read is a
	// single consistent row snapshot, never torn.
	GetSeatInventory(ctx context.Context, serviceID int64, carType domain.CarType) (*domain.SeatInventory, error)

	// ReserveSeats applies (reserved_seats += quantity, version += 1) and
	// appends the ticket in one transaction. The mutation succeeds only if
	// the stored version still equals the snapshot's and capacity still
	// holds, both re-checked atomically inside the update; otherwise
	// ErrStaleInventory is returned and nothing is persisted.
	ReserveSeats(ctx context.Context, snapshot domain.SeatInventory, quantity int) (*domain.Ticket, error)

	// ListTickets returns every issued ticket.
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}
