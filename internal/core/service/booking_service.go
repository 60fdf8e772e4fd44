package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/port"
)

const (
	// maxReserveAttempts bounds the optimistic retry loop so a booking
	// terminates in a fixed number of rounds under sustained contention.
	maxReserveAttempts = 3

	// MaxTicketQuantity caps the seats a single request may take.
	MaxTicketQuantity = 50
)

var (
	ErrNotFound         = errors.New("service or car type not found")
	ErrSoldOut          = errors.New("not enough seats available")
	ErrConflict         = errors.New("booking conflict, retry later")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrInvalidQuantity  = fmt.Errorf("quantity must be between 1 and %d", MaxTicketQuantity)
)

// BookingService reserves seats against a SeatInventory row using optimistic
// concurrency: read a versioned snapshot, then issue a conditional update that
// re-checks the version and the capacity in the same atomic step. At most one
// writer wins per version, so the inventory can never be oversold.
type BookingService struct {
	repo   port.BookingRepository
	cache  port.CacheRepository
	logger zerolog.Logger
	issued chan domain.TicketIssuedEvent
}

func NewBookingService(repo port.BookingRepository, cache port.CacheRepository, logger zerolog.Logger, queueSize int) *BookingService {
	return &BookingService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		issued: make(chan domain.TicketIssuedEvent, queueSize),
	}
}

// Book reserves req.Quantity seats and appends a ticket. Failure kinds:
// ErrNotFound when the (service, car type) pair has no inventory row,
// ErrSoldOut when the latest snapshot cannot cover the quantity, and
// ErrConflict when every attempt lost the version race while capacity was
// still available. ErrConflict is safe to retry; ErrSoldOut is not.
func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (*domain.Ticket, error) {
	if req.Quantity < 1 || req.Quantity > MaxTicketQuantity {
		return nil, ErrInvalidQuantity
	}

	if req.RequestID != "" {
		ok, err := s.cache.ClaimRequest(ctx, req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	// Fast reject on the mirrored availability. Mirror values are snapshots
	// of a monotonically shrinking quantity, so the cache never reports less
	// than what the database holds: a rejection here would also fail there.
	avail, found, err := s.cache.GetAvailability(ctx, req.ServiceID, req.CarType)
	if err != nil {
		s.logger.Warn().Err(err).Int64("service_id", req.ServiceID).Msg("availability mirror unavailable, skipping gate")
	} else if found && avail < req.Quantity {
		return nil, ErrSoldOut
	}

	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		inv, err := s.repo.GetSeatInventory(ctx, req.ServiceID, req.CarType)
		if err != nil {
			return nil, fmt.Errorf("load seat inventory: %w", err)
		}
		if inv == nil {
			return nil, ErrNotFound
		}
		if inv.AvailableSeats() < req.Quantity {
			// Reserved seats never decrease, so a short snapshot is terminal:
			// retrying cannot make room appear.
			return nil, ErrSoldOut
		}

		ticket, err := s.repo.ReserveSeats(ctx, *inv, req.Quantity)
		if errors.Is(err, port.ErrStaleInventory) {
			s.logger.Debug().
				Int64("service_id", req.ServiceID).
				Str("car_type", string(req.CarType)).
				Int("attempt", attempt).
				Msg("reservation lost version race, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reserve seats: %w", err)
		}

		if err := s.cache.SetAvailability(ctx, req.ServiceID, req.CarType, inv.AvailableSeats()-req.Quantity); err != nil {
			s.logger.Warn().Err(err).Int64("service_id", req.ServiceID).Msg("failed to refresh availability mirror")
		}

		s.enqueueIssued(*ticket)
		return ticket, nil
	}

	return nil, ErrConflict
}

func (s *BookingService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.repo.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// enqueueIssued hands the ticket to the event workers. Publishing is
// fire-and-forget: a full queue drops the event rather than block a booking.
func (s *BookingService) enqueueIssued(t domain.Ticket) {
	evt := domain.TicketIssuedEvent{
		EventID:   uuid.New().String(),
		TicketID:  t.ID,
		ServiceID: t.ServiceID,
		CarType:   t.CarType,
		Quantity:  t.Quantity,
		IssuedAt:  time.Now(),
	}

	select {
	case s.issued <- evt:
	default:
		s.logger.Warn().Int64("ticket_id", t.ID).Msg("event queue full, dropping ticket.issued event")
	}
}

func (s *BookingService) Events() <-chan domain.TicketIssuedEvent {
	return s.issued
}

func (s *BookingService) Close() {
	close(s.issued)
}
