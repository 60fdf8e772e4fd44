package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/port"
)

type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetSeatInventory(ctx context.Context, serviceID int64, carType domain.CarType) (*domain.SeatInventory, error) {
	var inv domain.SeatInventory
	err := m.db.GetContext(ctx, &inv, `
		SELECT id, service_id, car_type, car_count, seats_per_car, reserved_seats, version
		FROM service_cars WHERE service_id = ? AND car_type = ?`,
		serviceID, carType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query seat inventory: %w", err)
	}
	return &inv, nil
}

// ReserveSeats holds the no-oversell guarantee: the version fence and the
// capacity predicate are re-checked inside the UPDATE itself, and the ticket
// insert shares the transaction, so either both writes commit or neither
// does. Zero rows affected means a concurrent writer moved the version or the
// car filled up.
func (m *MySQLAdapter) ReserveSeats(ctx context.Context, snapshot domain.SeatInventory, quantity int) (*domain.Ticket, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE service_cars
		SET reserved_seats = reserved_seats + ?, version = version + 1
		WHERE id = ? AND version = ?
		  AND reserved_seats + ? <= car_count * seats_per_car`,
		quantity, snapshot.ID, snapshot.Version, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("update seat inventory: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, port.ErrStaleInventory
	}

	ticket := domain.Ticket{
		ServiceID: snapshot.ServiceID,
		CarType:   snapshot.CarType,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	inserted, err := tx.ExecContext(ctx, `
		INSERT INTO tickets (service_id, car_type, quantity, created_at)
		VALUES (?, ?, ?, ?)`,
		ticket.ServiceID, ticket.CarType, ticket.Quantity, ticket.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	ticket.ID, err = inserted.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("ticket id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}
	return &ticket, nil
}

func (m *MySQLAdapter) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	err := m.db.SelectContext(ctx, &tickets, `
		SELECT id, service_id, car_type, quantity, created_at
		FROM tickets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	return tickets, nil
}
