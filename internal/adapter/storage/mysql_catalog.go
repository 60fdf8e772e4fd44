package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nicezozad/railbook/internal/core/domain"
)

func (m *MySQLAdapter) ListLines(ctx context.Context) ([]domain.Line, error) {
	lines := []domain.Line{}
	err := m.db.SelectContext(ctx, &lines, `SELECT id, name_th, name_en FROM train_lines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	return lines, nil
}

func (m *MySQLAdapter) GetLine(ctx context.Context, id int64) (*domain.Line, error) {
	var line domain.Line
	err := m.db.GetContext(ctx, &line, `SELECT id, name_th, name_en FROM train_lines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query line: %w", err)
	}
	return &line, nil
}

func (m *MySQLAdapter) GetLineByNameEN(ctx context.Context, nameEN string) (*domain.Line, error) {
	var line domain.Line
	err := m.db.GetContext(ctx, &line, `SELECT id, name_th, name_en FROM train_lines WHERE name_en = ?`, nameEN)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query line by name: %w", err)
	}
	return &line, nil
}

func (m *MySQLAdapter) CreateLine(ctx context.Context, line domain.Line) (*domain.Line, error) {
	result, err := m.db.ExecContext(ctx, `INSERT INTO train_lines (name_th, name_en) VALUES (?, ?)`,
		line.NameTH, line.NameEN)
	if err != nil {
		return nil, fmt.Errorf("insert line: %w", err)
	}
	line.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("line id: %w", err)
	}
	return &line, nil
}

func (m *MySQLAdapter) ListStations(ctx context.Context) ([]domain.Station, error) {
	stations := []domain.Station{}
	err := m.db.SelectContext(ctx, &stations, `SELECT id, name_th, name_en FROM stations ORDER BY name_en`)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	return stations, nil
}

func (m *MySQLAdapter) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	var station domain.Station
	err := m.db.GetContext(ctx, &station, `SELECT id, name_th, name_en FROM stations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query station: %w", err)
	}
	return &station, nil
}

func (m *MySQLAdapter) GetStationByNameEN(ctx context.Context, nameEN string) (*domain.Station, error) {
	var station domain.Station
	err := m.db.GetContext(ctx, &station, `SELECT id, name_th, name_en FROM stations WHERE name_en = ?`, nameEN)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query station by name: %w", err)
	}
	return &station, nil
}

func (m *MySQLAdapter) CreateStation(ctx context.Context, station domain.Station) (*domain.Station, error) {
	result, err := m.db.ExecContext(ctx, `INSERT INTO stations (name_th, name_en) VALUES (?, ?)`,
		station.NameTH, station.NameEN)
	if err != nil {
		return nil, fmt.Errorf("insert station: %w", err)
	}
	station.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("station id: %w", err)
	}
	return &station, nil
}

func (m *MySQLAdapter) ListServices(ctx context.Context) ([]domain.Service, error) {
	services := []domain.Service{}
	err := m.db.SelectContext(ctx, &services, `
		SELECT id, line_id, code, origin, direction, departure_time, arrival_time
		FROM services ORDER BY departure_time`)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	return services, nil
}

func (m *MySQLAdapter) SearchServices(ctx context.Context, start, end time.Time) ([]domain.Service, error) {
	services := []domain.Service{}
	err := m.db.SelectContext(ctx, &services, `
		SELECT id, line_id, code, origin, direction, departure_time, arrival_time
		FROM services
		WHERE departure_time >= ? AND departure_time <= ?
		ORDER BY departure_time`, start, end)
	if err != nil {
		return nil, fmt.Errorf("search services: %w", err)
	}
	return services, nil
}

func (m *MySQLAdapter) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var svc domain.Service
	err := m.db.GetContext(ctx, &svc, `
		SELECT id, line_id, code, origin, direction, departure_time, arrival_time
		FROM services WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query service: %w", err)
	}
	return &svc, nil
}

func (m *MySQLAdapter) CountServices(ctx context.Context) (int, error) {
	var count int
	if err := m.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}

func (m *MySQLAdapter) CreateService(ctx context.Context, svc domain.Service, stopStationIDs []int64, cars []domain.CarLayout) (*domain.Service, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO services (line_id, code, origin, direction, departure_time, arrival_time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		svc.LineID, svc.Code, svc.Origin, svc.Direction, svc.DepartureTime, svc.ArrivalTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	svc.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("service id: %w", err)
	}

	for i, stationID := range stopStationIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO service_stops (service_id, station_id, stop_order)
			VALUES (?, ?, ?)`, svc.ID, stationID, i+1)
		if err != nil {
			return nil, fmt.Errorf("insert stop %d: %w", i+1, err)
		}
	}

	for _, car := range cars {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO service_cars (service_id, car_type, car_count, seats_per_car, reserved_seats, version)
			VALUES (?, ?, ?, ?, 0, 0)`, svc.ID, car.CarType, car.CarCount, car.SeatsPerCar)
		if err != nil {
			return nil, fmt.Errorf("insert car %s: %w", car.CarType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit service: %w", err)
	}
	return &svc, nil
}

func (m *MySQLAdapter) ListServiceStops(ctx context.Context, serviceID int64) ([]domain.ServiceStop, error) {
	stops := []domain.ServiceStop{}
	err := m.db.SelectContext(ctx, &stops, `
		SELECT id, service_id, station_id, stop_order
		FROM service_stops WHERE service_id = ? ORDER BY stop_order`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	return stops, nil
}

func (m *MySQLAdapter) ListSeatInventories(ctx context.Context, serviceID int64) ([]domain.SeatInventory, error) {
	cars := []domain.SeatInventory{}
	err := m.db.SelectContext(ctx, &cars, `
		SELECT id, service_id, car_type, car_count, seats_per_car, reserved_seats, version
		FROM service_cars WHERE service_id = ? ORDER BY id`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}
	return cars, nil
}
