package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS train_lines (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name_th VARCHAR(255) NOT NULL,
		name_en VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_train_lines_name_en (name_en)
	)`,
	`CREATE TABLE IF NOT EXISTS stations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name_th VARCHAR(255) NOT NULL,
		name_en VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_stations_name_en (name_en)
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		line_id BIGINT NOT NULL,
		code VARCHAR(64) NOT NULL,
		origin VARCHAR(255) NOT NULL,
		direction VARCHAR(16) NOT NULL,
		departure_time DATETIME NOT NULL,
		arrival_time DATETIME NOT NULL,
		KEY idx_services_line (line_id),
		KEY idx_services_departure (departure_time)
	)`,
	`CREATE TABLE IF NOT EXISTS service_stops (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		service_id BIGINT NOT NULL,
		station_id BIGINT NOT NULL,
		stop_order INT NOT NULL,
		KEY idx_service_stops_service (service_id),
		KEY idx_service_stops_station (station_id)
	)`,
	`CREATE TABLE IF NOT EXISTS service_cars (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		service_id BIGINT NOT NULL,
		car_type VARCHAR(32) NOT NULL,
		car_count INT NOT NULL,
		seats_per_car INT NOT NULL,
		reserved_seats INT NOT NULL DEFAULT 0,
		version INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_service_cars (service_id, car_type)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		service_id BIGINT NOT NULL,
		car_type VARCHAR(32) NOT NULL,
		quantity INT NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_tickets_service (service_id)
	)`,
}

// EnsureSchema creates the catalog and booking tables when missing.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
