package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nicezozad/railbook/internal/adapter/storage"
	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/core/service"
)

const (
	mysqlDSN      = "root:root@tcp(localhost:3306)/railbook?parseTime=true"
	redisAddr     = "localhost:6379"
	totalSeats    = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	db, err := sqlx.Connect("mysql", mysqlDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mysql")
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	serviceID, err := setupFixture(ctx, db, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up fixture")
	}

	redisAdapter := storage.NewRedisAdapter(rdb)
	bookingService := service.NewBookingService(mysqlAdapter, redisAdapter, log.Logger, queueSize)
	defer bookingService.Close()

	// Drain the event queue in background
	go func() {
		for range bookingService.Events() {
		}
	}()

	var successCount, soldOutCount, conflictCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := bookingService.Book(ctx, domain.BookingRequest{
				ServiceID: serviceID,
				CarType:   domain.CarTypeQuiet,
				Quantity:  1,
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, service.ErrSoldOut):
				soldOutCount.Add(1)
			case errors.Is(err, service.ErrConflict):
				conflictCount.Add(1)
			default:
				log.Error().Err(err).Msg("unexpected booking error")
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	var reserved, version int
	db.QueryRowContext(ctx, `SELECT reserved_seats, version FROM service_cars WHERE service_id = ? AND car_type = ?`,
		serviceID, domain.CarTypeQuiet).Scan(&reserved, &version)

	var ticketCount int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE service_id = ?`, serviceID).Scan(&ticketCount)

	success := successCount.Load()

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Total Seats:      %d\n", totalSeats)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", soldOutCount.Load())
	fmt.Printf("Conflict:         %d\n", conflictCount.Load())
	fmt.Printf("Reserved Seats:   %d\n", reserved)
	fmt.Printf("Version:          %d\n", version)
	fmt.Printf("Tickets Created:  %d\n", ticketCount)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=======================================")

	failed := false
	if reserved > totalSeats {
		fmt.Printf("FAIL: oversold, reserved %d of %d\n", reserved, totalSeats)
		failed = true
	}
	if int32(reserved) != success || int32(version) != success || int32(ticketCount) != success {
		fmt.Printf("FAIL: expected reserved/version/tickets == %d successes, got %d/%d/%d\n",
			success, reserved, version, ticketCount)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println("PASS: no oversell, one ticket and one version bump per success")
}

// setupFixture creates a throwaway line/service with a single Quiet car block
// of totalSeats seats and clears any previous run's rows and cache keys.
func setupFixture(ctx context.Context, db *sqlx.DB, rdb *redis.Client) (int64, error) {
	var serviceID int64
	err := db.QueryRowContext(ctx, `SELECT id FROM services WHERE code = 'LOADTEST 1'`).Scan(&serviceID)
	if err == nil {
		db.ExecContext(ctx, `DELETE FROM tickets WHERE service_id = ?`, serviceID)
		db.ExecContext(ctx, `UPDATE service_cars SET reserved_seats = 0, version = 0 WHERE service_id = ?`, serviceID)
	} else {
		res, err := db.ExecContext(ctx, `
			INSERT INTO services (line_id, code, origin, direction, departure_time, arrival_time)
			VALUES (0, 'LOADTEST 1', 'BANGKOK', 'outbound', NOW(), NOW())`)
		if err != nil {
			return 0, err
		}
		serviceID, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO service_cars (service_id, car_type, car_count, seats_per_car, reserved_seats, version)
			VALUES (?, ?, 1, ?, 0, 0)`, serviceID, domain.CarTypeQuiet, totalSeats)
		if err != nil {
			return 0, err
		}
	}

	rdb.Del(ctx, fmt.Sprintf("avail:%d:%s", serviceID, domain.CarTypeQuiet))
	return serviceID, nil
}
