package port

import (
	"context"
	"time"

	"github.com/nicezozad/railbook/internal/core/domain"
)

// CatalogRepository covers the catalog side: lines, stations, services and
// their stop sequences. Lookups return nil (not an error) when the row does
// not exist.
type CatalogRepository interface {
	ListLines(ctx context.Context) ([]domain.Line, error)
	GetLine(ctx context.Context, id int64) (*domain.Line, error)
	GetLineByNameEN(ctx context.Context, nameEN string) (*domain.Line, error)
	CreateLine(ctx context.Context, line domain.Line) (*domain.Line, error)

	ListStations(ctx context.Context) ([]domain.Station, error)
	GetStation(ctx context.Context, id int64) (*domain.Station, error)
	GetStationByNameEN(ctx context.Context, nameEN string) (*domain.Station, error)
	CreateStation(ctx context.Context, station domain.Station) (*domain.Station, error)

	ListServices(ctx context.Context) ([]domain.Service, error)
	SearchServices(ctx context.Context, start, end time.Time) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CountServices(ctx context.Context) (int, error)

	// CreateService inserts the service, its stops in the given order and one
	// inventory row per car layout entry, all in one transaction.
	CreateService(ctx context.Context, svc domain.Service, stopStationIDs []int64, cars []domain.CarLayout) (*domain.Service, error)

	ListServiceStops(ctx context.Context, serviceID int64) ([]domain.ServiceStop, error)
	ListSeatInventories(ctx context.Context, serviceID int64) ([]domain.SeatInventory, error)
}
