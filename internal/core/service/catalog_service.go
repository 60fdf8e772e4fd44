package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/port"
)

var (
	ErrLineNotFound     = errors.New("line not found")
	ErrStationNotFound  = errors.New("station not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrTooFewStops      = errors.New("service requires at least 2 stops")
	ErrInvalidDirection = errors.New("direction must be outbound or inbound")
	ErrInvalidWindow    = errors.New("end must be after start")
)

type CatalogService struct {
	repo   port.CatalogRepository
	logger zerolog.Logger
}

func NewCatalogService(repo port.CatalogRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) Lines(ctx context.Context) ([]domain.Line, error) {
	return s.repo.ListLines(ctx)
}

func (s *CatalogService) Stations(ctx context.Context) ([]domain.Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *CatalogService) Services(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *CatalogService) SearchServices(ctx context.Context, start, end time.Time) ([]domain.Service, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	return s.repo.SearchServices(ctx, start, end)
}

// ServiceDetail assembles a service with its stop sequence (in running order,
// stations resolved) and the availability projection of every car block.
func (s *CatalogService) ServiceDetail(ctx context.Context, serviceID int64) (*domain.ServiceDetail, error) {
	svc, err := s.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	stops, err := s.repo.ListServiceStops(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load stops: %w", err)
	}

	detail := &domain.ServiceDetail{Service: *svc}
	for _, stop := range stops {
		station, err := s.repo.GetStation(ctx, stop.StationID)
		if err != nil {
			return nil, fmt.Errorf("load station %d: %w", stop.StationID, err)
		}
		if station == nil {
			return nil, ErrStationNotFound
		}
		detail.Stops = append(detail.Stops, domain.ServiceStopDetail{
			Order:   stop.StopOrder,
			Station: *station,
		})
	}

	cars, err := s.repo.ListSeatInventories(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load cars: %w", err)
	}
	detail.Cars = cars

	return detail, nil
}

// CreateService validates the draft, derives the schedule when none is given
// and persists the service with its stops and the default car set.
func (s *CatalogService) CreateService(ctx context.Context, draft domain.ServiceDraft) (*domain.Service, error) {
	if !draft.Direction.Valid() {
		return nil, ErrInvalidDirection
	}
	if len(draft.StopStationIDs) < 2 {
		return nil, ErrTooFewStops
	}

	line, err := s.repo.GetLine(ctx, draft.LineID)
	if err != nil {
		return nil, fmt.Errorf("load line: %w", err)
	}
	if line == nil {
		return nil, ErrLineNotFound
	}

	for _, stationID := range draft.StopStationIDs {
		station, err := s.repo.GetStation(ctx, stationID)
		if err != nil {
			return nil, fmt.Errorf("load station %d: %w", stationID, err)
		}
		if station == nil {
			return nil, ErrStationNotFound
		}
	}

	var dep, arr time.Time
	if draft.DepartureTime != nil && draft.ArrivalTime != nil {
		dep, arr = *draft.DepartureTime, *draft.ArrivalTime
	} else {
		dep, arr = domain.DeriveSchedule(draft.Code, time.Now())
	}

	svc := domain.Service{
		LineID:        draft.LineID,
		Code:          draft.Code,
		Origin:        draft.Origin,
		Direction:     draft.Direction,
		DepartureTime: dep,
		ArrivalTime:   arr,
	}

	created, err := s.repo.CreateService(ctx, svc, draft.StopStationIDs, domain.DefaultCarLayout())
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info().Int64("service_id", created.ID).Str("code", created.Code).Msg("service created")
	return created, nil
}
