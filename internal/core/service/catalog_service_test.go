package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicezozad/railbook/internal/core/domain"
)

// Mock CatalogRepository
type mockCatalogRepo struct {
	lines    map[int64]domain.Line
	stations map[int64]domain.Station
	services map[int64]domain.Service
	stops    map[int64][]domain.ServiceStop
	cars     map[int64][]domain.SeatInventory
	nextID   int64
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		lines:    make(map[int64]domain.Line),
		stations: make(map[int64]domain.Station),
		services: make(map[int64]domain.Service),
		stops:    make(map[int64][]domain.ServiceStop),
		cars:     make(map[int64][]domain.SeatInventory),
	}
}

func (m *mockCatalogRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockCatalogRepo) ListLines(ctx context.Context) ([]domain.Line, error) {
	out := []domain.Line{}
	for _, l := range m.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalogRepo) GetLine(ctx context.Context, id int64) (*domain.Line, error) {
	if l, ok := m.lines[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (m *mockCatalogRepo) GetLineByNameEN(ctx context.Context, nameEN string) (*domain.Line, error) {
	for _, l := range m.lines {
		if l.NameEN == nameEN {
			return &l, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateLine(ctx context.Context, line domain.Line) (*domain.Line, error) {
	line.ID = m.id()
	m.lines[line.ID] = line
	return &line, nil
}

func (m *mockCatalogRepo) ListStations(ctx context.Context) ([]domain.Station, error) {
	out := []domain.Station{}
	for _, s := range m.stations {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEN < out[j].NameEN })
	return out, nil
}

func (m *mockCatalogRepo) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	if s, ok := m.stations[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *mockCatalogRepo) GetStationByNameEN(ctx context.Context, nameEN string) (*domain.Station, error) {
	for _, s := range m.stations {
		if s.NameEN == nameEN {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateStation(ctx context.Context, station domain.Station) (*domain.Station, error) {
	station.ID = m.id()
	m.stations[station.ID] = station
	return &station, nil
}

func (m *mockCatalogRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	out := []domain.Service{}
	for _, s := range m.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (m *mockCatalogRepo) SearchServices(ctx context.Context, start, end time.Time) ([]domain.Service, error) {
	all, _ := m.ListServices(ctx)
	out := []domain.Service{}
	for _, s := range all {
		if !s.DepartureTime.Before(start) && !s.DepartureTime.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	if s, ok := m.services[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *mockCatalogRepo) CountServices(ctx context.Context) (int, error) {
	return len(m.services), nil
}

func (m *mockCatalogRepo) CreateService(ctx context.Context, svc domain.Service, stopStationIDs []int64, cars []domain.CarLayout) (*domain.Service, error) {
	svc.ID = m.id()
	m.services[svc.ID] = svc
	for i, stationID := range stopStationIDs {
		m.stops[svc.ID] = append(m.stops[svc.ID], domain.ServiceStop{
			ID: m.id(), ServiceID: svc.ID, StationID: stationID, StopOrder: i + 1,
		})
	}
	for _, car := range cars {
		m.cars[svc.ID] = append(m.cars[svc.ID], domain.SeatInventory{
			ID: m.id(), ServiceID: svc.ID, CarType: car.CarType,
			CarCount: car.CarCount, SeatsPerCar: car.SeatsPerCar,
		})
	}
	return &svc, nil
}

func (m *mockCatalogRepo) ListServiceStops(ctx context.Context, serviceID int64) ([]domain.ServiceStop, error) {
	return m.stops[serviceID], nil
}

func (m *mockCatalogRepo) ListSeatInventories(ctx context.Context, serviceID int64) ([]domain.SeatInventory, error) {
	return m.cars[serviceID], nil
}

func setupCatalog(t *testing.T) (*mockCatalogRepo, *CatalogService, []int64) {
	t.Helper()

	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.CreateLine(ctx, domain.Line{NameTH: "สายเหนือ", NameEN: "Northern Line"})
	st1, _ := repo.CreateStation(ctx, domain.Station{NameTH: "กรุงเทพ (หัวลำโพง)", NameEN: "BANGKOK"})
	st2, _ := repo.CreateStation(ctx, domain.Station{NameTH: "อยุธยา", NameEN: "AYUTTHAYA"})
	st3, _ := repo.CreateStation(ctx, domain.Station{NameTH: "เชียงใหม่", NameEN: "CHIANG MAI"})

	return repo, svc, []int64{st1.ID, st2.ID, st3.ID}
}

func TestCreateService_Success(t *testing.T) {
	repo, svc, stationIDs := setupCatalog(t)

	created, err := svc.CreateService(context.Background(), domain.ServiceDraft{
		LineID:         1,
		Code:           "RAPID 109",
		Origin:         "BANGKOK",
		Direction:      domain.DirectionOutbound,
		StopStationIDs: stationIDs,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	stops := repo.stops[created.ID]
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}
	for i, stop := range stops {
		if stop.StopOrder != i+1 || stop.StationID != stationIDs[i] {
			t.Errorf("stop %d out of order: %+v", i, stop)
		}
	}

	cars := repo.cars[created.ID]
	if len(cars) != len(domain.DefaultCarLayout()) {
		t.Errorf("expected default car set, got %d cars", len(cars))
	}

	// No explicit schedule: derived, with departure before arrival.
	if !created.DepartureTime.Before(created.ArrivalTime) {
		t.Errorf("departure %v not before arrival %v", created.DepartureTime, created.ArrivalTime)
	}
}

func TestCreateService_ExplicitSchedule(t *testing.T) {
	_, svc, stationIDs := setupCatalog(t)

	dep := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	arr := dep.Add(4 * time.Hour)

	created, err := svc.CreateService(context.Background(), domain.ServiceDraft{
		LineID:         1,
		Code:           "EXPRESS 51",
		Origin:         "BANGKOK",
		Direction:      domain.DirectionOutbound,
		StopStationIDs: stationIDs,
		DepartureTime:  &dep,
		ArrivalTime:    &arr,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	if !created.DepartureTime.Equal(dep) || !created.ArrivalTime.Equal(arr) {
		t.Errorf("explicit schedule not kept: %v - %v", created.DepartureTime, created.ArrivalTime)
	}
}

func TestCreateService_Validation(t *testing.T) {
	_, svc, stationIDs := setupCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, domain.ServiceDraft{
		LineID: 99, Code: "X", Direction: domain.DirectionOutbound, StopStationIDs: stationIDs,
	})
	if !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got: %v", err)
	}

	_, err = svc.CreateService(ctx, domain.ServiceDraft{
		LineID: 1, Code: "X", Direction: domain.DirectionOutbound, StopStationIDs: stationIDs[:1],
	})
	if !errors.Is(err, ErrTooFewStops) {
		t.Errorf("expected ErrTooFewStops, got: %v", err)
	}

	_, err = svc.CreateService(ctx, domain.ServiceDraft{
		LineID: 1, Code: "X", Direction: domain.DirectionOutbound, StopStationIDs: []int64{stationIDs[0], 999},
	})
	if !errors.Is(err, ErrStationNotFound) {
		t.Errorf("expected ErrStationNotFound, got: %v", err)
	}

	_, err = svc.CreateService(ctx, domain.ServiceDraft{
		LineID: 1, Code: "X", Direction: "sideways", StopStationIDs: stationIDs,
	})
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got: %v", err)
	}
}

func TestServiceDetail(t *testing.T) {
	_, svc, stationIDs := setupCatalog(t)

	created, err := svc.CreateService(context.Background(), domain.ServiceDraft{
		LineID:         1,
		Code:           "ORDINARY 201",
		Origin:         "BANGKOK",
		Direction:      domain.DirectionOutbound,
		StopStationIDs: stationIDs,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	detail, err := svc.ServiceDetail(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ServiceDetail failed: %v", err)
	}

	if detail.Code != "ORDINARY 201" {
		t.Errorf("expected code ORDINARY 201, got %s", detail.Code)
	}
	if len(detail.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(detail.Stops))
	}
	if detail.Stops[0].Station.NameEN != "BANGKOK" || detail.Stops[2].Station.NameEN != "CHIANG MAI" {
		t.Errorf("stops out of order: %+v", detail.Stops)
	}
	if len(detail.Cars) != len(domain.DefaultCarLayout()) {
		t.Errorf("expected default car set, got %d cars", len(detail.Cars))
	}
}

func TestServiceDetail_NotFound(t *testing.T) {
	_, svc, _ := setupCatalog(t)

	_, err := svc.ServiceDetail(context.Background(), 12345)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got: %v", err)
	}
}

func TestSearchServices(t *testing.T) {
	_, svc, stationIDs := setupCatalog(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"A 1", "A 2", "A 3"} {
		dep := base.Add(time.Duration(i*6) * time.Hour)
		arr := dep.Add(2 * time.Hour)
		if _, err := svc.CreateService(ctx, domain.ServiceDraft{
			LineID: 1, Code: code, Origin: "BANGKOK", Direction: domain.DirectionOutbound,
			StopStationIDs: stationIDs, DepartureTime: &dep, ArrivalTime: &arr,
		}); err != nil {
			t.Fatalf("CreateService failed: %v", err)
		}
	}

	found, err := svc.SearchServices(ctx, base.Add(3*time.Hour), base.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("SearchServices failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 services in window, got %d", len(found))
	}
	if found[0].Code != "A 2" || found[1].Code != "A 3" {
		t.Errorf("unexpected search result: %+v", found)
	}

	_, err = svc.SearchServices(ctx, base, base)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got: %v", err)
	}
}
