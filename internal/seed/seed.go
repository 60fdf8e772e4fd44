package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/port"
)

// Seeder populates an empty catalog with the stock network: lines, stations,
// and scheduled services with stops and the default car set. Running it
// against a non-empty catalog is a no-op.
type Seeder struct {
	catalog port.CatalogRepository
	logger  zerolog.Logger
}

func New(catalog port.CatalogRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{catalog: catalog, logger: logger}
}

type stationPair struct {
	th, en string
}

type lineFixture struct {
	nameTH, nameEN string
	stations       []stationPair
	outbound       []string // service codes originating at the first station
	inbound        []string // service codes originating at the last station
}

var fixtures = []lineFixture{
	{
		nameTH: "สายเหนือ",
		nameEN: "Northern Line",
		stations: []stationPair{
			{"กรุงเทพ (หัวลำโพง)", "BANGKOK"},
			{"สามเสน", "Sam Sen"},
			{"ชุมทางบางซื่อ", "BANG SUE JUNCTION"},
			{"กรุงเทพอภิวัฒน์", "KRUNG THEP APHIWAT CENTRAL TERMINAL"},
			{"ดอนเมือง", "DON MUANG"},
			{"รังสิต", "RANGSIT"},
			{"บางปะอิน", "Bang Pa-in"},
			{"อยุธยา", "AYUTTHAYA"},
			{"ชุมทางบ้านภาชี", "BAN PHACHI JUNCTION"},
			{"ลพบุรี", "LOP BURI"},
			{"นครสวรรค์", "NAKHON SAWAN"},
			{"ตะพานหิน", "TAPHAN HIN"},
			{"พิจิตร", "PHICHIT"},
			{"พิษณุโลก", "PHITSANULOK"},
			{"อุตรดิตถ์", "UTTARADIT"},
			{"เด่นชัย", "DEN CHAI"},
			{"นครลำปาง", "NAKHON LAMPANG"},
			{"ลำพูน", "Lamphun"},
			{"เชียงใหม่", "CHIANG MAI"},
		},
		outbound: []string{
			"RAPID 109", "RAPID 111", "EXPRESS 51", "SPECIAL EXPRESS 13",
			"SPECIAL EXPRESS (UTTARAWITHI) 9", "ORDINARY 201", "COMMUTER 303",
		},
		inbound: []string{
			"RAPID 108", "RAPID 112", "EXPRESS 52", "SPECIAL EXPRESS 14",
			"SPECIAL EXPRESS (UTTARAWITHI) 10", "ORDINARY 202", "COMMUTER 304",
		},
	},
	{
		nameTH: "วงเวียนใหญ่–มหาชัย",
		nameEN: "Wongwian Yai–Maha Chai Line",
		stations: []stationPair{
			{"วงเวียนใหญ่", "Wongwian Yai"},
			{"ตลาดพลู", "Talat Phlu"},
			{"วุฒากาศ", "Wutthakat"},
			{"จอมทอง", "Chom Thong"},
			{"วัดสิงห์", "Wat Sing"},
			{"บางบอน", "Bang Bon"},
			{"การเคหะ", "Kan Kheha"},
			{"รางโพธิ์", "Rang Pho"},
			{"สามแยก", "Sam Yaek"},
			{"พรหมแดน", "Phrom Daen"},
			{"บางน้ำจืด", "Bang Nam Chuet"},
			{"คอกควาย", "Khok Khwai"},
			{"มหาชัย", "Maha Chai"},
		},
		outbound: []string{"LOCAL 4303", "LOCAL 4305", "LOCAL 4311", "LOCAL 4313", "LOCAL 4321"},
		inbound:  []string{"LOCAL 4302", "LOCAL 4304", "LOCAL 4312", "LOCAL 4314", "LOCAL 4322"},
	},
	{
		nameTH: "บ้านแหลม–แม่กลอง",
		nameEN: "Ban Laem–Mae Klong Line",
		stations: []stationPair{
			{"บ้านแหลม", "Ban Laem"},
			{"ท่าฉลอม", "Tha Chalom"},
			{"บ้านบ่อ", "Ban Bo"},
			{"บางโทรัด", "Bang Thorat"},
			{"บ้านกาหลง", "Ban Kalong"},
			{"บ้านนาโคก", "Ban Na Khok"},
			{"ลาดใหญ่", "Lat Yai"},
			{"แม่กลอง", "Mae Klong"},
		},
		outbound: []string{"LOCAL 4381", "LOCAL 4383", "LOCAL 4385"},
		inbound:  []string{"LOCAL 4380", "LOCAL 4382", "LOCAL 4384"},
	},
}

// Run seeds every fixture line unless services already exist.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.catalog.CountServices(ctx)
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int("services", count).Msg("catalog already populated, skipping seed")
		return nil
	}

	day := time.Now()
	for _, fixture := range fixtures {
		if err := s.seedLine(ctx, fixture, day); err != nil {
			return fmt.Errorf("seed %s: %w", fixture.nameEN, err)
		}
	}

	s.logger.Info().Int("lines", len(fixtures)).Msg("catalog seeded")
	return nil
}

func (s *Seeder) seedLine(ctx context.Context, fixture lineFixture, day time.Time) error {
	line, err := s.getOrCreateLine(ctx, fixture.nameTH, fixture.nameEN)
	if err != nil {
		return err
	}

	stationIDs := make([]int64, 0, len(fixture.stations))
	for _, pair := range fixture.stations {
		station, err := s.getOrCreateStation(ctx, pair.th, pair.en)
		if err != nil {
			return err
		}
		stationIDs = append(stationIDs, station.ID)
	}

	reversed := make([]int64, len(stationIDs))
	for i, id := range stationIDs {
		reversed[len(stationIDs)-1-i] = id
	}

	origin := fixture.stations[0].en
	terminus := fixture.stations[len(fixture.stations)-1].en

	for _, code := range fixture.outbound {
		if err := s.createService(ctx, line.ID, code, origin, domain.DirectionOutbound, stationIDs, day); err != nil {
			return err
		}
	}
	for _, code := range fixture.inbound {
		if err := s.createService(ctx, line.ID, code, terminus, domain.DirectionInbound, reversed, day); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createService(ctx context.Context, lineID int64, code, origin string, direction domain.Direction, stopIDs []int64, day time.Time) error {
	dep, arr := domain.DeriveSchedule(code, day)
	_, err := s.catalog.CreateService(ctx, domain.Service{
		LineID:        lineID,
		Code:          code,
		Origin:        origin,
		Direction:     direction,
		DepartureTime: dep,
		ArrivalTime:   arr,
	}, stopIDs, domain.DefaultCarLayout())
	if err != nil {
		return fmt.Errorf("create service %s: %w", code, err)
	}
	return nil
}

func (s *Seeder) getOrCreateLine(ctx context.Context, nameTH, nameEN string) (*domain.Line, error) {
	line, err := s.catalog.GetLineByNameEN(ctx, nameEN)
	if err != nil {
		return nil, err
	}
	if line != nil {
		return line, nil
	}
	return s.catalog.CreateLine(ctx, domain.Line{NameTH: nameTH, NameEN: nameEN})
}

func (s *Seeder) getOrCreateStation(ctx context.Context, nameTH, nameEN string) (*domain.Station, error) {
	station, err := s.catalog.GetStationByNameEN(ctx, nameEN)
	if err != nil {
		return nil, err
	}
	if station != nil {
		return station, nil
	}
	return s.catalog.CreateStation(ctx, domain.Station{NameTH: nameTH, NameEN: nameEN})
}
