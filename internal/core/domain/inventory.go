package domain

// SeatInventory is the seat-capacity counter for one (service, car type)
// pair. It is mutated only through the booking service's conditional update;
// ReservedSeats never decreases.
type SeatInventory struct {
	ID            int64   `db:"id"`
	ServiceID     int64   `db:"service_id"`
	CarType       CarType `db:"car_type"`
	CarCount      int     `db:"car_count"`
	SeatsPerCar   int     `db:"seats_per_car"`
	ReservedSeats int     `db:"reserved_seats"`
	Version       int     `db:"version"` // optimistic locking
}

func (s SeatInventory) TotalSeats() int {
	return s.CarCount * s.SeatsPerCar
}

func (s SeatInventory) AvailableSeats() int {
	return s.TotalSeats() - s.ReservedSeats
}

// CarLayout describes one car-type block attached to a new service.
type CarLayout struct {
	CarType     CarType
	CarCount    int
	SeatsPerCar int
}

// DefaultCarLayout is the standard consist attached to every new service.
func DefaultCarLayout() []CarLayout {
	return []CarLayout{
		{CarTypeFirst, 1, 40},
		{CarTypeReserved, 2, 64},
		{CarTypeNonReserved, 2, 72},
		{CarTypeQuiet, 1, 36},
		{CarTypeCatering, 1, 0},
	}
}
