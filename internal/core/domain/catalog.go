package domain

import "time"

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

func (d Direction) Valid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

type CarType string

const (
	CarTypeFirst       CarType = "First"
	CarTypeReserved    CarType = "Reserved"
	CarTypeNonReserved CarType = "Non-reserved"
	CarTypeQuiet       CarType = "Quiet"
	CarTypeCatering    CarType = "Catering"
)

func (c CarType) Valid() bool {
	switch c {
	case CarTypeFirst, CarTypeReserved, CarTypeNonReserved, CarTypeQuiet, CarTypeCatering:
		return true
	}
	return false
}

type Line struct {
	ID     int64  `db:"id" json:"id"`
	NameTH string `db:"name_th" json:"name_th"`
	NameEN string `db:"name_en" json:"name_en"`
}

type Station struct {
	ID     int64  `db:"id" json:"id"`
	NameTH string `db:"name_th" json:"name_th"`
	NameEN string `db:"name_en" json:"name_en"`
}

type Service struct {
	ID            int64     `db:"id" json:"id"`
	LineID        int64     `db:"line_id" json:"line_id"`
	Code          string    `db:"code" json:"code"`
	Origin        string    `db:"origin" json:"origin"`
	Direction     Direction `db:"direction" json:"direction"`
	DepartureTime time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time" json:"arrival_time"`
}

type ServiceStop struct {
	ID        int64 `db:"id" json:"id"`
	ServiceID int64 `db:"service_id" json:"service_id"`
	StationID int64 `db:"station_id" json:"station_id"`
	StopOrder int   `db:"stop_order" json:"stop_order"`
}

// ServiceStopDetail is a stop joined with its station, in running order.
type ServiceStopDetail struct {
	Order   int     `json:"order"`
	Station Station `json:"station"`
}

// ServiceDetail is a service with its full stop sequence and car inventory.
type ServiceDetail struct {
	Service
	Stops []ServiceStopDetail `json:"stops"`
	Cars  []SeatInventory     `json:"cars"`
}

// ServiceDraft is the input for creating a new scheduled service. Departure
// and arrival may be nil, in which case the schedule is derived from the
// service code.
type ServiceDraft struct {
	LineID         int64
	Code           string
	Origin         string
	Direction      Direction
	StopStationIDs []int64
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
}
