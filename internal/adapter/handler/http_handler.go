package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/core/service"
)

type HTTPHandler struct {
	bookingService *service.BookingService
	catalogService *service.CatalogService
	logger         zerolog.Logger
}

func NewHTTPHandler(bookingService *service.BookingService, catalogService *service.CatalogService, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		bookingService: bookingService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// Register wires every route onto the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /lines", h.ListLines)
	mux.HandleFunc("GET /stations", h.ListStations)
	mux.HandleFunc("GET /services", h.ListServices)
	mux.HandleFunc("GET /services/search", h.SearchServices)
	mux.HandleFunc("GET /services/{id}", h.GetService)
	mux.HandleFunc("POST /services", h.CreateService)
	mux.HandleFunc("POST /tickets", h.BookTicket)
	mux.HandleFunc("GET /tickets", h.ListTickets)
}

type BookTicketRequest struct {
	RequestID string `json:"request_id,omitempty"`
	ServiceID int64  `json:"service_id"`
	CarType   string `json:"car_type"`
	Quantity  int    `json:"quantity"`
}

type CreateServiceRequest struct {
	LineID         int64      `json:"line_id"`
	Code           string     `json:"code"`
	Origin         string     `json:"origin"`
	Direction      string     `json:"direction"`
	StopStationIDs []int64    `json:"stop_station_ids"`
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
}

type CarOut struct {
	CarType        domain.CarType `json:"car_type"`
	CarCount       int            `json:"car_count"`
	SeatsPerCar    int            `json:"seats_per_car"`
	TotalSeats     int            `json:"total_seats"`
	ReservedSeats  int            `json:"reserved_seats"`
	AvailableSeats int            `json:"available_seats"`
}

type ServiceDetailOut struct {
	domain.Service
	Stops []domain.ServiceStopDetail `json:"stops"`
	Cars  []CarOut                   `json:"cars"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) BookTicket(w http.ResponseWriter, r *http.Request) {
	var req BookTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ServiceID <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "service_id must be positive"})
		return
	}
	carType := domain.CarType(req.CarType)
	if !carType.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown car_type"})
		return
	}

	ticket, err := h.bookingService.Book(r.Context(), domain.BookingRequest{
		RequestID: req.RequestID,
		ServiceID: req.ServiceID,
		CarType:   carType,
		Quantity:  req.Quantity,
	})
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			status, message = http.StatusBadRequest, err.Error()
		case errors.Is(err, service.ErrNotFound):
			status, message = http.StatusNotFound, err.Error()
		case errors.Is(err, service.ErrSoldOut):
			status, message = http.StatusGone, "sold out"
		case errors.Is(err, service.ErrConflict):
			status, message = http.StatusConflict, "booking conflict, retry later"
		case errors.Is(err, service.ErrDuplicateRequest):
			status, message = http.StatusConflict, "duplicate request"
		default:
			h.logger.Error().Err(err).Int64("service_id", req.ServiceID).Msg("booking failed")
		}

		writeJSON(w, status, ErrorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

func (h *HTTPHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.bookingService.ListTickets(r.Context())
	if err != nil {
		h.internalError(w, err, "list tickets failed")
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *HTTPHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.catalogService.Lines(r.Context())
	if err != nil {
		h.internalError(w, err, "list lines failed")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *HTTPHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.catalogService.Stations(r.Context())
	if err != nil {
		h.internalError(w, err, "list stations failed")
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (h *HTTPHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.Services(r.Context())
	if err != nil {
		h.internalError(w, err, "list services failed")
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *HTTPHandler) SearchServices(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "start must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "end must be RFC3339"})
		return
	}

	services, err := h.catalogService.SearchServices(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.internalError(w, err, "search services failed")
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *HTTPHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid service id"})
		return
	}

	detail, err := h.catalogService.ServiceDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		h.internalError(w, err, "service detail failed")
		return
	}

	out := ServiceDetailOut{Service: detail.Service, Stops: detail.Stops, Cars: make([]CarOut, 0, len(detail.Cars))}
	for _, car := range detail.Cars {
		out.Cars = append(out.Cars, CarOut{
			CarType:        car.CarType,
			CarCount:       car.CarCount,
			SeatsPerCar:    car.SeatsPerCar,
			TotalSeats:     car.TotalSeats(),
			ReservedSeats:  car.ReservedSeats,
			AvailableSeats: car.AvailableSeats(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.catalogService.CreateService(r.Context(), domain.ServiceDraft{
		LineID:         req.LineID,
		Code:           req.Code,
		Origin:         req.Origin,
		Direction:      domain.Direction(req.Direction),
		StopStationIDs: req.StopStationIDs,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDirection), errors.Is(err, service.ErrTooFewStops):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrLineNotFound), errors.Is(err, service.ErrStationNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			h.internalError(w, err, "create service failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
