package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-busline/internal/identity"
	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
)

const requestTimeout = 10 * time.Second

// Buses groups the command and query buses the HTTP layer dispatches into.
type Buses struct {
	BookTicket          pkgApp.CommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData]
	CancelReservation   pkgApp.CommandBus[pkgDomain.Command[application.CancelReservationData], application.CancelReservationData]
	CancelSeat          pkgApp.CommandBus[pkgDomain.Command[application.CancelSeatData], application.CancelSeatData]
	EditReservation     pkgApp.CommandBus[pkgDomain.Command[application.EditReservationData], application.EditReservationData]
	SetBusTime          pkgApp.CommandBus[pkgDomain.Command[application.SetBusTimeData], application.SetBusTimeData]
	CreateOverflowRoute pkgApp.CommandBus[pkgDomain.Command[application.CreateOverflowRouteData], application.CreateOverflowRouteData]
	FindTicket          pkgApp.QueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket]
	SearchByPhone       pkgApp.QueryBus[pkgDomain.Query[application.SearchByPhoneData], application.SearchByPhoneData, []domain.BookingDetail]
	SearchByDestination pkgApp.QueryBus[pkgDomain.Query[application.SearchByDestinationData], application.SearchByDestinationData, domain.DestinationSearchResult]
	ListRoutes          pkgApp.QueryBus[pkgDomain.Query[application.ListRoutesData], application.ListRoutesData, []domain.RouteView]
	Availability        pkgApp.QueryBus[pkgDomain.Query[application.AvailabilityData], application.AvailabilityData, domain.AvailabilityView]
}

// ReservationHTTPHandler exposes the reservation slice over HTTP. Every
// mutation goes through a command bus, every read through a query bus.
type ReservationHTTPHandler struct {
	buses Buses
	users *identity.Registry
}

func NewReservationHTTPHandler(buses Buses, users *identity.Registry) *ReservationHTTPHandler {
	return &ReservationHTTPHandler{buses: buses, users: users}
}

func (h *ReservationHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/tickets", h.HandleBookTicket)
	router.Get("/tickets/{routeID}/{seat}", h.HandleFindTicket)
	router.Get("/availability", h.HandleAvailability)
	router.Get("/routes", h.HandleListRoutes)
	router.Put("/routes/time", h.HandleSetBusTime)
	router.Post("/routes/{routeID}/overflow", h.HandleCreateOverflowRoute)
	router.Delete("/reservations/{phone}", h.HandleCancelReservation)
	router.Patch("/reservations/{phone}", h.HandleEditReservation)
	router.Delete("/admin/reservations", h.HandleCancelSeat)
	router.Get("/search/phone/{phone}", h.HandleSearchByPhone)
	router.Get("/search/destination/{destination}", h.HandleSearchByDestination)
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
}

func (h *ReservationHTTPHandler) HandleBookTicket(w http.ResponseWriter, r *http.Request) {
	var data application.BookTicketData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.buses.BookTicket.Dispatch(ctx, application.NewBookTicketCommand(data)); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "ticket booked", "data": data})
}

func (h *ReservationHTTPHandler) HandleFindTicket(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.Atoi(chi.URLParam(r, "routeID"))
	if err != nil {
		handleError(w, "invalid route id", http.StatusBadRequest)
		return
	}
	seat, err := strconv.Atoi(chi.URLParam(r, "seat"))
	if err != nil {
		handleError(w, "invalid seat", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ticket, err := h.buses.FindTicket.Dispatch(ctx, application.NewFindTicketQuery(application.FindTicketData{
		RouteID: routeID,
		Seat:    seat,
	}))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

func (h *ReservationHTTPHandler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	destination := r.URL.Query().Get("destination")
	if source == "" || destination == "" {
		handleError(w, "source and destination are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := h.buses.Availability.Dispatch(ctx, application.NewAvailabilityQuery(application.AvailabilityData{
		Source:      source,
		Destination: destination,
	}))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ReservationHTTPHandler) HandleListRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	routes, err := h.buses.ListRoutes.Dispatch(ctx, application.NewListRoutesQuery(application.ListRoutesData{}))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, routes)
}

func (h *ReservationHTTPHandler) HandleSetBusTime(w http.ResponseWriter, r *http.Request) {
	var data application.SetBusTimeData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.buses.SetBusTime.Dispatch(ctx, application.NewSetBusTimeCommand(data)); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "departure time updated", "data": data})
}

func (h *ReservationHTTPHandler) HandleCreateOverflowRoute(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.Atoi(chi.URLParam(r, "routeID"))
	if err != nil {
		handleError(w, "invalid route id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cmd := application.NewCreateOverflowRouteCommand(application.CreateOverflowRouteData{RouteID: routeID})
	if err := h.buses.CreateOverflowRoute.Dispatch(ctx, cmd); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "overflow route created"})
}

func (h *ReservationHTTPHandler) HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cmd := application.NewCancelReservationCommand(application.CancelReservationData{Phone: phone})
	if err := h.buses.CancelReservation.Dispatch(ctx, cmd); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "reservation cancelled"})
}

func (h *ReservationHTTPHandler) HandleEditReservation(w http.ResponseWriter, r *http.Request) {
	var data application.EditReservationData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}
	data.Phone = chi.URLParam(r, "phone")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.buses.EditReservation.Dispatch(ctx, application.NewEditReservationCommand(data)); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "reservation updated"})
}

func (h *ReservationHTTPHandler) HandleCancelSeat(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	seat, err := strconv.Atoi(r.URL.Query().Get("seat"))
	if destination == "" || err != nil {
		handleError(w, "destination and seat are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cmd := application.NewCancelSeatCommand(application.CancelSeatData{Destination: destination, Seat: seat})
	if err := h.buses.CancelSeat.Dispatch(ctx, cmd); err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "reservation cancelled"})
}

func (h *ReservationHTTPHandler) HandleSearchByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	details, err := h.buses.SearchByPhone.Dispatch(ctx, application.NewSearchByPhoneQuery(application.SearchByPhoneData{Phone: phone}))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *ReservationHTTPHandler) HandleSearchByDestination(w http.ResponseWriter, r *http.Request) {
	destination := chi.URLParam(r, "destination")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query := application.NewSearchByDestinationQuery(application.SearchByDestinationData{Destination: destination})
	result, err := h.buses.SearchByDestination.Dispatch(ctx, query)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *ReservationHTTPHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.users.Register(r.Context(), creds.Username, creds.Password); err != nil {
		switch {
		case errors.Is(err, identity.ErrUsernameTaken), errors.Is(err, identity.ErrUserCapacity):
			handleError(w, err.Error(), http.StatusConflict)
		default:
			handleError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "user registered"})
}

func (h *ReservationHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ok, err := h.users.Verify(r.Context(), creds.Username, creds.Password)
	if err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		handleError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "login successful"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		handleError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSeatTaken), errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrCapacityExceeded):
		handleError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidSeat), errors.Is(err, domain.ErrInvalidTime):
		handleError(w, err.Error(), http.StatusBadRequest)
	default:
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
