package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

// BookingRequest carries everything needed to book one seat.
type BookingRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Method      string `json:"method"`
}

// Service is the reservation facade. It owns the route directory, the
// booking registry and the payment ledger, and serializes every mutation
// and read behind one coarse mutex so the core is safe to call from
// concurrent request handlers.
type Service struct {
	mu       sync.Mutex
	cfg      Config
	routes   *RouteDirectory
	bookings *BookingRegistry
	payments *PaymentLedger
	logger   pkgApp.AppLogger
}

func NewService(cfg Config, logger pkgApp.AppLogger) *Service {
	return &Service{
		cfg:      cfg,
		routes:   NewRouteDirectory(cfg),
		bookings: NewBookingRegistry(cfg),
		payments: NewPaymentLedger(cfg),
		logger:   logger,
	}
}

// Config returns the capacities and tariffs the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// BookTicket runs the whole booking flow: resolve the route (creating it on
// first lookup), validate and claim the seat, record the payment and insert
// the booking. The mutations are staged; any failure unwinds everything
// already done, so a booking is durable only when all three succeeded.
func (s *Service) BookTicket(ctx context.Context, req BookingRequest) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, created, err := s.routes.Resolve(req.Source, req.Destination)
	if err != nil {
		return Ticket{}, err
	}
	if created {
		pkgApp.LogInfo(ctx, s.logger, "route created", map[string]interface{}{
			"route_id":       route.ID,
			"source":         route.Source,
			"destination":    route.Destination,
			"departure_time": route.DepartureTime,
		})
	}

	if !route.Seats.ValidSeat(req.Seat) {
		return Ticket{}, fmt.Errorf("book seat %d: %w", req.Seat, ErrInvalidSeat)
	}
	if !route.Seats.IsFree(req.Seat) {
		return Ticket{}, fmt.Errorf("book seat %d on route %d: %w", req.Seat, route.ID, ErrSeatTaken)
	}
	if _, err := s.bookings.FirstFreeSlot(); err != nil {
		return Ticket{}, err
	}

	quote := s.payments.ComputeFee(req.Method, s.cfg.BaseFare)
	if quote.Fallback {
		pkgApp.LogInfo(ctx, s.logger, "unknown payment method, falling back to cash", map[string]interface{}{
			"method": req.Method,
		})
	}

	if err := route.Seats.Occupy(req.Seat); err != nil {
		return Ticket{}, err
	}

	payment, err := s.payments.Record(req.Method, s.cfg.BaseFare)
	if err != nil {
		if relErr := route.Seats.Release(req.Seat); relErr != nil {
			pkgApp.LogError(ctx, s.logger, "failed to unwind seat after payment failure", relErr, nil)
		}
		return Ticket{}, err
	}

	booking, err := s.bookings.Create(route.ID, req.Seat, req.Name, req.Phone, payment.ID)
	if err != nil {
		if relErr := route.Seats.Release(req.Seat); relErr != nil {
			pkgApp.LogError(ctx, s.logger, "failed to unwind seat after booking failure", relErr, nil)
		}
		return Ticket{}, err
	}

	pkgApp.LogInfo(ctx, s.logger, "ticket booked", map[string]interface{}{
		"route_id": route.ID,
		"seat":     req.Seat,
		"slot":     booking.Slot,
		"method":   payment.Method,
		"total":    payment.TotalPaid,
	})

	return s.buildTicket(booking)
}

// Availability resolves the route for (source, destination), creating it on
// first lookup as the booking flow does, and reports its free seats.
func (s *Service) Availability(ctx context.Context, source, destination string) (AvailabilityView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, created, err := s.routes.Resolve(source, destination)
	if err != nil {
		return AvailabilityView{}, err
	}

	view := AvailabilityView{
		Route:          s.routeView(route),
		Created:        created,
		AvailableCount: route.Seats.AvailableCount(),
		Full:           route.Seats.Full(),
	}
	for seat := range route.Seats.AvailableSeats() {
		view.AvailableSeats = append(view.AvailableSeats, seat)
	}
	return view, nil
}

// CreateOverflowRoute creates the "next bus" for a full route, one hour
// later. The decision to offer it belongs to the caller.
func (s *Service) CreateOverflowRoute(ctx context.Context, routeID int) (RouteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, err := s.routes.CreateOverflowRoute(routeID)
	if err != nil {
		return RouteView{}, err
	}

	pkgApp.LogInfo(ctx, s.logger, "overflow route created", map[string]interface{}{
		"route_id":       route.ID,
		"base_route_id":  routeID,
		"departure_time": route.DepartureTime,
	})
	return s.routeView(route), nil
}

// PrintTicket assembles the ticket view for the active booking holding the
// given seat on the given route.
func (s *Service) PrintTicket(ctx context.Context, routeID, seat int) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.bookings.FindBySeatAndRoute(routeID, seat)
	if !found {
		return Ticket{}, fmt.Errorf("ticket for seat %d on route %d: %w", seat, routeID, ErrNotFound)
	}
	return s.buildTicket(booking)
}

// PrintTicketByDestination assembles the ticket view for the active booking
// holding the given seat on a route to the given destination (admin flow,
// matched case-insensitively).
func (s *Service) PrintTicketByDestination(ctx context.Context, destination string, seat int) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.findBySeatAndDestination(destination, seat)
	if !found {
		return Ticket{}, fmt.Errorf("ticket for seat %d to %s: %w", seat, destination, ErrNotFound)
	}
	return s.buildTicket(booking)
}

// CancelByPhone cancels the first active booking matching the phone number
// and releases its seat. The payment record stays in the ledger.
func (s *Service) CancelByPhone(ctx context.Context, phone string) (BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.bookings.FindFirstByPhone(phone)
	if !found {
		return BookingDetail{}, fmt.Errorf("reservation for phone %s: %w", phone, ErrNotFound)
	}
	return s.cancel(ctx, booking)
}

// CancelSeat cancels the active booking holding the given seat on a route to
// the given destination (admin flow).
func (s *Service) CancelSeat(ctx context.Context, destination string, seat int) (BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.findBySeatAndDestination(destination, seat)
	if !found {
		return BookingDetail{}, fmt.Errorf("reservation for seat %d to %s: %w", seat, destination, ErrNotFound)
	}
	return s.cancel(ctx, booking)
}

// EditReservation rewrites the passenger identity of the first active
// booking matching the phone number. Seat, route and payment are untouched.
func (s *Service) EditReservation(ctx context.Context, phone, newName, newPhone string) (BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, found := s.bookings.FindFirstByPhone(phone)
	if !found {
		return BookingDetail{}, fmt.Errorf("reservation for phone %s: %w", phone, ErrNotFound)
	}
	if err := s.bookings.Edit(booking.Slot, newName, newPhone); err != nil {
		return BookingDetail{}, err
	}

	edited, err := s.bookings.Get(booking.Slot)
	if err != nil {
		return BookingDetail{}, err
	}
	pkgApp.LogInfo(ctx, s.logger, "reservation edited", map[string]interface{}{
		"slot": booking.Slot,
	})
	return s.bookingDetail(edited), nil
}

// SearchByPhone returns every active booking for the phone number with route
// and payment resolved. An empty result is not an error.
func (s *Service) SearchByPhone(ctx context.Context, phone string) ([]BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var details []BookingDetail
	for _, b := range s.bookings.FindAllByPhone(phone) {
		details = append(details, s.bookingDetail(b))
	}
	return details, nil
}

// SearchByDestination lists the passengers travelling to the destination.
// When no active route matches the input exactly, the result instead
// carries destination hints per DestinationHints.
func (s *Service) SearchByDestination(ctx context.Context, destination string) (DestinationSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := DestinationSearchResult{Destination: destination}
	result.ExactMatch = len(s.activeRoutesTo(destination)) > 0
	if !result.ExactMatch {
		result.Hints, _ = s.destinationHints(destination)
		return result, nil
	}

	for b := range s.bookings.Active() {
		route, err := s.routes.Get(b.RouteID)
		if err != nil {
			continue
		}
		if strings.EqualFold(route.Destination, destination) {
			result.Passengers = append(result.Passengers, s.bookingDetail(b))
		}
	}
	return result, nil
}

// DestinationHints returns the distinct active destinations starting with
// the partial input, case-insensitively, in discovery order. When nothing
// matches it falls back to the full distinct-destination list; the boolean
// reports that fallback.
func (s *Service) DestinationHints(ctx context.Context, partial string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destinationHints(partial)
}

// SetBusTime overwrites the departure time of an existing route. Unlike
// Resolve it never creates the route.
func (s *Service) SetBusTime(ctx context.Context, source, destination, newTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	route := s.routes.Find(source, destination)
	if route == nil {
		return fmt.Errorf("route %s to %s: %w", source, destination, ErrNotFound)
	}
	if err := s.routes.SetDepartureTime(route.ID, newTime); err != nil {
		return err
	}

	pkgApp.LogInfo(ctx, s.logger, "departure time updated", map[string]interface{}{
		"route_id":       route.ID,
		"departure_time": newTime,
	})
	return nil
}

// ListRoutes returns the active routes in creation order.
func (s *Service) ListRoutes(ctx context.Context) []RouteView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var views []RouteView
	for route := range s.routes.ListActive() {
		views = append(views, s.routeView(route))
	}
	return views
}

// ListBookings returns the compact listing of every active booking.
func (s *Service) ListBookings(ctx context.Context) []BookingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []BookingSummary
	for b := range s.bookings.Active() {
		summary := BookingSummary{Seat: b.Seat, Name: b.Name}
		if route, err := s.routes.Get(b.RouteID); err == nil {
			summary.Source = route.Source
			summary.Destination = route.Destination
			summary.DepartureTime = route.DepartureTime
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// PassengerDetails returns the detailed projection of every active booking,
// payments included.
func (s *Service) PassengerDetails(ctx context.Context) []BookingDetail {
	s.mu.Lock()
	defer s.mu.Unlock()

	var details []BookingDetail
	for b := range s.bookings.Active() {
		details = append(details, s.bookingDetail(b))
	}
	return details
}

// BookedSeats returns the number of active bookings across all routes.
func (s *Service) BookedSeats() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings.ActiveCount()
}

func (s *Service) cancel(ctx context.Context, booking Booking) (BookingDetail, error) {
	if err := s.bookings.Cancel(booking.Slot); err != nil {
		return BookingDetail{}, err
	}

	route, err := s.routes.Get(booking.RouteID)
	if err != nil {
		return BookingDetail{}, err
	}
	if err := route.Seats.Release(booking.Seat); err != nil {
		return BookingDetail{}, err
	}

	pkgApp.LogInfo(ctx, s.logger, "reservation cancelled", map[string]interface{}{
		"slot":     booking.Slot,
		"route_id": booking.RouteID,
		"seat":     booking.Seat,
	})
	return s.bookingDetail(booking), nil
}

func (s *Service) findBySeatAndDestination(destination string, seat int) (Booking, bool) {
	for b := range s.bookings.Active() {
		if b.Seat != seat {
			continue
		}
		route, err := s.routes.Get(b.RouteID)
		if err != nil {
			continue
		}
		if strings.EqualFold(route.Destination, destination) {
			return b, true
		}
	}
	return Booking{}, false
}

func (s *Service) activeRoutesTo(destination string) []*Route {
	var matched []*Route
	for route := range s.routes.ListActive() {
		if strings.EqualFold(route.Destination, destination) {
			matched = append(matched, route)
		}
	}
	return matched
}

func (s *Service) destinationHints(partial string) ([]string, bool) {
	all := s.routes.DistinctDestinations()

	var hints []string
	for _, dest := range all {
		if len(partial) <= len(dest) && strings.EqualFold(dest[:len(partial)], partial) {
			hints = append(hints, dest)
		}
	}
	if len(hints) == 0 {
		return all, true
	}
	return hints, false
}

func (s *Service) routeView(route *Route) RouteView {
	return RouteView{
		ID:            route.ID,
		Source:        route.Source,
		Destination:   route.Destination,
		DepartureTime: route.DepartureTime,
		BookedCount:   route.Seats.BookedCount(),
		Capacity:      route.Seats.Size(),
	}
}

func (s *Service) bookingDetail(b Booking) BookingDetail {
	detail := BookingDetail{
		Slot:    b.Slot,
		Seat:    b.Seat,
		Name:    b.Name,
		Phone:   b.Phone,
		RouteID: b.RouteID,
	}
	if route, err := s.routes.Get(b.RouteID); err == nil {
		detail.Source = route.Source
		detail.Destination = route.Destination
		detail.DepartureTime = route.DepartureTime
	}
	if payment, err := s.payments.Get(b.PaymentID); err == nil {
		detail.Payment = &payment
	}
	return detail
}

func (s *Service) buildTicket(b Booking) (Ticket, error) {
	route, err := s.routes.Get(b.RouteID)
	if err != nil {
		return Ticket{}, err
	}
	payment, err := s.payments.Get(b.PaymentID)
	if err != nil {
		return Ticket{}, err
	}

	return Ticket{
		RouteID:       route.ID,
		Seat:          b.Seat,
		Passenger:     b.Name,
		Phone:         b.Phone,
		Source:        route.Source,
		Destination:   route.Destination,
		DepartureTime: route.DepartureTime,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		TotalPaid:     payment.TotalPaid,
		Status:        "CONFIRMED",
	}, nil
}
