package domain

import (
	"context"
	"errors"
	"testing"

	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

func newTestService(cfg Config) *Service {
	return NewService(cfg, pkgApp.NewNopLogger())
}

func book(t *testing.T, s *Service, source, destination string, seat int, name, phone, method string) Ticket {
	t.Helper()
	ticket, err := s.BookTicket(context.Background(), BookingRequest{
		Source:      source,
		Destination: destination,
		Seat:        seat,
		Name:        name,
		Phone:       phone,
		Method:      method,
	})
	if err != nil {
		t.Fatalf("book %s seat %d: %v", destination, seat, err)
	}
	return ticket
}

func TestBookTicket(t *testing.T) {
	svc := newTestService(DefaultConfig())

	ticket := book(t, svc, "Dhaka", "Chittagong", 12, "Alice", "111", "Bkash")
	if ticket.RouteID != 0 || ticket.Seat != 12 {
		t.Fatalf("ticket = %+v, want route 0 seat 12", ticket)
	}
	if ticket.Status != "CONFIRMED" {
		t.Fatalf("ticket status %q, want CONFIRMED", ticket.Status)
	}
	if ticket.Method != "Bkash" || ticket.TotalPaid != 510.0 {
		t.Fatalf("ticket payment = %s %v, want Bkash 510", ticket.Method, ticket.TotalPaid)
	}
	if ticket.DepartureTime != "08:00" {
		t.Fatalf("first route departs at %s, want 08:00", ticket.DepartureTime)
	}

	if svc.BookedSeats() != 1 {
		t.Fatalf("BookedSeats = %d, want 1", svc.BookedSeats())
	}

	found, err := svc.PrintTicket(context.Background(), ticket.RouteID, ticket.Seat)
	if err != nil {
		t.Fatalf("print ticket: %v", err)
	}
	if found.Passenger != "Alice" {
		t.Fatalf("printed ticket for %q, want Alice", found.Passenger)
	}
}

func TestPrintTicketByDestination(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 9, "Alice", "111", "Bkash")

	ticket, err := svc.PrintTicketByDestination(context.Background(), "chittagong", 9)
	if err != nil {
		t.Fatalf("print by destination should match case-insensitively: %v", err)
	}
	if ticket.Passenger != "Alice" || ticket.Seat != 9 || ticket.Status != "CONFIRMED" {
		t.Fatalf("ticket = %+v", ticket)
	}

	if _, err := svc.PrintTicketByDestination(context.Background(), "Chittagong", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("free seat: got %v, want ErrNotFound", err)
	}
	if _, err := svc.PrintTicketByDestination(context.Background(), "Sylhet", 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown destination: got %v, want ErrNotFound", err)
	}

	if _, err := svc.CancelSeat(context.Background(), "Chittagong", 9); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.PrintTicketByDestination(context.Background(), "Chittagong", 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancelled booking: got %v, want ErrNotFound", err)
	}
}

func TestBookTicketRejectsTakenSeat(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 5, "Alice", "111", "Cash")

	before := svc.BookedSeats()
	_, err := svc.BookTicket(context.Background(), BookingRequest{
		Source: "Dhaka", Destination: "Chittagong", Seat: 5,
		Name: "Bob", Phone: "222", Method: "Cash",
	})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("booking a taken seat: got %v, want ErrSeatTaken", err)
	}
	if svc.BookedSeats() != before {
		t.Fatal("failed booking must not change state")
	}
}

func TestBookTicketRejectsInvalidSeat(t *testing.T) {
	svc := newTestService(DefaultConfig())

	for _, seat := range []int{0, -3, 41} {
		_, err := svc.BookTicket(context.Background(), BookingRequest{
			Source: "Dhaka", Destination: "Chittagong", Seat: seat,
			Name: "Alice", Phone: "111", Method: "Cash",
		})
		if !errors.Is(err, ErrInvalidSeat) {
			t.Fatalf("seat %d: got %v, want ErrInvalidSeat", seat, err)
		}
	}
}

func TestBookTicketFallsBackToCash(t *testing.T) {
	svc := newTestService(DefaultConfig())

	ticket := book(t, svc, "Dhaka", "Sylhet", 1, "Alice", "111", "Paypal")
	if ticket.Method != "Cash" || ticket.TotalPaid != 500.0 {
		t.Fatalf("fallback ticket = %s %v, want Cash 500", ticket.Method, ticket.TotalPaid)
	}
	if ticket.TransactionID != "CASH" {
		t.Fatalf("fallback transaction id %q, want CASH", ticket.TransactionID)
	}
}

func TestBookTicketUnwindsOnPaymentFailure(t *testing.T) {
	// Two booking slots total. Booking twice fills the payment ledger; after
	// a cancel the slot and seat are free again but the ledger is not, so the
	// third booking fails at the payment step and must release the seat it
	// claimed.
	cfg := DefaultConfig()
	cfg.SeatsPerRoute = 2
	cfg.MaxRoutes = 1
	svc := newTestService(cfg)

	book(t, svc, "Dhaka", "Bogra", 1, "Alice", "111", "Cash")
	ticket := book(t, svc, "Dhaka", "Bogra", 2, "Bob", "222", "Cash")

	if _, err := svc.CancelSeat(context.Background(), "Bogra", ticket.Seat); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := svc.BookTicket(context.Background(), BookingRequest{
		Source: "Dhaka", Destination: "Bogra", Seat: 2,
		Name: "Carol", Phone: "333", Method: "Cash",
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("booking with full ledger: got %v, want ErrCapacityExceeded", err)
	}

	view, err := svc.Availability(context.Background(), "Dhaka", "Bogra")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if view.AvailableCount != 1 {
		t.Fatalf("seat was not released after the failed booking: %+v", view)
	}
	if svc.BookedSeats() != 1 {
		t.Fatalf("BookedSeats = %d, want 1", svc.BookedSeats())
	}
}

func TestCancelByPhone(t *testing.T) {
	svc := newTestService(DefaultConfig())
	ticket := book(t, svc, "Dhaka", "Chittagong", 7, "Alice", "111", "Cash")

	detail, err := svc.CancelByPhone(context.Background(), "111")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if detail.Seat != ticket.Seat || detail.RouteID != ticket.RouteID {
		t.Fatalf("cancelled %+v, want seat %d on route %d", detail, ticket.Seat, ticket.RouteID)
	}
	if svc.BookedSeats() != 0 {
		t.Fatalf("BookedSeats = %d after cancel, want 0", svc.BookedSeats())
	}

	// The booking is gone, so a second cancel finds nothing.
	if _, err := svc.CancelByPhone(context.Background(), "111"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second cancel: got %v, want ErrNotFound", err)
	}

	// The seat is bookable again.
	book(t, svc, "Dhaka", "Chittagong", 7, "Bob", "222", "Cash")
}

func TestCancelSeat(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 3, "Alice", "111", "Cash")

	if _, err := svc.CancelSeat(context.Background(), "chittagong", 3); err != nil {
		t.Fatalf("cancel by destination should match case-insensitively: %v", err)
	}
	if _, err := svc.CancelSeat(context.Background(), "Chittagong", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancelling a free seat: got %v, want ErrNotFound", err)
	}
}

func TestEditReservation(t *testing.T) {
	svc := newTestService(DefaultConfig())
	ticket := book(t, svc, "Dhaka", "Chittagong", 4, "Alice", "111", "Cash")

	detail, err := svc.EditReservation(context.Background(), "111", "Alicia", "999")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if detail.Name != "Alicia" || detail.Phone != "999" {
		t.Fatalf("edited detail = %+v", detail)
	}
	if detail.Seat != ticket.Seat {
		t.Fatal("edit must not move the seat")
	}

	if _, err := svc.EditReservation(context.Background(), "111", "X", "Y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("edit by the old phone: got %v, want ErrNotFound", err)
	}
}

func TestSearchByPhone(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 1, "Alice", "111", "Bkash")
	book(t, svc, "Dhaka", "Sylhet", 2, "Alice", "111", "Cash")

	details, err := svc.SearchByPhone(context.Background(), "111")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("found %d bookings, want 2", len(details))
	}
	if details[0].Payment == nil || details[0].Payment.Method != "Bkash" {
		t.Fatalf("first detail payment = %+v, want Bkash", details[0].Payment)
	}

	empty, err := svc.SearchByPhone(context.Background(), "404")
	if err != nil || len(empty) != 0 {
		t.Fatalf("unknown phone = (%v, %v), want empty result", empty, err)
	}
}

func TestSearchByDestination(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 1, "Alice", "111", "Cash")
	book(t, svc, "Dhaka", "Cumilla", 1, "Carol", "333", "Cash")
	book(t, svc, "Dhaka", "Chandpur", 2, "Bob", "222", "Cash")

	result, err := svc.SearchByDestination(context.Background(), "chittagong")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !result.ExactMatch || len(result.Passengers) != 1 || result.Passengers[0].Name != "Alice" {
		t.Fatalf("result = %+v, want exact match with Alice", result)
	}

	// A partial input gets prefix hints instead of passengers, in discovery
	// order, skipping destinations that do not start with it.
	hinted, err := svc.SearchByDestination(context.Background(), "Ch")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hinted.ExactMatch {
		t.Fatal("partial input must not be an exact match")
	}
	if len(hinted.Hints) != 2 || hinted.Hints[0] != "Chittagong" || hinted.Hints[1] != "Chandpur" {
		t.Fatalf("hints = %v, want [Chittagong Chandpur]", hinted.Hints)
	}

	// When nothing starts with the input, every destination is offered.
	fallback, err := svc.SearchByDestination(context.Background(), "Z")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(fallback.Hints) != 3 {
		t.Fatalf("fallback hints = %v, want the full destination list", fallback.Hints)
	}
}

func TestDestinationHints(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 1, "Alice", "111", "Cash")
	book(t, svc, "Dhaka", "Sylhet", 1, "Bob", "222", "Cash")

	hints, fallback := svc.DestinationHints(context.Background(), "sYl")
	if fallback || len(hints) != 1 || hints[0] != "Sylhet" {
		t.Fatalf("hints = (%v, %v), want [Sylhet] without fallback", hints, fallback)
	}

	hints, fallback = svc.DestinationHints(context.Background(), "Z")
	if !fallback || len(hints) != 2 {
		t.Fatalf("hints = (%v, %v), want full list with fallback", hints, fallback)
	}
}

func TestSetBusTime(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 1, "Alice", "111", "Cash")

	if err := svc.SetBusTime(context.Background(), "DHAKA", "CHITTAGONG", "15:30"); err != nil {
		t.Fatalf("set time: %v", err)
	}
	routes := svc.ListRoutes(context.Background())
	if len(routes) != 1 || routes[0].DepartureTime != "15:30" {
		t.Fatalf("routes = %+v, want departure 15:30", routes)
	}

	// Unlike booking, setting a time never creates the route.
	err := svc.SetBusTime(context.Background(), "Dhaka", "Nowhere", "10:00")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("set time on missing route: got %v, want ErrNotFound", err)
	}
	if len(svc.ListRoutes(context.Background())) != 1 {
		t.Fatal("SetBusTime must not create routes")
	}
}

func TestAvailabilityAndOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeatsPerRoute = 2
	svc := newTestService(cfg)

	view, err := svc.Availability(context.Background(), "Dhaka", "Barisal")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !view.Created || view.AvailableCount != 2 || view.Full {
		t.Fatalf("fresh route availability = %+v", view)
	}

	book(t, svc, "Dhaka", "Barisal", 1, "Alice", "111", "Cash")
	book(t, svc, "Dhaka", "Barisal", 2, "Bob", "222", "Cash")

	view, err = svc.Availability(context.Background(), "Dhaka", "Barisal")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !view.Full || view.AvailableCount != 0 || len(view.AvailableSeats) != 0 {
		t.Fatalf("full route availability = %+v", view)
	}

	overflow, err := svc.CreateOverflowRoute(context.Background(), view.Route.ID)
	if err != nil {
		t.Fatalf("overflow: %v", err)
	}
	if overflow.ID == view.Route.ID || overflow.BookedCount != 0 {
		t.Fatalf("overflow route = %+v", overflow)
	}
	if overflow.Destination != "Barisal" {
		t.Fatalf("overflow destination = %s, want Barisal", overflow.Destination)
	}
}

func TestListingsAndDetails(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 1, "Alice", "111", "Bkash")
	book(t, svc, "Dhaka", "Sylhet", 2, "Bob", "222", "Cash")

	summaries := svc.ListBookings(context.Background())
	if len(summaries) != 2 {
		t.Fatalf("ListBookings returned %d, want 2", len(summaries))
	}
	if summaries[0].Destination != "Chittagong" || summaries[1].Destination != "Sylhet" {
		t.Fatalf("summaries = %+v", summaries)
	}

	details := svc.PassengerDetails(context.Background())
	if len(details) != 2 {
		t.Fatalf("PassengerDetails returned %d, want 2", len(details))
	}
	if details[0].Payment == nil || details[1].Payment == nil {
		t.Fatal("details must resolve payments")
	}
}
