package domain

import (
	"context"
	"testing"

	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	svc := newTestService(DefaultConfig())
	book(t, svc, "Dhaka", "Chittagong", 12, "Alice", "111", "Bkash")
	ticket := book(t, svc, "Dhaka", "Sylhet", 3, "Bob", "222", "Cash")
	if _, err := svc.CancelByPhone(context.Background(), "222"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	book(t, svc, "Dhaka", "Sylhet", 4, "Carol", "333", "Nagad")

	snap := svc.Snapshot()
	if len(snap.Routes) != 2 || len(snap.Payments) != 3 {
		t.Fatalf("snapshot has %d routes and %d payments, want 2 and 3", len(snap.Routes), len(snap.Payments))
	}
	if snap.BookedSeats != 2 {
		t.Fatalf("snapshot BookedSeats = %d, want 2", snap.BookedSeats)
	}
	// Carol reused Bob's freed slot, so only two slots were ever written.
	if len(snap.Bookings) != 2 {
		t.Fatalf("snapshot has %d booking slots, want 2", len(snap.Bookings))
	}

	restored := NewService(DefaultConfig(), pkgApp.NewNopLogger())
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.BookedSeats() != 2 {
		t.Fatalf("restored BookedSeats = %d, want 2", restored.BookedSeats())
	}

	found, err := restored.PrintTicket(context.Background(), 0, 12)
	if err != nil {
		t.Fatalf("print restored ticket: %v", err)
	}
	if found.Passenger != "Alice" || found.Method != "Bkash" {
		t.Fatalf("restored ticket = %+v", found)
	}

	// Bob's cancelled seat stays free across the round trip.
	if _, err := restored.PrintTicket(context.Background(), ticket.RouteID, ticket.Seat); err == nil {
		t.Fatal("cancelled booking must not resurface after restore")
	}
	rebooked, err := restored.BookTicket(context.Background(), BookingRequest{
		Source: "Dhaka", Destination: "Sylhet", Seat: 3,
		Name: "Dave", Phone: "444", Method: "Cash",
	})
	if err != nil {
		t.Fatalf("rebook after restore: %v", err)
	}
	if rebooked.Seat != 3 {
		t.Fatalf("rebooked seat = %d, want 3", rebooked.Seat)
	}
}

func TestRestoreEmptySnapshot(t *testing.T) {
	svc := newTestService(DefaultConfig())
	if err := svc.Restore(Snapshot{}); err != nil {
		t.Fatalf("restore empty: %v", err)
	}
	if svc.BookedSeats() != 0 || len(svc.ListRoutes(context.Background())) != 0 {
		t.Fatal("empty restore must leave a cold service")
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	svc := newTestService(DefaultConfig())

	bad := Snapshot{Routes: []RouteRecord{{ID: 5, Source: "A", Destination: "B", DepartureTime: "08:00"}}}
	if err := svc.Restore(bad); err == nil {
		t.Fatal("out-of-order route ids must be rejected")
	}

	bad = Snapshot{Bookings: []BookingRecord{{Slot: -1, RouteID: 0, Active: true}}}
	if err := svc.Restore(bad); err == nil {
		t.Fatal("out-of-range booking slots must be rejected")
	}
}
