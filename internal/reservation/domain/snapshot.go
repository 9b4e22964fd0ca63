package domain

import (
	"context"
	"fmt"
)

// RouteRecord is the persisted shape of one route.
type RouteRecord struct {
	ID            int    `json:"id" gorm:"primaryKey"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	OccupiedSeats []int  `json:"occupiedSeats" gorm:"serializer:json"`
	BookedCount   int    `json:"bookedCount"`
	Active        bool   `json:"active"`
}

// BookingRecord is the persisted shape of one ever-used booking slot. Slot
// indexes are preserved so first-fit allocation order survives a reload.
type BookingRecord struct {
	Slot      int    `json:"slot" gorm:"primaryKey"`
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	RouteID   int    `json:"routeId"`
	PaymentID int    `json:"paymentId"`
	Active    bool   `json:"active"`
}

// PaymentRecord is the persisted shape of one ledger entry.
type PaymentRecord struct {
	ID            int     `json:"id" gorm:"primaryKey"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	FeePercent    float64 `json:"feePercent"`
	TotalPaid     float64 `json:"totalPaid"`
	Status        string  `json:"status"`
}

// UserRecord is the persisted shape of one user account. Only the bcrypt
// hash of the password is ever stored.
type UserRecord struct {
	Username     string `json:"username" gorm:"primaryKey"`
	PasswordHash string `json:"passwordHash"`
	Active       bool   `json:"active"`
}

// Snapshot is the full persisted state of the reservation ledger: every
// table plus the global booked-seats counter.
type Snapshot struct {
	Routes      []RouteRecord   `json:"routes"`
	Bookings    []BookingRecord `json:"bookings"`
	Payments    []PaymentRecord `json:"payments"`
	Users       []UserRecord    `json:"users"`
	BookedSeats int             `json:"bookedSeats"`
}

// Store is the opaque persistence boundary: load everything at startup,
// save everything on demand. Implementations decide the byte layout.
type Store interface {
	LoadAll(ctx context.Context) (Snapshot, error)
	SaveAll(ctx context.Context, snapshot Snapshot) error
}

// Snapshot captures the current state of every table. Users are managed by
// the identity registry and merged in by the caller.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{BookedSeats: s.bookings.ActiveCount()}

	for _, route := range s.routes.routes {
		snap.Routes = append(snap.Routes, RouteRecord{
			ID:            route.ID,
			Source:        route.Source,
			Destination:   route.Destination,
			DepartureTime: route.DepartureTime,
			OccupiedSeats: route.Seats.snapshotSeats(),
			BookedCount:   route.Seats.BookedCount(),
			Active:        route.Active,
		})
	}

	for _, b := range s.bookings.slots {
		if b.RouteID < 0 {
			continue
		}
		snap.Bookings = append(snap.Bookings, BookingRecord{
			Slot:      b.Slot,
			Seat:      b.Seat,
			Name:      b.Name,
			Phone:     b.Phone,
			RouteID:   b.RouteID,
			PaymentID: b.PaymentID,
			Active:    b.Active,
		})
	}

	for _, p := range s.payments.payments {
		snap.Payments = append(snap.Payments, PaymentRecord(p))
	}

	return snap
}

// Restore replaces the in-memory tables with the snapshot contents. It is
// meant for startup, before the service begins taking requests.
func (s *Service) Restore(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	routes := NewRouteDirectory(s.cfg)
	for _, rec := range snapshot.Routes {
		route, err := routes.create(rec.Source, rec.Destination, rec.DepartureTime)
		if err != nil {
			return fmt.Errorf("restore route %d: %w", rec.ID, err)
		}
		if route.ID != rec.ID {
			return fmt.Errorf("restore route %d: snapshot out of order", rec.ID)
		}
		route.Active = rec.Active
		if err := route.Seats.restoreSeats(rec.OccupiedSeats); err != nil {
			return fmt.Errorf("restore route %d seats: %w", rec.ID, err)
		}
	}

	bookings := NewBookingRegistry(s.cfg)
	for _, rec := range snapshot.Bookings {
		if rec.Slot < 0 || rec.Slot >= len(bookings.slots) {
			return fmt.Errorf("restore booking slot %d: %w", rec.Slot, ErrNotFound)
		}
		bookings.slots[rec.Slot] = Booking{
			Slot:      rec.Slot,
			Seat:      rec.Seat,
			Name:      rec.Name,
			Phone:     rec.Phone,
			RouteID:   rec.RouteID,
			PaymentID: rec.PaymentID,
			Active:    rec.Active,
		}
		if rec.Active {
			bookings.active++
		}
	}

	payments := NewPaymentLedger(s.cfg)
	for _, rec := range snapshot.Payments {
		payments.payments = append(payments.payments, Payment(rec))
	}

	s.routes = routes
	s.bookings = bookings
	s.payments = payments
	return nil
}
