package domain

import (
	"fmt"
	"iter"
)

// Booking is a passenger's claim on one seat of one route. Bookings live in
// a fixed slot table; a cancelled booking's slot is reused by a later
// booking but never reclaimed index-wise. Route and payment are referenced
// by id and resolved through their owning registries.
type Booking struct {
	Slot      int    `json:"slot"`
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	RouteID   int    `json:"routeId"`
	PaymentID int    `json:"paymentId"`
	Active    bool   `json:"active"`
}

// BookingRegistry owns the booking slot table. Slot allocation is first-fit:
// a linear scan from slot 0 picks the lowest-index free slot, so freed slots
// are reused in ascending index order.
type BookingRegistry struct {
	slots  []Booking
	active int
}

func NewBookingRegistry(cfg Config) *BookingRegistry {
	r := &BookingRegistry{slots: make([]Booking, cfg.MaxBookings())}
	for i := range r.slots {
		r.slots[i].Slot = i
		r.slots[i].RouteID = -1
		r.slots[i].PaymentID = -1
	}
	return r
}

// FirstFreeSlot returns the lowest-index inactive slot, or an error when the
// table is full. Callers use it to check capacity before staging mutations.
func (r *BookingRegistry) FirstFreeSlot() (int, error) {
	for i := range r.slots {
		if !r.slots[i].Active {
			return i, nil
		}
	}
	return -1, fmt.Errorf("booking table: %w", ErrCapacityExceeded)
}

// Create inserts an active booking into the first free slot and returns it.
// It does not touch the route's seat inventory; the reservation service owns
// that ordering.
func (r *BookingRegistry) Create(routeID, seat int, name, phone string, paymentID int) (Booking, error) {
	slot, err := r.FirstFreeSlot()
	if err != nil {
		return Booking{}, err
	}

	r.slots[slot] = Booking{
		Slot:      slot,
		Seat:      seat,
		Name:      name,
		Phone:     phone,
		RouteID:   routeID,
		PaymentID: paymentID,
		Active:    true,
	}
	r.active++
	return r.slots[slot], nil
}

// Get returns the booking in the given slot, active or not.
func (r *BookingRegistry) Get(slot int) (Booking, error) {
	if slot < 0 || slot >= len(r.slots) {
		return Booking{}, fmt.Errorf("booking slot %d: %w", slot, ErrNotFound)
	}
	return r.slots[slot], nil
}

// FindFirstByPhone returns the first active booking with the given phone, in
// slot order. Self-service edit and cancel flows operate on this match.
func (r *BookingRegistry) FindFirstByPhone(phone string) (Booking, bool) {
	for i := range r.slots {
		if r.slots[i].Active && r.slots[i].Phone == phone {
			return r.slots[i], true
		}
	}
	return Booking{}, false
}

// FindAllByPhone returns every active booking with the given phone, in slot
// order. Admin search and reporting use the full scan.
func (r *BookingRegistry) FindAllByPhone(phone string) []Booking {
	var found []Booking
	for i := range r.slots {
		if r.slots[i].Active && r.slots[i].Phone == phone {
			found = append(found, r.slots[i])
		}
	}
	return found
}

// FindBySeatAndRoute returns the active booking holding the given seat on
// the given route. At most one exists at any time.
func (r *BookingRegistry) FindBySeatAndRoute(routeID, seat int) (Booking, bool) {
	for i := range r.slots {
		if r.slots[i].Active && r.slots[i].RouteID == routeID && r.slots[i].Seat == seat {
			return r.slots[i], true
		}
	}
	return Booking{}, false
}

// Edit mutates the passenger identity fields of an active booking. Seat,
// route and payment are untouched.
func (r *BookingRegistry) Edit(slot int, newName, newPhone string) error {
	if slot < 0 || slot >= len(r.slots) || !r.slots[slot].Active {
		return fmt.Errorf("edit booking slot %d: %w", slot, ErrNotFound)
	}
	r.slots[slot].Name = newName
	r.slots[slot].Phone = newPhone
	return nil
}

// Cancel clears the active flag of a booking. A second cancel of the same
// slot fails with ErrAlreadyCancelled instead of corrupting counters. The
// seat release belongs to the reservation service.
func (r *BookingRegistry) Cancel(slot int) error {
	if slot < 0 || slot >= len(r.slots) || r.slots[slot].RouteID < 0 {
		return fmt.Errorf("cancel booking slot %d: %w", slot, ErrNotFound)
	}
	if !r.slots[slot].Active {
		return fmt.Errorf("cancel booking slot %d: %w", slot, ErrAlreadyCancelled)
	}
	r.slots[slot].Active = false
	r.active--
	return nil
}

// ActiveCount returns the number of active bookings across all routes.
func (r *BookingRegistry) ActiveCount() int {
	return r.active
}

// Active yields the active bookings in slot order.
func (r *BookingRegistry) Active() iter.Seq[Booking] {
	return func(yield func(Booking) bool) {
		for i := range r.slots {
			if r.slots[i].Active && !yield(r.slots[i]) {
				return
			}
		}
	}
}
