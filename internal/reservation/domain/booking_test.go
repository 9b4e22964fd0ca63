package domain

import (
	"errors"
	"testing"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.SeatsPerRoute = 2
	cfg.MaxRoutes = 2
	return cfg
}

func TestBookingRegistryFirstFit(t *testing.T) {
	reg := NewBookingRegistry(smallConfig())

	first, err := reg.Create(0, 1, "Alice", "111", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := reg.Create(0, 2, "Bob", "222", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Slot != 0 || second.Slot != 1 {
		t.Fatalf("slots = %d, %d, want 0, 1", first.Slot, second.Slot)
	}

	// Cancelling the first booking frees its slot for the next create.
	if err := reg.Cancel(first.Slot); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	third, err := reg.Create(1, 1, "Carol", "333", 2)
	if err != nil {
		t.Fatalf("create after cancel: %v", err)
	}
	if third.Slot != 0 {
		t.Fatalf("reused slot = %d, want 0", third.Slot)
	}
	if reg.ActiveCount() != 2 {
		t.Fatalf("ActiveCount = %d, want 2", reg.ActiveCount())
	}
}

func TestBookingRegistryCapacity(t *testing.T) {
	cfg := smallConfig()
	reg := NewBookingRegistry(cfg)

	for i := 0; i < cfg.MaxBookings(); i++ {
		if _, err := reg.Create(0, i+1, "P", "000", i); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := reg.Create(0, 1, "Q", "001", 9); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("create past cap: got %v, want ErrCapacityExceeded", err)
	}
	if _, err := reg.FirstFreeSlot(); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("FirstFreeSlot on full table: got %v, want ErrCapacityExceeded", err)
	}
}

func TestBookingRegistryCancelGuards(t *testing.T) {
	reg := NewBookingRegistry(smallConfig())
	booking, _ := reg.Create(0, 1, "Alice", "111", 0)

	if err := reg.Cancel(booking.Slot); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := reg.Cancel(booking.Slot); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("double cancel: got %v, want ErrAlreadyCancelled", err)
	}
	if reg.ActiveCount() != 0 {
		t.Fatalf("ActiveCount = %d after double cancel, want 0", reg.ActiveCount())
	}

	// A slot that never held a booking is not found, not already cancelled.
	if err := reg.Cancel(3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel empty slot: got %v, want ErrNotFound", err)
	}
	if err := reg.Cancel(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel out-of-range slot: got %v, want ErrNotFound", err)
	}
}

func TestBookingRegistryEdit(t *testing.T) {
	reg := NewBookingRegistry(smallConfig())
	booking, _ := reg.Create(0, 1, "Alice", "111", 0)

	if err := reg.Edit(booking.Slot, "Alicia", "999"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	edited, err := reg.Get(booking.Slot)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if edited.Name != "Alicia" || edited.Phone != "999" {
		t.Fatalf("edited booking = %+v", edited)
	}
	if edited.Seat != booking.Seat || edited.PaymentID != booking.PaymentID {
		t.Fatal("edit must not touch seat or payment")
	}

	reg.Cancel(booking.Slot)
	if err := reg.Edit(booking.Slot, "X", "Y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("edit cancelled booking: got %v, want ErrNotFound", err)
	}
}

func TestBookingRegistryFindByPhone(t *testing.T) {
	reg := NewBookingRegistry(DefaultConfig())
	reg.Create(0, 1, "Alice", "111", 0)
	reg.Create(0, 2, "Alice", "111", 1)
	reg.Create(1, 1, "Bob", "222", 2)

	first, found := reg.FindFirstByPhone("111")
	if !found || first.Seat != 1 {
		t.Fatalf("FindFirstByPhone = (%+v, %v), want seat 1", first, found)
	}
	all := reg.FindAllByPhone("111")
	if len(all) != 2 {
		t.Fatalf("FindAllByPhone returned %d bookings, want 2", len(all))
	}
	if _, found := reg.FindFirstByPhone("333"); found {
		t.Fatal("unknown phone should not match")
	}

	byseat, found := reg.FindBySeatAndRoute(1, 1)
	if !found || byseat.Name != "Bob" {
		t.Fatalf("FindBySeatAndRoute = (%+v, %v), want Bob", byseat, found)
	}
}
