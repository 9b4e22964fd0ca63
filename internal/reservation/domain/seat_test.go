package domain

import (
	"errors"
	"testing"
)

func TestSeatInventoryOccupyAndRelease(t *testing.T) {
	inv := NewSeatInventory(4)

	if !inv.ValidSeat(1) || !inv.ValidSeat(4) {
		t.Fatal("seats 1 and 4 should be valid")
	}
	if inv.ValidSeat(0) || inv.ValidSeat(5) {
		t.Fatal("seats 0 and 5 should be invalid")
	}

	if err := inv.Occupy(2); err != nil {
		t.Fatalf("occupy seat 2: %v", err)
	}
	if inv.IsFree(2) {
		t.Fatal("seat 2 should be taken")
	}
	if err := inv.Occupy(2); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("occupying a taken seat: got %v, want ErrSeatTaken", err)
	}
	if err := inv.Occupy(9); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("occupying an out-of-range seat: got %v, want ErrInvalidSeat", err)
	}

	if err := inv.Release(2); err != nil {
		t.Fatalf("release seat 2: %v", err)
	}
	if !inv.IsFree(2) {
		t.Fatal("seat 2 should be free after release")
	}
	if err := inv.Release(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("releasing a free seat: got %v, want ErrNotFound", err)
	}
	if err := inv.Release(0); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("releasing an out-of-range seat: got %v, want ErrInvalidSeat", err)
	}
}

func TestSeatInventoryCountsMatchOccupancy(t *testing.T) {
	inv := NewSeatInventory(5)
	for _, seat := range []int{1, 3, 5} {
		if err := inv.Occupy(seat); err != nil {
			t.Fatalf("occupy seat %d: %v", seat, err)
		}
	}

	if got := inv.BookedCount(); got != 3 {
		t.Fatalf("BookedCount = %d, want 3", got)
	}
	if got := inv.AvailableCount(); got != 2 {
		t.Fatalf("AvailableCount = %d, want 2", got)
	}
	if got := len(inv.snapshotSeats()); got != inv.BookedCount() {
		t.Fatalf("snapshot has %d seats, counter says %d", got, inv.BookedCount())
	}

	var free []int
	for seat := range inv.AvailableSeats() {
		free = append(free, seat)
	}
	if len(free) != 2 || free[0] != 2 || free[1] != 4 {
		t.Fatalf("AvailableSeats = %v, want [2 4]", free)
	}

	if inv.Full() {
		t.Fatal("inventory should not be full")
	}
	inv.Occupy(2)
	inv.Occupy(4)
	if !inv.Full() {
		t.Fatal("inventory should be full")
	}
}

func TestSeatInventoryRestore(t *testing.T) {
	inv := NewSeatInventory(4)
	inv.Occupy(1)
	inv.Occupy(4)

	restored := NewSeatInventory(4)
	if err := restored.restoreSeats(inv.snapshotSeats()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.BookedCount() != 2 || restored.IsFree(1) || restored.IsFree(4) {
		t.Fatal("restored inventory does not match the original")
	}

	bad := NewSeatInventory(2)
	if err := bad.restoreSeats([]int{3}); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("restoring an out-of-range seat: got %v, want ErrInvalidSeat", err)
	}
}
