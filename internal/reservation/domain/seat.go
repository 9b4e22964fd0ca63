package domain

import (
	"fmt"
	"iter"
)

// SeatInventory is the fixed-size occupancy map of one route. Seat numbers
// are 1-indexed. The inventory keeps its own occupied count so that the
// count-equals-popcount invariant holds by construction.
type SeatInventory struct {
	occupied []bool
	booked   int
}

func NewSeatInventory(seats int) *SeatInventory {
	return &SeatInventory{occupied: make([]bool, seats)}
}

func (s *SeatInventory) Size() int {
	return len(s.occupied)
}

// ValidSeat reports whether seat is within 1..Size.
func (s *SeatInventory) ValidSeat(seat int) bool {
	return seat >= 1 && seat <= len(s.occupied)
}

// IsFree reports whether the seat is unoccupied. Out-of-range seats are
// never free.
func (s *SeatInventory) IsFree(seat int) bool {
	return s.ValidSeat(seat) && !s.occupied[seat-1]
}

// Occupy marks the seat as taken. Callers are expected to check IsFree
// first; occupying a taken seat fails with ErrSeatTaken.
func (s *SeatInventory) Occupy(seat int) error {
	if !s.ValidSeat(seat) {
		return fmt.Errorf("occupy seat %d: %w", seat, ErrInvalidSeat)
	}
	if s.occupied[seat-1] {
		return fmt.Errorf("occupy seat %d: %w", seat, ErrSeatTaken)
	}
	s.occupied[seat-1] = true
	s.booked++
	return nil
}

// Release frees a previously occupied seat.
func (s *SeatInventory) Release(seat int) error {
	if !s.ValidSeat(seat) {
		return fmt.Errorf("release seat %d: %w", seat, ErrInvalidSeat)
	}
	if !s.occupied[seat-1] {
		return fmt.Errorf("release seat %d: %w", seat, ErrNotFound)
	}
	s.occupied[seat-1] = false
	s.booked--
	return nil
}

// BookedCount returns the number of occupied seats.
func (s *SeatInventory) BookedCount() int {
	return s.booked
}

// AvailableCount returns the number of free seats.
func (s *SeatInventory) AvailableCount() int {
	return len(s.occupied) - s.booked
}

// Full reports whether every seat is occupied.
func (s *SeatInventory) Full() bool {
	return s.booked >= len(s.occupied)
}

// AvailableSeats yields the free seat numbers in ascending order.
func (s *SeatInventory) AvailableSeats() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, taken := range s.occupied {
			if !taken && !yield(i+1) {
				return
			}
		}
	}
}

// snapshotSeats returns the occupied seat numbers, for persistence.
func (s *SeatInventory) snapshotSeats() []int {
	seats := make([]int, 0, s.booked)
	for i, taken := range s.occupied {
		if taken {
			seats = append(seats, i+1)
		}
	}
	return seats
}

// restoreSeats rebuilds occupancy from a persisted seat list.
func (s *SeatInventory) restoreSeats(seats []int) error {
	for _, seat := range seats {
		if err := s.Occupy(seat); err != nil {
			return err
		}
	}
	return nil
}
