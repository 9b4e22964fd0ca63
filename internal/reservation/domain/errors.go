package domain

import "errors"

var (
	// ErrCapacityExceeded means a fixed-size table (routes, bookings or
	// payments) is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrSeatTaken means the requested seat is already occupied on the route.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrInvalidSeat means the seat number is outside 1..SeatsPerRoute.
	ErrInvalidSeat = errors.New("invalid seat number")

	// ErrNotFound means no active booking, route or payment matched.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCancelled means the booking was cancelled before. A second
	// cancel never touches the seat or the counters.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrInvalidTime means a departure time could not be parsed as HH:MM.
	ErrInvalidTime = errors.New("invalid departure time")
)
