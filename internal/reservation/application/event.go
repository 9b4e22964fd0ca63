package application

import (
	"github.com/mateusmacedo/go-busline/pkg/domain"
)

type ticketBookedEvent struct {
	data string
}

func (e ticketBookedEvent) EventName() string {
	return "TicketBooked"
}

func (e ticketBookedEvent) Payload() string {
	return e.data
}

// NewTicketBookedEvent creates the event published after a successful
// booking.
func NewTicketBookedEvent(data string) domain.Event[string] {
	return ticketBookedEvent{data: data}
}

type reservationCancelledEvent struct {
	data string
}

func (e reservationCancelledEvent) EventName() string {
	return "ReservationCancelled"
}

func (e reservationCancelledEvent) Payload() string {
	return e.data
}

// NewReservationCancelledEvent creates the event published after a
// cancellation released its seat.
func NewReservationCancelledEvent(data string) domain.Event[string] {
	return reservationCancelledEvent{data: data}
}
