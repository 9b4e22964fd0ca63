package application

import (
	"github.com/mateusmacedo/go-busline/pkg/domain"
)

// BookTicketData carries everything needed to book one seat.
type BookTicketData struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Method      string `json:"method"`
}

type bookTicketCommand struct {
	data BookTicketData
}

func (c bookTicketCommand) CommandName() string {
	return "BookTicket"
}

func (c bookTicketCommand) Payload() BookTicketData {
	return c.data
}

// NewBookTicketCommand creates the command that books a seat.
func NewBookTicketCommand(data BookTicketData) domain.Command[BookTicketData] {
	return bookTicketCommand{data: data}
}

// CancelReservationData identifies a self-service cancellation by the
// passenger's phone number.
type CancelReservationData struct {
	Phone string `json:"phone"`
}

type cancelReservationCommand struct {
	data CancelReservationData
}

func (c cancelReservationCommand) CommandName() string {
	return "CancelReservation"
}

func (c cancelReservationCommand) Payload() CancelReservationData {
	return c.data
}

func NewCancelReservationCommand(data CancelReservationData) domain.Command[CancelReservationData] {
	return cancelReservationCommand{data: data}
}

// CancelSeatData identifies an admin cancellation by destination and seat.
type CancelSeatData struct {
	Destination string `json:"destination"`
	Seat        int    `json:"seat"`
}

type cancelSeatCommand struct {
	data CancelSeatData
}

func (c cancelSeatCommand) CommandName() string {
	return "CancelSeat"
}

func (c cancelSeatCommand) Payload() CancelSeatData {
	return c.data
}

func NewCancelSeatCommand(data CancelSeatData) domain.Command[CancelSeatData] {
	return cancelSeatCommand{data: data}
}

// EditReservationData rewrites the passenger identity of a booking found by
// phone number.
type EditReservationData struct {
	Phone    string `json:"phone"`
	NewName  string `json:"newName"`
	NewPhone string `json:"newPhone"`
}

type editReservationCommand struct {
	data EditReservationData
}

func (c editReservationCommand) CommandName() string {
	return "EditReservation"
}

func (c editReservationCommand) Payload() EditReservationData {
	return c.data
}

func NewEditReservationCommand(data EditReservationData) domain.Command[EditReservationData] {
	return editReservationCommand{data: data}
}

// SetBusTimeData overwrites the departure time of an existing route.
type SetBusTimeData struct {
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
}

type setBusTimeCommand struct {
	data SetBusTimeData
}

func (c setBusTimeCommand) CommandName() string {
	return "SetBusTime"
}

func (c setBusTimeCommand) Payload() SetBusTimeData {
	return c.data
}

func NewSetBusTimeCommand(data SetBusTimeData) domain.Command[SetBusTimeData] {
	return setBusTimeCommand{data: data}
}

// CreateOverflowRouteData requests a "next bus" for a full route.
type CreateOverflowRouteData struct {
	RouteID int `json:"routeId"`
}

type createOverflowRouteCommand struct {
	data CreateOverflowRouteData
}

func (c createOverflowRouteCommand) CommandName() string {
	return "CreateOverflowRoute"
}

func (c createOverflowRouteCommand) Payload() CreateOverflowRouteData {
	return c.data
}

func NewCreateOverflowRouteCommand(data CreateOverflowRouteData) domain.Command[CreateOverflowRouteData] {
	return createOverflowRouteCommand{data: data}
}
