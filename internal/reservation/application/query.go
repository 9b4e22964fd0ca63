package application

import (
	"github.com/mateusmacedo/go-busline/pkg/domain"
)

// FindTicketData identifies the ticket view of one booked seat.
type FindTicketData struct {
	RouteID int `json:"routeId"`
	Seat    int `json:"seat"`
}

type findTicketQuery struct {
	data FindTicketData
}

func (q findTicketQuery) QueryName() string {
	return "FindTicket"
}

func (q findTicketQuery) Payload() FindTicketData {
	return q.data
}

func NewFindTicketQuery(data FindTicketData) domain.Query[FindTicketData] {
	return findTicketQuery{data: data}
}

// SearchByPhoneData asks for every active booking of a phone number.
type SearchByPhoneData struct {
	Phone string `json:"phone"`
}

type searchByPhoneQuery struct {
	data SearchByPhoneData
}

func (q searchByPhoneQuery) QueryName() string {
	return "SearchByPhone"
}

func (q searchByPhoneQuery) Payload() SearchByPhoneData {
	return q.data
}

func NewSearchByPhoneQuery(data SearchByPhoneData) domain.Query[SearchByPhoneData] {
	return searchByPhoneQuery{data: data}
}

// SearchByDestinationData asks for the passengers travelling to a
// destination, with hint suggestions when the input matches no route.
type SearchByDestinationData struct {
	Destination string `json:"destination"`
}

type searchByDestinationQuery struct {
	data SearchByDestinationData
}

func (q searchByDestinationQuery) QueryName() string {
	return "SearchByDestination"
}

func (q searchByDestinationQuery) Payload() SearchByDestinationData {
	return q.data
}

func NewSearchByDestinationQuery(data SearchByDestinationData) domain.Query[SearchByDestinationData] {
	return searchByDestinationQuery{data: data}
}

// ListRoutesData asks for every active route.
type ListRoutesData struct{}

type listRoutesQuery struct {
	data ListRoutesData
}

func (q listRoutesQuery) QueryName() string {
	return "ListRoutes"
}

func (q listRoutesQuery) Payload() ListRoutesData {
	return q.data
}

func NewListRoutesQuery(data ListRoutesData) domain.Query[ListRoutesData] {
	return listRoutesQuery{data: data}
}

// AvailabilityData asks for the free seats of a (source, destination) pair,
// creating the route on first lookup.
type AvailabilityData struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type availabilityQuery struct {
	data AvailabilityData
}

func (q availabilityQuery) QueryName() string {
	return "Availability"
}

func (q availabilityQuery) Payload() AvailabilityData {
	return q.data
}

func NewAvailabilityQuery(data AvailabilityData) domain.Query[AvailabilityData] {
	return availabilityQuery{data: data}
}
