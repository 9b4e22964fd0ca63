// Package reservation wires the bus reservation slice: domain service,
// command and query handlers, buses and the HTTP transport.
package reservation

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-busline/internal/identity"
	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	"github.com/mateusmacedo/go-busline/internal/reservation/infrastructure"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-busline/pkg/infrastructure"
)

// Slice holds the fully wired reservation vertical.
type Slice struct {
	service *domain.Service
	handler *infrastructure.ReservationHTTPHandler
}

// NewSlice registers every command, query and event handler on its bus and
// builds the HTTP transport. The BookTicket command bus and the FindTicket
// query bus are injected so callers can swap in a message-broker adapter; the
// remaining buses are in-process.
func NewSlice(
	service *domain.Service,
	users *identity.Registry,
	bookBus pkgApp.CommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData],
	findBus pkgApp.QueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket],
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	logger pkgApp.AppLogger,
) *Slice {
	bookBus.RegisterHandler("BookTicket", application.NewBookTicketHandler(service, eventBus, logger))
	findBus.RegisterHandler("FindTicket", application.NewFindTicketHandler(service, logger))

	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelReservationData], application.CancelReservationData]()
	cancelBus.RegisterHandler("CancelReservation", application.NewCancelReservationHandler(service, eventBus, logger))

	cancelSeatBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelSeatData], application.CancelSeatData]()
	cancelSeatBus.RegisterHandler("CancelSeat", application.NewCancelSeatHandler(service, eventBus, logger))

	editBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.EditReservationData], application.EditReservationData]()
	editBus.RegisterHandler("EditReservation", application.NewEditReservationHandler(service, logger))

	setTimeBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.SetBusTimeData], application.SetBusTimeData]()
	setTimeBus.RegisterHandler("SetBusTime", application.NewSetBusTimeHandler(service, logger))

	overflowBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CreateOverflowRouteData], application.CreateOverflowRouteData]()
	overflowBus.RegisterHandler("CreateOverflowRoute", application.NewCreateOverflowRouteHandler(service, logger))

	searchPhoneBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchByPhoneData], application.SearchByPhoneData, []domain.BookingDetail]()
	searchPhoneBus.RegisterHandler("SearchByPhone", application.NewSearchByPhoneHandler(service, logger))

	searchDestBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchByDestinationData], application.SearchByDestinationData, domain.DestinationSearchResult]()
	searchDestBus.RegisterHandler("SearchByDestination", application.NewSearchByDestinationHandler(service, logger))

	listRoutesBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListRoutesData], application.ListRoutesData, []domain.RouteView]()
	listRoutesBus.RegisterHandler("ListRoutes", application.NewListRoutesHandler(service, logger))

	availabilityBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.AvailabilityData], application.AvailabilityData, domain.AvailabilityView]()
	availabilityBus.RegisterHandler("Availability", application.NewAvailabilityHandler(service, logger))

	eventBus.RegisterHandler("TicketBooked", application.NewTicketBookedEventHandler(logger))
	eventBus.RegisterHandler("ReservationCancelled", application.NewReservationCancelledEventHandler(logger))

	handler := infrastructure.NewReservationHTTPHandler(infrastructure.Buses{
		BookTicket:          bookBus,
		CancelReservation:   cancelBus,
		CancelSeat:          cancelSeatBus,
		EditReservation:     editBus,
		SetBusTime:          setTimeBus,
		CreateOverflowRoute: overflowBus,
		FindTicket:          findBus,
		SearchByPhone:       searchPhoneBus,
		SearchByDestination: searchDestBus,
		ListRoutes:          listRoutesBus,
		Availability:        availabilityBus,
	}, users)

	return &Slice{service: service, handler: handler}
}

// Service exposes the underlying domain service for snapshotting.
func (s *Slice) Service() *domain.Service {
	return s.service
}

// RegisterRoutes mounts the slice's HTTP endpoints on the router.
func (s *Slice) RegisterRoutes(router chi.Router) {
	s.handler.RegisterRoutes(router)
}
