package application

import (
	"context"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
)

type findTicketHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *findTicketHandler) Handle(ctx context.Context, query pkgDomain.Query[FindTicketData]) (domain.Ticket, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.Ticket{}, ctx.Err()
	}

	data := query.Payload()
	ticket, err := h.service.PrintTicket(ctx, data.RouteID, data.Seat)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to find ticket", err, map[string]interface{}{
			"route_id": data.RouteID,
			"seat":     data.Seat,
		})
		return domain.Ticket{}, err
	}

	return ticket, nil
}

func NewFindTicketHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindTicketData], FindTicketData, domain.Ticket] {
	return &findTicketHandler{service: service, logger: logger}
}

type searchByPhoneHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *searchByPhoneHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchByPhoneData]) ([]domain.BookingDetail, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	data := query.Payload()
	details, err := h.service.SearchByPhone(ctx, data.Phone)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to search by phone", err, map[string]interface{}{
			"phone": data.Phone,
		})
		return nil, err
	}

	return details, nil
}

func NewSearchByPhoneHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchByPhoneData], SearchByPhoneData, []domain.BookingDetail] {
	return &searchByPhoneHandler{service: service, logger: logger}
}

type searchByDestinationHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *searchByDestinationHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchByDestinationData]) (domain.DestinationSearchResult, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.DestinationSearchResult{}, ctx.Err()
	}

	data := query.Payload()
	result, err := h.service.SearchByDestination(ctx, data.Destination)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to search by destination", err, map[string]interface{}{
			"destination": data.Destination,
		})
		return domain.DestinationSearchResult{}, err
	}

	return result, nil
}

func NewSearchByDestinationHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchByDestinationData], SearchByDestinationData, domain.DestinationSearchResult] {
	return &searchByDestinationHandler{service: service, logger: logger}
}

type listRoutesHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *listRoutesHandler) Handle(ctx context.Context, query pkgDomain.Query[ListRoutesData]) ([]domain.RouteView, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	return h.service.ListRoutes(ctx), nil
}

func NewListRoutesHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListRoutesData], ListRoutesData, []domain.RouteView] {
	return &listRoutesHandler{service: service, logger: logger}
}

type availabilityHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *availabilityHandler) Handle(ctx context.Context, query pkgDomain.Query[AvailabilityData]) (domain.AvailabilityView, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.AvailabilityView{}, ctx.Err()
	}

	data := query.Payload()
	view, err := h.service.Availability(ctx, data.Source, data.Destination)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to query availability", err, map[string]interface{}{
			"source":      data.Source,
			"destination": data.Destination,
		})
		return domain.AvailabilityView{}, err
	}

	return view, nil
}

func NewAvailabilityHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[AvailabilityData], AvailabilityData, domain.AvailabilityView] {
	return &availabilityHandler{service: service, logger: logger}
}

type ticketBookedEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *ticketBookedEventHandler) Handle(ctx context.Context, event pkgDomain.Event[string]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "ticket booked event received", map[string]interface{}{
		"event": event.Payload(),
	})
	return nil
}

func NewTicketBookedEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[string], string] {
	return &ticketBookedEventHandler{logger: logger}
}

type reservationCancelledEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *reservationCancelledEventHandler) Handle(ctx context.Context, event pkgDomain.Event[string]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "reservation cancelled event received", map[string]interface{}{
		"event": event.Payload(),
	})
	return nil
}

func NewReservationCancelledEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[string], string] {
	return &reservationCancelledEventHandler{logger: logger}
}
