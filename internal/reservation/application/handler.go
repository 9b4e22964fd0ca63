package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
)

type bookTicketHandler struct {
	service  *domain.Service
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	logger   pkgApp.AppLogger
}

func (h *bookTicketHandler) Handle(ctx context.Context, command pkgDomain.Command[BookTicketData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	ticket, err := h.service.BookTicket(ctx, domain.BookingRequest{
		Source:      data.Source,
		Destination: data.Destination,
		Seat:        data.Seat,
		Name:        data.Name,
		Phone:       data.Phone,
		Method:      data.Method,
	})
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to book ticket", err, map[string]interface{}{
			"source":      data.Source,
			"destination": data.Destination,
			"seat":        data.Seat,
		})
		return err
	}

	event := NewTicketBookedEvent(fmt.Sprintf("seat %d on route %d booked for %s", ticket.Seat, ticket.RouteID, ticket.Passenger))
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish booking event", err, nil)
		return err
	}

	return nil
}

func NewBookTicketHandler(service *domain.Service, eventBus pkgApp.EventBus[pkgDomain.Event[string], string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[BookTicketData], BookTicketData] {
	return &bookTicketHandler{service: service, eventBus: eventBus, logger: logger}
}

type cancelReservationHandler struct {
	service  *domain.Service
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	logger   pkgApp.AppLogger
}

func (h *cancelReservationHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelReservationData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	detail, err := h.service.CancelByPhone(ctx, data.Phone)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to cancel reservation", err, map[string]interface{}{
			"phone": data.Phone,
		})
		return err
	}

	event := NewReservationCancelledEvent(fmt.Sprintf("seat %d on route %d released", detail.Seat, detail.RouteID))
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish cancellation event", err, nil)
		return err
	}

	return nil
}

func NewCancelReservationHandler(service *domain.Service, eventBus pkgApp.EventBus[pkgDomain.Event[string], string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelReservationData], CancelReservationData] {
	return &cancelReservationHandler{service: service, eventBus: eventBus, logger: logger}
}

type cancelSeatHandler struct {
	service  *domain.Service
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	logger   pkgApp.AppLogger
}

func (h *cancelSeatHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelSeatData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	detail, err := h.service.CancelSeat(ctx, data.Destination, data.Seat)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to cancel seat", err, map[string]interface{}{
			"destination": data.Destination,
			"seat":        data.Seat,
		})
		return err
	}

	event := NewReservationCancelledEvent(fmt.Sprintf("seat %d on route %d released", detail.Seat, detail.RouteID))
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish cancellation event", err, nil)
		return err
	}

	return nil
}

func NewCancelSeatHandler(service *domain.Service, eventBus pkgApp.EventBus[pkgDomain.Event[string], string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelSeatData], CancelSeatData] {
	return &cancelSeatHandler{service: service, eventBus: eventBus, logger: logger}
}

type editReservationHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *editReservationHandler) Handle(ctx context.Context, command pkgDomain.Command[EditReservationData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if _, err := h.service.EditReservation(ctx, data.Phone, data.NewName, data.NewPhone); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to edit reservation", err, map[string]interface{}{
			"phone": data.Phone,
		})
		return err
	}

	return nil
}

func NewEditReservationHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[EditReservationData], EditReservationData] {
	return &editReservationHandler{service: service, logger: logger}
}

type setBusTimeHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *setBusTimeHandler) Handle(ctx context.Context, command pkgDomain.Command[SetBusTimeData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.service.SetBusTime(ctx, data.Source, data.Destination, data.DepartureTime); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to set bus time", err, map[string]interface{}{
			"source":      data.Source,
			"destination": data.Destination,
		})
		return err
	}

	return nil
}

func NewSetBusTimeHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[SetBusTimeData], SetBusTimeData] {
	return &setBusTimeHandler{service: service, logger: logger}
}

type createOverflowRouteHandler struct {
	service *domain.Service
	logger  pkgApp.AppLogger
}

func (h *createOverflowRouteHandler) Handle(ctx context.Context, command pkgDomain.Command[CreateOverflowRouteData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if _, err := h.service.CreateOverflowRoute(ctx, data.RouteID); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to create overflow route", err, map[string]interface{}{
			"route_id": data.RouteID,
		})
		return err
	}

	return nil
}

func NewCreateOverflowRouteHandler(service *domain.Service, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CreateOverflowRouteData], CreateOverflowRouteData] {
	return &createOverflowRouteHandler{service: service, logger: logger}
}
