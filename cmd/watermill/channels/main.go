package main

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	"github.com/mateusmacedo/go-busline/pkg/infrastructure/channels/adapter"
	watermillLogAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/zaplogger/adapter"
)

// Demo: the booking flow over an in-memory watermill pub/sub instead of the
// in-process buses.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	service := domain.NewService(domain.DefaultConfig(), appLogger)

	eventBus := adapter.NewWatermillEventBus[pkgDomain.Event[string], string](pubSub, appLogger)
	eventBus.RegisterHandler("TicketBooked", application.NewTicketBookedEventHandler(appLogger))

	commandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData](pubSub, pubSub, appLogger)
	commandBus.RegisterHandler("BookTicket", application.NewBookTicketHandler(service, eventBus, appLogger))

	queryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket](pubSub, pubSub, appLogger)
	queryBus.RegisterHandler("FindTicket", application.NewFindTicketHandler(service, appLogger))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	command := application.NewBookTicketCommand(application.BookTicketData{
		Source:      "Dhaka",
		Destination: "Chittagong",
		Seat:        12,
		Name:        "John Doe",
		Phone:       "01700000000",
		Method:      "Bkash",
	})
	if err := commandBus.Dispatch(ctx, command); err != nil {
		appLogger.Error(ctx, "failed to dispatch booking command", map[string]interface{}{
			"error": err,
		})
		return
	}
	appLogger.Info(ctx, "booking command dispatched", nil)

	// Brief wait for the asynchronous handler.
	time.Sleep(1 * time.Second)

	query := application.NewFindTicketQuery(application.FindTicketData{RouteID: 0, Seat: 12})
	ticket, err := queryBus.Dispatch(ctx, query)
	if err != nil {
		appLogger.Error(ctx, "failed to dispatch ticket query", map[string]interface{}{
			"error": err,
		})
		return
	}
	appLogger.Info(ctx, "ticket found", map[string]interface{}{
		"ticket": ticket,
	})
}
