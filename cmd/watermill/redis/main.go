package main

import (
	"context"
	"net/http"
	"os"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-busline/internal/identity"
	"github.com/mateusmacedo/go-busline/internal/reservation"
	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	"github.com/mateusmacedo/go-busline/pkg/infrastructure/redis/adapter"
	watermillLogAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/zaplogger/adapter"
)

// Variant of the main server that routes the BookTicket command and the
// FindTicket query through Redis streams.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)

	redisClient := adapter.NewRedisClient(os.Getenv("BUSLINE_REDIS_ADDR"))
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "failed to create publisher", map[string]interface{}{
			"error": err,
		})
		return
	}
	defer publisher.Close()

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: "busline_group",
		Consumer:      "busline_consumer",
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "failed to create subscriber", map[string]interface{}{
			"error": err,
		})
		return
	}
	defer subscriber.Close()

	cfg := domain.DefaultConfig()
	service := domain.NewService(cfg, appLogger)
	users := identity.NewRegistry(cfg.MaxUsers, appLogger)

	bookBus := adapter.NewRedisCommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData](publisher, subscriber)
	findBus := adapter.NewRedisQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket](publisher, subscriber, appLogger)
	eventBus := adapter.NewRedisEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	slice := reservation.NewSlice(service, users, bookBus, findBus, eventBus, appLogger)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	serverAddress := os.Getenv("BUSLINE_ADDR")
	if serverAddress == "" {
		serverAddress = ":8080"
	}
	appLogger.Info(context.Background(), "server starting", map[string]interface{}{
		"address": serverAddress,
	})
	if err := http.ListenAndServe(serverAddress, router); err != nil {
		appLogger.Error(context.Background(), "server failed", map[string]interface{}{
			"error": err,
		})
	}
}
