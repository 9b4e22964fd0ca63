package main

import (
	"context"
	"log"
	"time"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	"github.com/mateusmacedo/go-busline/pkg/infrastructure/kafka/adapter"
	watermillLogAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/zaplogger/adapter"
)

// Demo: the booking flow with the BookTicket command and the FindTicket
// query travelling through Kafka topics.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   []string{"localhost:9092"},
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka publisher: %v", err)
	}
	defer publisher.Close()

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "busline"

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               []string{"localhost:9092"},
		Unmarshaler:           marshaler,
		ConsumerGroup:         "busline_consumer_group",
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create Kafka subscriber: %v", err)
	}
	defer subscriber.Close()

	for _, topic := range []string{"BookTicket", "FindTicket", "TicketBooked"} {
		if err := subscriber.SubscribeInitialize(topic); err != nil {
			log.Fatalf("failed to initialize Kafka topic %q: %v", topic, err)
		}
	}

	service := domain.NewService(domain.DefaultConfig(), appLogger)

	eventBus := adapter.NewKafkaEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)
	eventBus.RegisterHandler("TicketBooked", application.NewTicketBookedEventHandler(appLogger))

	commandBus := adapter.NewKafkaCommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData](publisher, subscriber, appLogger)
	commandBus.RegisterHandler("BookTicket", application.NewBookTicketHandler(service, eventBus, appLogger))

	queryBus := adapter.NewKafkaQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket](publisher, subscriber)
	queryBus.RegisterHandler("FindTicket", application.NewFindTicketHandler(service, appLogger))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	command := application.NewBookTicketCommand(application.BookTicketData{
		Source:      "Dhaka",
		Destination: "Sylhet",
		Seat:        7,
		Name:        "Jane Doe",
		Phone:       "01800000000",
		Method:      "Nagad",
	})
	if err := commandBus.Dispatch(ctx, command); err != nil {
		appLogger.Error(ctx, "failed to dispatch booking command", map[string]interface{}{
			"error": err,
		})
		return
	}
	appLogger.Info(ctx, "booking command dispatched", nil)

	// Wait for the consumer group to pick up the command.
	time.Sleep(5 * time.Second)

	query := application.NewFindTicketQuery(application.FindTicketData{RouteID: 0, Seat: 7})
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
