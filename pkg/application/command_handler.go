package application

import (
	"context"

	"github.com/mateusmacedo/go-busline/pkg/domain"
)

// CommandHandler handles a single command type.
type CommandHandler[C domain.Command[T], T any] interface {
	Handle(ctx context.Context, command C) error
}

// CommandBus routes dispatched commands to their registered handler.
type CommandBus[C domain.Command[T], T any] interface {
	RegisterHandler(commandName string, handler CommandHandler[C, T])
	Dispatch(ctx context.Context, command C) error
}
