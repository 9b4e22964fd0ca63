package application

import (
	"context"

	"github.com/mateusmacedo/go-busline/pkg/domain"
)

// QueryHandler answers a single query type with a result of type R.
type QueryHandler[Q domain.Query[T], T any, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryBus routes dispatched queries to their registered handler.
type QueryBus[Q domain.Query[D], D any, R any] interface {
	RegisterHandler(queryName string, handler QueryHandler[Q, D, R])
	Dispatch(ctx context.Context, query Q) (R, error)
}
