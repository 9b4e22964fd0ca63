package domain

// Query represents a read-only request against system state.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
