package domain

// Command represents an intent to change system state.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
