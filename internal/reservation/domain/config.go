package domain

// FeeEntry is one row of the payment-method fee table.
type FeeEntry struct {
	Method     string
	FeePercent float64
}

// Config carries the fixed capacities and tariffs of the reservation ledger.
// The capacities are hard caps: the tables never grow past them and operations
// fail with ErrCapacityExceeded instead.
type Config struct {
	SeatsPerRoute int
	MaxRoutes     int
	MaxUsers      int
	BaseFare      float64
	FeeTable      []FeeEntry
}

// DefaultConfig returns the canonical deployment values: 40 seats per bus,
// 50 routes, 100 users, a 500.00 base fare and the five supported payment
// methods.
func DefaultConfig() Config {
	return Config{
		SeatsPerRoute: 40,
		MaxRoutes:     50,
		MaxUsers:      100,
		BaseFare:      500.0,
		FeeTable: []FeeEntry{
			{Method: "Bkash", FeePercent: 2.0},
			{Method: "Nagad", FeePercent: 1.5},
			{Method: "Rocket", FeePercent: 1.0},
			{Method: "Card", FeePercent: 1.8},
			{Method: "Cash", FeePercent: 0.0},
		},
	}
}

// MaxBookings is the size of the booking slot table.
func (c Config) MaxBookings() int {
	return c.SeatsPerRoute * c.MaxRoutes
}
