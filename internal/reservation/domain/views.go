package domain

// Ticket is the materialized view of a confirmed booking, assembled from the
// booking, its route and its payment.
type Ticket struct {
	RouteID       int     `json:"routeId"`
	Seat          int     `json:"seat"`
	Passenger     string  `json:"passenger"`
	Phone         string  `json:"phone"`
	Source        string  `json:"source"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departureTime"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	TotalPaid     float64 `json:"totalPaid"`
	Status        string  `json:"status"`
}

// RouteView is the reporting shape of one route.
type RouteView struct {
	ID            int    `json:"id"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	BookedCount   int    `json:"bookedCount"`
	Capacity      int    `json:"capacity"`
}

// AvailabilityView answers a seat-availability query for a route. Created
// reports whether the lookup created the route. When the bus is full the
// caller may offer an overflow route for the same pair.
type AvailabilityView struct {
	Route          RouteView `json:"route"`
	Created        bool      `json:"created"`
	AvailableCount int       `json:"availableCount"`
	AvailableSeats []int     `json:"availableSeats"`
	Full           bool      `json:"full"`
}

// BookingDetail is the admin-facing projection of one booking with its route
// and payment resolved. Payment is nil when the booking has none.
type BookingDetail struct {
	Slot          int      `json:"slot"`
	Seat          int      `json:"seat"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	RouteID       int      `json:"routeId"`
	Source        string   `json:"source"`
	Destination   string   `json:"destination"`
	DepartureTime string   `json:"departureTime"`
	Payment       *Payment `json:"payment,omitempty"`
}

// BookingSummary is the compact listing shape of one booking.
type BookingSummary struct {
	Seat          int    `json:"seat"`
	Name          string `json:"name"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
}

// DestinationSearchResult carries an admin destination search outcome. When
// no active route matches the input exactly, Hints holds the destinations
// starting with the input (case-insensitive, discovery order); if none
// start with it, Hints falls back to every distinct destination.
type DestinationSearchResult struct {
	Destination string          `json:"destination"`
	ExactMatch  bool            `json:"exactMatch"`
	Hints       []string        `json:"hints,omitempty"`
	Passengers  []BookingDetail `json:"passengers"`
}
