package domain

import (
	"fmt"
	"iter"
	"math/rand"
	"strings"
	"time"
)

// firstRouteTime is the canonical departure time given to the very first
// route ever created. Later routes get a synthesized morning departure.
const firstRouteTime = "08:00"

// Route is one scheduled source→destination trip with its own seat
// inventory. Routes are created on demand and never deleted; IDs are dense
// indexes, stable for the process lifetime.
type Route struct {
	ID            int
	Source        string
	Destination   string
	DepartureTime string
	Seats         *SeatInventory
	Active        bool
}

// RouteDirectory owns every route record and resolves (source, destination)
// pairs to routes, creating them on first lookup. It is not safe for
// concurrent use on its own; the reservation service serializes access.
type RouteDirectory struct {
	cfg    Config
	routes []*Route
	rng    *rand.Rand
}

func NewRouteDirectory(cfg Config) *RouteDirectory {
	return &RouteDirectory{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Count returns the number of routes created so far.
func (d *RouteDirectory) Count() int {
	return len(d.routes)
}

// Get returns the route with the given id.
func (d *RouteDirectory) Get(id int) (*Route, error) {
	if id < 0 || id >= len(d.routes) {
		return nil, fmt.Errorf("route %d: %w", id, ErrNotFound)
	}
	return d.routes[id], nil
}

// Find returns the route matching source and destination case-insensitively,
// or nil when none exists.
func (d *RouteDirectory) Find(source, destination string) *Route {
	for _, r := range d.routes {
		if strings.EqualFold(r.Source, source) && strings.EqualFold(r.Destination, destination) {
			return r
		}
	}
	return nil
}

// Resolve returns the route for (source, destination), creating one when no
// match exists. The boolean reports whether a new route was created. Fails
// with ErrCapacityExceeded once MaxRoutes routes exist.
func (d *RouteDirectory) Resolve(source, destination string) (*Route, bool, error) {
	if r := d.Find(source, destination); r != nil {
		return r, false, nil
	}

	route, err := d.create(source, destination, d.nextDepartureTime())
	if err != nil {
		return nil, false, err
	}
	return route, true, nil
}

// CreateOverflowRoute creates a "next bus" for a full route: same source and
// destination, departure one hour later (wrapping at 24h), all seats free.
func (d *RouteDirectory) CreateOverflowRoute(routeID int) (*Route, error) {
	base, err := d.Get(routeID)
	if err != nil {
		return nil, err
	}

	hour, minute, err := parseDepartureTime(base.DepartureTime)
	if err != nil {
		return nil, err
	}
	nextTime := fmt.Sprintf("%02d:%02d", (hour+1)%24, minute)

	return d.create(base.Source, base.Destination, nextTime)
}

// SetDepartureTime overwrites a route's scheduled time. The text is accepted
// as-is beyond a non-empty check, matching the historical behavior.
func (d *RouteDirectory) SetDepartureTime(routeID int, newTime string) error {
	route, err := d.Get(routeID)
	if err != nil {
		return err
	}
	if newTime == "" {
		return fmt.Errorf("set departure time: %w", ErrInvalidTime)
	}
	route.DepartureTime = newTime
	return nil
}

// ListActive yields the active routes in creation order. The sequence is
// restartable; it walks the live table, so callers must hold the service
// lock for the duration of the iteration.
func (d *RouteDirectory) ListActive() iter.Seq[*Route] {
	return func(yield func(*Route) bool) {
		for _, r := range d.routes {
			if r.Active && !yield(r) {
				return
			}
		}
	}
}

// DistinctDestinations returns the distinct destinations of active routes in
// discovery order, compared case-insensitively.
func (d *RouteDirectory) DistinctDestinations() []string {
	var dests []string
	for _, r := range d.routes {
		if !r.Active {
			continue
		}
		seen := false
		for _, dest := range dests {
			if strings.EqualFold(dest, r.Destination) {
				seen = true
				break
			}
		}
		if !seen {
			dests = append(dests, r.Destination)
		}
	}
	return dests
}

func (d *RouteDirectory) create(source, destination, departureTime string) (*Route, error) {
	if len(d.routes) >= d.cfg.MaxRoutes {
		return nil, fmt.Errorf("create route %s to %s: %w", source, destination, ErrCapacityExceeded)
	}

	route := &Route{
		ID:            len(d.routes),
		Source:        source,
		Destination:   destination,
		DepartureTime: departureTime,
		Seats:         NewSeatInventory(d.cfg.SeatsPerRoute),
		Active:        true,
	}
	d.routes = append(d.routes, route)
	return route, nil
}

// nextDepartureTime synthesizes a departure for a newly discovered route:
// the first route ever gets the canonical 08:00, the rest a pseudo-random
// morning slot between 06:00 and 11:59.
func (d *RouteDirectory) nextDepartureTime() string {
	if len(d.routes) == 0 {
		return firstRouteTime
	}
	return fmt.Sprintf("%02d:%02d", d.rng.Intn(6)+6, d.rng.Intn(60))
}

func parseDepartureTime(text string) (hour, minute int, err error) {
	if _, scanErr := fmt.Sscanf(text, "%d:%d", &hour, &minute); scanErr != nil {
		return 0, 0, fmt.Errorf("parse departure time %q: %w", text, ErrInvalidTime)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("parse departure time %q: %w", text, ErrInvalidTime)
	}
	return hour, minute, nil
}
