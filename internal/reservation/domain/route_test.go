package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestRouteDirectoryResolve(t *testing.T) {
	dir := NewRouteDirectory(DefaultConfig())

	first, created, err := dir.Resolve("Dhaka", "Chittagong")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created {
		t.Fatal("first resolve should create the route")
	}
	if first.ID != 0 {
		t.Fatalf("first route id = %d, want 0", first.ID)
	}
	if first.DepartureTime != "08:00" {
		t.Fatalf("first route departs at %s, want 08:00", first.DepartureTime)
	}

	// Case-insensitive match must find the same route, not create another.
	again, created, err := dir.Resolve("DHAKA", "chittagong")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if created || again.ID != first.ID {
		t.Fatalf("resolve matched route %d (created=%v), want route %d reused", again.ID, created, first.ID)
	}

	second, created, err := dir.Resolve("Dhaka", "Sylhet")
	if err != nil {
		t.Fatalf("resolve second: %v", err)
	}
	if !created || second.ID != 1 {
		t.Fatalf("second route id = %d (created=%v), want 1", second.ID, created)
	}
	hour, minute, err := parseDepartureTime(second.DepartureTime)
	if err != nil {
		t.Fatalf("second route departure %q does not parse: %v", second.DepartureTime, err)
	}
	if hour < 6 || hour > 11 || minute < 0 || minute > 59 {
		t.Fatalf("second route departs at %s, want a slot between 06:00 and 11:59", second.DepartureTime)
	}
}

func TestRouteDirectoryCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRoutes = 2
	dir := NewRouteDirectory(cfg)

	for i := 0; i < cfg.MaxRoutes; i++ {
		if _, _, err := dir.Resolve("A", fmt.Sprintf("B%d", i)); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if _, _, err := dir.Resolve("A", "Overflow"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("resolve past cap: got %v, want ErrCapacityExceeded", err)
	}
}

func TestCreateOverflowRoute(t *testing.T) {
	dir := NewRouteDirectory(DefaultConfig())
	base, _, err := dir.Resolve("Dhaka", "Khulna")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	overflow, err := dir.CreateOverflowRoute(base.ID)
	if err != nil {
		t.Fatalf("overflow: %v", err)
	}
	if overflow.Source != base.Source || overflow.Destination != base.Destination {
		t.Fatal("overflow route must keep the source and destination")
	}
	if overflow.DepartureTime != "09:00" {
		t.Fatalf("overflow departs at %s, want 09:00", overflow.DepartureTime)
	}
	if overflow.Seats.BookedCount() != 0 {
		t.Fatal("overflow route must start with every seat free")
	}

	// The hour wraps at midnight.
	if err := dir.SetDepartureTime(base.ID, "23:30"); err != nil {
		t.Fatalf("set time: %v", err)
	}
	late, err := dir.CreateOverflowRoute(base.ID)
	if err != nil {
		t.Fatalf("late overflow: %v", err)
	}
	if late.DepartureTime != "00:30" {
		t.Fatalf("late overflow departs at %s, want 00:30", late.DepartureTime)
	}

	if _, err := dir.CreateOverflowRoute(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("overflow of missing route: got %v, want ErrNotFound", err)
	}
}

func TestSetDepartureTime(t *testing.T) {
	dir := NewRouteDirectory(DefaultConfig())
	route, _, _ := dir.Resolve("Dhaka", "Rajshahi")

	if err := dir.SetDepartureTime(route.ID, "14:45"); err != nil {
		t.Fatalf("set time: %v", err)
	}
	if route.DepartureTime != "14:45" {
		t.Fatalf("departure time = %s, want 14:45", route.DepartureTime)
	}
	if err := dir.SetDepartureTime(route.ID, ""); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("empty time: got %v, want ErrInvalidTime", err)
	}
	if err := dir.SetDepartureTime(42, "10:00"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing route: got %v, want ErrNotFound", err)
	}
}

func TestDistinctDestinations(t *testing.T) {
	dir := NewRouteDirectory(DefaultConfig())
	dir.Resolve("Dhaka", "Chittagong")
	dir.Resolve("Sylhet", "chittagong")
	dir.Resolve("Dhaka", "Chandpur")

	dests := dir.DistinctDestinations()
	if len(dests) != 2 || dests[0] != "Chittagong" || dests[1] != "Chandpur" {
		t.Fatalf("DistinctDestinations = %v, want [Chittagong Chandpur]", dests)
	}
}

func TestParseDepartureTime(t *testing.T) {
	hour, minute, err := parseDepartureTime("07:05")
	if err != nil || hour != 7 || minute != 5 {
		t.Fatalf("parse 07:05 = (%d, %d, %v)", hour, minute, err)
	}

	for _, bad := range []string{"", "noon", "25:00", "10:75"} {
		if _, _, err := parseDepartureTime(bad); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("parse %q: got %v, want ErrInvalidTime", bad, err)
		}
	}
}
