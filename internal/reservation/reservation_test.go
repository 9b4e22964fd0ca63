package reservation_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-busline/internal/identity"
	"github.com/mateusmacedo/go-busline/internal/reservation"
	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-busline/pkg/infrastructure"
)

func newTestRouter(t *testing.T) (chi.Router, *domain.Service) {
	t.Helper()

	logger := pkgApp.NewNopLogger()
	cfg := domain.DefaultConfig()
	service := domain.NewService(cfg, logger)
	users := identity.NewRegistry(cfg.MaxUsers, logger)

	bookBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket]()
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](logger)

	slice := reservation.NewSlice(service, users, bookBus, findBus, eventBus, logger)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)
	return router, service
}

func doJSON(t *testing.T, router chi.Router, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBookAndFetchTicketOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/tickets", application.BookTicketData{
		Source:      "Dhaka",
		Destination: "Chittagong",
		Seat:        12,
		Name:        "Alice",
		Phone:       "111",
		Method:      "Bkash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /tickets = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/tickets/0/12", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tickets/0/12 = %d: %s", rec.Code, rec.Body.String())
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &ticket); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if ticket.Passenger != "Alice" || ticket.Status != "CONFIRMED" || ticket.TotalPaid != 510.0 {
		t.Fatalf("ticket = %+v", ticket)
	}
}

func TestHTTPStatusCodesMapDomainErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	book := application.BookTicketData{
		Source: "Dhaka", Destination: "Chittagong", Seat: 5,
		Name: "Alice", Phone: "111", Method: "Cash",
	}
	if rec := doJSON(t, router, http.MethodPost, "/tickets", book); rec.Code != http.StatusCreated {
		t.Fatalf("first booking = %d", rec.Code)
	}

	// Same seat again: conflict.
	if rec := doJSON(t, router, http.MethodPost, "/tickets", book); rec.Code != http.StatusConflict {
		t.Fatalf("double booking = %d, want 409", rec.Code)
	}

	// Out-of-range seat: bad request.
	book.Seat = 99
	if rec := doJSON(t, router, http.MethodPost, "/tickets", book); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid seat = %d, want 400", rec.Code)
	}

	// Unknown ticket: not found.
	if rec := doJSON(t, router, http.MethodGet, "/tickets/0/39", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing ticket = %d, want 404", rec.Code)
	}

	// Garbage route id: bad request before any dispatch.
	if rec := doJSON(t, router, http.MethodGet, "/tickets/zero/1", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad route id = %d, want 400", rec.Code)
	}
}

func TestCancelAndEditOverHTTP(t *testing.T) {
	router, service := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/tickets", application.BookTicketData{
		Source: "Dhaka", Destination: "Chittagong", Seat: 7,
		Name: "Alice", Phone: "111", Method: "Cash",
	})

	rec := doJSON(t, router, http.MethodPatch, "/reservations/111", map[string]string{
		"newName":  "Alicia",
		"newPhone": "999",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH /reservations/111 = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/reservations/999", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /reservations/999 = %d: %s", rec.Code, rec.Body.String())
	}
	if service.BookedSeats() != 0 {
		t.Fatalf("BookedSeats = %d after cancel, want 0", service.BookedSeats())
	}

	rec = doJSON(t, router, http.MethodDelete, "/reservations/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestAdminCancelSeatOverHTTP(t *testing.T) {
	router, service := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/tickets", application.BookTicketData{
		Source: "Dhaka", Destination: "Chittagong", Seat: 3,
		Name: "Alice", Phone: "111", Method: "Cash",
	})

	rec := doJSON(t, router, http.MethodDelete, "/admin/reservations?destination=chittagong&seat=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin cancel = %d: %s", rec.Code, rec.Body.String())
	}
	if service.BookedSeats() != 0 {
		t.Fatalf("BookedSeats = %d, want 0", service.BookedSeats())
	}

	rec = doJSON(t, router, http.MethodDelete, "/admin/reservations?destination=chittagong", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing seat param = %d, want 400", rec.Code)
	}
}

func TestRoutesAndAvailabilityOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/availability?source=Dhaka&destination=Sylhet", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /availability = %d: %s", rec.Code, rec.Body.String())
	}
	var view domain.AvailabilityView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if !view.Created || view.AvailableCount != 40 {
		t.Fatalf("availability = %+v", view)
	}

	rec = doJSON(t, router, http.MethodPut, "/routes/time", application.SetBusTimeData{
		Source: "Dhaka", Destination: "Sylhet", DepartureTime: "16:20",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /routes/time = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /routes = %d", rec.Code)
	}
	var routes []domain.RouteView
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode routes: %v", err)
	}
	if len(routes) != 1 || routes[0].DepartureTime != "16:20" {
		t.Fatalf("routes = %+v", routes)
	}

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/routes/%d/overflow", routes[0].ID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST overflow = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/routes", nil)
	routes = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode routes: %v", err)
	}
	if len(routes) != 2 || routes[1].DepartureTime != "17:20" {
		t.Fatalf("routes after overflow = %+v", routes)
	}
}

func TestSearchEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/tickets", application.BookTicketData{
		Source: "Dhaka", Destination: "Chittagong", Seat: 1,
		Name: "Alice", Phone: "111", Method: "Cash",
	})

	rec := doJSON(t, router, http.MethodGet, "/search/phone/111", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /search/phone/111 = %d", rec.Code)
	}
	var details []domain.BookingDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details) != 1 || details[0].Name != "Alice" {
		t.Fatalf("details = %+v", details)
	}

	rec = doJSON(t, router, http.MethodGet, "/search/destination/Chi", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /search/destination/Chi = %d", rec.Code)
	}
	var result domain.DestinationSearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.ExactMatch || len(result.Hints) != 1 || result.Hints[0] != "Chittagong" {
		t.Fatalf("result = %+v, want hint Chittagong", result)
	}
}

func TestSignupAndLoginOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	creds := map[string]string{"username": "alice", "password": "s3cret"}
	if rec := doJSON(t, router, http.MethodPost, "/signup", creds); rec.Code != http.StatusCreated {
		t.Fatalf("signup = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, router, http.MethodPost, "/signup", creds); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d, want 409", rec.Code)
	}

	if rec := doJSON(t, router, http.MethodPost, "/login", creds); rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}
	bad := map[string]string{"username": "alice", "password": "nope"}
	if rec := doJSON(t, router, http.MethodPost, "/login", bad); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d, want 401", rec.Code)
	}
}
