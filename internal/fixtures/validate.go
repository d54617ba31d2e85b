package fixtures

import (
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Validate checks referential and ordering consistency. Every violation is reported.
func (ds Dataset) Validate() error {
	var errs []error

	routes := make(map[int64]bool, len(ds.Routes))
	for _, r := range ds.Routes {
		if routes[r.ID] {
			errs = append(errs, fmt.Errorf("route %d: duplicate id", r.ID))
		}
		routes[r.ID] = true
	}

	type routeOrder struct {
		routeID int64
		order   int
	}
	stations := make(map[int64]domain.Station, len(ds.Stations))
	orders := make(map[routeOrder]int64, len(ds.Stations))
	for _, s := range ds.Stations {
		if _, dup := stations[s.ID]; dup {
			errs = append(errs, fmt.Errorf("station %d: duplicate id", s.ID))
		}
		stations[s.ID] = s
		if !routes[s.RouteID] {
			errs = append(errs, fmt.Errorf("station %d: unknown route %d", s.ID, s.RouteID))
		}
		if s.Order < 1 {
			errs = append(errs, fmt.Errorf("station %d: order must be >= 1, got %d", s.ID, s.Order))
		}
		key := routeOrder{s.RouteID, s.Order}
		if other, dup := orders[key]; dup {
			errs = append(errs, fmt.Errorf("station %d: order %d on route %d already used by station %d", s.ID, s.Order, s.RouteID, other))
		}
		orders[key] = s.ID
	}

	buses := make(map[int64]bool, len(ds.Buses))
	for _, b := range ds.Buses {
		if buses[b.ID] {
			errs = append(errs, fmt.Errorf("bus %d: duplicate id", b.ID))
		}
		buses[b.ID] = true
		if !routes[b.RouteID] {
			errs = append(errs, fmt.Errorf("bus %d: unknown route %d", b.ID, b.RouteID))
		}
		st, ok := stations[b.CurrentStationID]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("bus %d: current station %d does not exist", b.ID, b.CurrentStationID))
		case st.RouteID != b.RouteID:
			errs = append(errs, fmt.Errorf("bus %d: current station %d belongs to route %d, bus runs route %d", b.ID, st.ID, st.RouteID, b.RouteID))
		}
		if b.TotalSeats <= 0 {
			errs = append(errs, fmt.Errorf("bus %d: total seats must be positive", b.ID))
		}
		if b.BookedSeats < 0 || b.BookedSeats > b.TotalSeats {
			errs = append(errs, fmt.Errorf("bus %d: booked seats %d outside [0, %d]", b.ID, b.BookedSeats, b.TotalSeats))
		}
		if !b.Status.Valid() {
			errs = append(errs, fmt.Errorf("bus %d: unknown status %q", b.ID, b.Status))
		}
		if b.Type != "" && !b.Type.Valid() {
			errs = append(errs, fmt.Errorf("bus %d: unknown type %q", b.ID, b.Type))
		}
		if _, err := domain.ClockOn(b.EstimatedArrival, time.Time{}); err != nil {
			errs = append(errs, fmt.Errorf("bus %d: estimated arrival: %w", b.ID, err))
		}
	}

	for _, u := range ds.Users {
		if !u.Role.Valid() {
			errs = append(errs, fmt.Errorf("user %d: unknown role %q", u.ID, u.Role))
		}
	}

	return errors.Join(errs...)
}
