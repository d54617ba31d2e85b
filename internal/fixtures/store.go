package fixtures

import (
	"fmt"
	"sort"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Store is the read-only, indexed view over a validated dataset.
// All list methods return copies; callers may modify them freely.
type Store struct {
	routes      []domain.Route
	stations    map[int64][]domain.Station
	stationByID map[int64]domain.Station
	buses       []domain.Bus
	busByID     map[int64]domain.Bus
	users       []domain.User
}

type Option func(*options)

type options struct {
	defaultBusFare int64
}

// WithDefaultBusFare sets the fare given to buses that declare none.
func WithDefaultBusFare(fare int64) Option {
	return func(o *options) { o.defaultBusFare = fare }
}

// New validates ds and builds the store. It fails on the first inconsistent dataset.
func New(ds Dataset, opts ...Option) (*Store, error) {
	o := options{defaultBusFare: 5000}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}

	s := &Store{
		routes:      append([]domain.Route(nil), ds.Routes...),
		stations:    make(map[int64][]domain.Station),
		stationByID: make(map[int64]domain.Station, len(ds.Stations)),
		busByID:     make(map[int64]domain.Bus, len(ds.Buses)),
		users:       append([]domain.User(nil), ds.Users...),
	}
	sort.SliceStable(s.routes, func(i, j int) bool { return s.routes[i].ID < s.routes[j].ID })

	for _, st := range ds.Stations {
		s.stations[st.RouteID] = append(s.stations[st.RouteID], st)
		s.stationByID[st.ID] = st
	}
	for id := range s.stations {
		list := s.stations[id]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	}

	for _, b := range ds.Buses {
		if b.Type == "" {
			b.Type = domain.BusTypeStandard
		}
		if b.Fare == 0 {
			b.Fare = o.defaultBusFare
		}
		s.buses = append(s.buses, b)
		s.busByID[b.ID] = b
	}
	sort.SliceStable(s.buses, func(i, j int) bool { return s.buses[i].ID < s.buses[j].ID })

	return s, nil
}

// ListRoutes returns every route ordered by id.
func (s *Store) ListRoutes() []domain.Route {
	return append([]domain.Route(nil), s.routes...)
}

// ListStations returns the stations of a route sorted by order. Unknown routes yield an empty list.
func (s *Store) ListStations(routeID int64) []domain.Station {
	return append([]domain.Station{}, s.stations[routeID]...)
}

// ListBuses returns the buses of a route ordered by id; routeID 0 lists all buses.
func (s *Store) ListBuses(routeID int64) []domain.Bus {
	out := make([]domain.Bus, 0, len(s.buses))
	for _, b := range s.buses {
		if routeID == 0 || b.RouteID == routeID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) Route(id int64) (domain.Route, bool) {
	for _, r := range s.routes {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Route{}, false
}

func (s *Store) Station(id int64) (domain.Station, bool) {
	st, ok := s.stationByID[id]
	return st, ok
}

func (s *Store) Bus(id int64) (domain.Bus, bool) {
	b, ok := s.busByID[id]
	return b, ok
}

// StationOrder is the order of the bus's current station, 0 when it cannot be resolved.
func (s *Store) StationOrder(b domain.Bus) int {
	st, ok := s.stationByID[b.CurrentStationID]
	if !ok {
		return 0
	}
	return st.Order
}

func (s *Store) Users() []domain.User {
	return append([]domain.User(nil), s.users...)
}
