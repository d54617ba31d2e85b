package conductor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/utils"
)

type ConductorUseCase interface {
	Routes(ctx context.Context) ([]domain.Route, error)
	Attach(ctx context.Context, routeID int64) (Status, error)
	Status(ctx context.Context, routeID int64) (Status, error)
	Advance(ctx context.Context, routeID int64) (Status, error)
	MoveTo(ctx context.Context, routeID int64, index int) (Status, error)
	SetPassengers(ctx context.Context, routeID int64, n int) (Status, error)
	AdjustPassengers(ctx context.Context, routeID int64, delta int) (Status, error)
	StartMoving(ctx context.Context, routeID int64) (Status, error)
	StopMoving(ctx context.Context, routeID int64) (Status, error)
}

type Catalog interface {
	ListRoutes() []domain.Route
	ListStations(routeID int64) []domain.Station
	ListBuses(routeID int64) []domain.Bus
	Route(id int64) (domain.Route, bool)
}

// Status is the live view a conductor sees for the bus on a route.
type Status struct {
	Route          domain.Route   `json:"route"`
	Bus            domain.Bus     `json:"bus"`
	StationIndex   int            `json:"station_index"`
	StationCount   int            `json:"station_count"`
	CurrentStation domain.Station `json:"current_station"`
	NextStation    domain.Station `json:"next_station"`
	Passengers     int            `json:"passengers"`
	FreeSeats      int            `json:"free_seats"`
	Moving         bool           `json:"moving"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type liveBus struct {
	route      domain.Route
	bus        domain.Bus
	stations   []domain.Station
	index      int
	passengers int
	updatedAt  time.Time
	stop       context.CancelFunc
}

// ConductorService keeps a live overlay per route. Fixture data is never written.
type ConductorService struct {
	catalog Catalog
	tick    time.Duration
	now     func() time.Time

	mu   sync.Mutex
	live map[int64]*liveBus

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*ConductorService)

func WithClock(now func() time.Time) Option {
	return func(s *ConductorService) {
		s.now = now
	}
}

func NewConductorService(catalog Catalog, tick time.Duration, opts ...Option) *ConductorService {
	base, cancel := context.WithCancel(context.Background())
	s := &ConductorService{
		catalog: catalog,
		tick:    tick,
		now:     time.Now,
		live:    make(map[int64]*liveBus),
		base:    base,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ConductorService) Routes(_ context.Context) ([]domain.Route, error) {
	return s.catalog.ListRoutes(), nil
}

// Attach puts the route's first bus at its first station. Attaching twice keeps the live state.
func (s *ConductorService) Attach(ctx context.Context, routeID int64) (Status, error) {
	route, ok := s.catalog.Route(routeID)
	if !ok {
		return Status{}, domain.NotFoundError{Resource: "route", ID: routeID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if lb, ok := s.live[routeID]; ok {
		return s.statusOf(lb), nil
	}

	buses := s.catalog.ListBuses(routeID)
	if len(buses) == 0 {
		return Status{}, domain.NotFoundError{Resource: fmt.Sprintf("bus on route %d", routeID)}
	}
	stations := s.catalog.ListStations(routeID)
	if len(stations) == 0 {
		return Status{}, domain.NotFoundError{Resource: fmt.Sprintf("stations on route %d", routeID)}
	}

	lb := &liveBus{
		route:      route,
		bus:        buses[0],
		stations:   stations,
		passengers: clamp(buses[0].PassengerCount, 0, buses[0].TotalSeats),
		updatedAt:  s.now(),
	}
	s.live[routeID] = lb
	utils.LogCtx(ctx, "conductor", "attach", fmt.Sprintf("route_id=%d bus_id=%d", routeID, lb.bus.ID))
	return s.statusOf(lb), nil
}

func (s *ConductorService) Status(_ context.Context, routeID int64) (Status, error) {
	return s.with(routeID, func(*liveBus) error { return nil })
}

// Advance moves to the next station, wrapping to the first after the terminus.
func (s *ConductorService) Advance(_ context.Context, routeID int64) (Status, error) {
	return s.with(routeID, func(lb *liveBus) error {
		lb.index = (lb.index + 1) % len(lb.stations)
		return nil
	})
}

func (s *ConductorService) MoveTo(_ context.Context, routeID int64, index int) (Status, error) {
	return s.with(routeID, func(lb *liveBus) error {
		if index < 0 || index >= len(lb.stations) {
			return domain.ValidationError{Field: "station_index", Msg: fmt.Sprintf("must be between 0 and %d", len(lb.stations)-1)}
		}
		lb.index = index
		return nil
	})
}

// SetPassengers clamps n to [0, total seats].
func (s *ConductorService) SetPassengers(_ context.Context, routeID int64, n int) (Status, error) {
	return s.with(routeID, func(lb *liveBus) error {
		lb.passengers = clamp(n, 0, lb.bus.TotalSeats)
		return nil
	})
}

func (s *ConductorService) AdjustPassengers(_ context.Context, routeID int64, delta int) (Status, error) {
	return s.with(routeID, func(lb *liveBus) error {
		lb.passengers = clamp(lb.passengers+delta, 0, lb.bus.TotalSeats)
		return nil
	})
}

// StartMoving advances the bus every tick until StopMoving or Close.
func (s *ConductorService) StartMoving(ctx context.Context, routeID int64) (Status, error) {
	st, err := s.with(routeID, func(lb *liveBus) error {
		if lb.stop != nil {
			return nil
		}
		if s.base.Err() != nil {
			return domain.ConflictError{Resource: "conductor", Msg: "service is shutting down"}
		}
		runCtx, stop := context.WithCancel(s.base)
		lb.stop = stop
		s.wg.Add(1)
		go s.drive(runCtx, routeID)
		return nil
	})
	if err == nil {
		utils.LogCtx(ctx, "conductor", "start_moving", fmt.Sprintf("route_id=%d tick=%s", routeID, s.tick))
	}
	return st, err
}

func (s *ConductorService) StopMoving(ctx context.Context, routeID int64) (Status, error) {
	st, err := s.with(routeID, func(lb *liveBus) error {
		if lb.stop != nil {
			lb.stop()
			lb.stop = nil
		}
		return nil
	})
	if err == nil {
		utils.LogCtx(ctx, "conductor", "stop_moving", fmt.Sprintf("route_id=%d", routeID))
	}
	return st, err
}

// Close stops every moving bus and waits for the tickers to exit. No bus starts moving afterwards.
func (s *ConductorService) Close() {
	s.mu.Lock()
	s.cancel()
	for _, lb := range s.live {
		lb.stop = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *ConductorService) drive(ctx context.Context, routeID int64) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Advance(ctx, routeID); err != nil {
				utils.LogEvent("", "conductor", "tick_failed", err.Error())
				return
			}
		}
	}
}

func (s *ConductorService) with(routeID int64, fn func(*liveBus) error) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lb, ok := s.live[routeID]
	if !ok {
		return Status{}, domain.PreconditionError{Msg: fmt.Sprintf("route %d has no attached bus", routeID)}
	}
	if err := fn(lb); err != nil {
		return Status{}, err
	}
	lb.updatedAt = s.now()
	return s.statusOf(lb), nil
}

func (s *ConductorService) statusOf(lb *liveBus) Status {
	return Status{
		Route:          lb.route,
		Bus:            lb.bus,
		StationIndex:   lb.index,
		StationCount:   len(lb.stations),
		CurrentStation: lb.stations[lb.index],
		NextStation:    lb.stations[(lb.index+1)%len(lb.stations)],
		Passengers:     lb.passengers,
		FreeSeats:      lb.bus.TotalSeats - lb.passengers,
		Moving:         lb.stop != nil,
		UpdatedAt:      lb.updatedAt,
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

var _ ConductorUseCase = (*ConductorService)(nil)
