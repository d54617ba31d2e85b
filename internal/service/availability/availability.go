package availability

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Fixtures is the read side of the fixture store this package needs.
type Fixtures interface {
	ListStations(routeID int64) []domain.Station
	ListBuses(routeID int64) []domain.Bus
	Station(id int64) (domain.Station, bool)
}

type Occupancy struct {
	Percent int    `json:"percent"`
	Band    string `json:"band"`
	Label   string `json:"label"`
}

// BusView is a bus as seen from the traveler's station.
type BusView struct {
	Bus          domain.Bus `json:"bus"`
	StationOrder int        `json:"station_order"`
	StopsAway    int        `json:"stops_away"`
	FreeSeats    int        `json:"free_seats"`
	ETAMinutes   int        `json:"eta_minutes"`
	Occupancy    Occupancy  `json:"occupancy"`
}

type StationView struct {
	Station    domain.Station `json:"station"`
	IsStart    bool           `json:"is_start"`
	IsEnd      bool           `json:"is_end"`
	BusHere    bool           `json:"bus_here"`
	ETAMinutes *int           `json:"eta_minutes,omitempty"`
	NextBusAt  *time.Time     `json:"next_bus_at,omitempty"`
}

type Calculator struct {
	fixtures       Fixtures
	window         int
	minutesPerStop int
	speedKmph      int
	loc            *time.Location
}

type Option func(*Calculator)

func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		c.loc = loc
	}
}

func NewCalculator(fixtures Fixtures, cfg config.BookingConfig, opts ...Option) *Calculator {
	c := &Calculator{
		fixtures:       fixtures,
		window:         cfg.ProximityWindow,
		minutesPerStop: cfg.MinutesPerStop,
		speedKmph:      cfg.AverageSpeedKmph,
		loc:            cfg.Location(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Nearby returns the buses of station's route whose current station lies within the proximity window, in fixture order.
func (c *Calculator) Nearby(station domain.Station) []domain.Bus {
	var out []domain.Bus
	for _, b := range c.fixtures.ListBuses(station.RouteID) {
		order := c.orderOf(b)
		if order == 0 {
			continue
		}
		if abs(order-station.Order) <= c.window {
			out = append(out, b)
		}
	}
	return out
}

// Available applies q to the nearby buses. The result is deterministic for a fixed now.
func (c *Calculator) Available(station domain.Station, q Query, now time.Time) ([]BusView, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	views := make([]BusView, 0)
	for _, b := range c.Nearby(station) {
		if b.FreeSeats() < q.MinSeats || b.Fare > q.MaxPrice {
			continue
		}
		if !q.allowsType(b.Type) || !q.allowsStatus(b.Status) {
			continue
		}
		views = append(views, c.View(b, station, now))
	}

	less := func(a, b BusView) bool {
		switch q.Sort {
		case SortBySeats:
			return a.FreeSeats < b.FreeSeats
		case SortByPrice:
			return a.Bus.Fare < b.Bus.Fare
		default:
			return a.ETAMinutes < b.ETAMinutes
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		if q.Dir == Desc {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
	return views, nil
}

func (c *Calculator) View(b domain.Bus, station domain.Station, now time.Time) BusView {
	order := c.orderOf(b)
	return BusView{
		Bus:          b,
		StationOrder: order,
		StopsAway:    abs(order - station.Order),
		FreeSeats:    b.FreeSeats(),
		ETAMinutes:   c.ETAMinutes(b, now),
		Occupancy:    OccupancyOf(b),
	}
}

// ETAMinutes is the whole minutes until the bus's HH:MM arrival today, clamped at zero.
func (c *Calculator) ETAMinutes(b domain.Bus, now time.Time) int {
	local := now.In(c.loc)
	arrival, err := b.ArrivalToday(local)
	if err != nil {
		return 0
	}
	minutes := int(math.Floor(arrival.Sub(local).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}

// StationETA estimates minutes for b to reach station: by straight-line distance when both ends have coordinates, else per hop.
func (c *Calculator) StationETA(b domain.Bus, station domain.Station) int {
	from := b.Location
	if from == nil {
		if cur, ok := c.fixtures.Station(b.CurrentStationID); ok {
			from = cur.Location
		}
	}
	if from != nil && station.Location != nil && c.speedKmph > 0 {
		km := HaversineKm(*from, *station.Location)
		return int(math.Round(km / float64(c.speedKmph) * 60))
	}
	return abs(c.orderOf(b)-station.Order) * c.minutesPerStop
}

// NextStation returns the station following order on the route; none at the terminus.
func (c *Calculator) NextStation(routeID int64, order int) (domain.Station, bool) {
	for _, s := range c.fixtures.ListStations(routeID) {
		if s.Order > order {
			return s, true
		}
	}
	return domain.Station{}, false
}

// ActiveBus is the lowest-id active bus on the route.
func (c *Calculator) ActiveBus(routeID int64) (domain.Bus, bool) {
	for _, b := range c.fixtures.ListBuses(routeID) {
		if b.Status == domain.BusStatusActive {
			return b, true
		}
	}
	return domain.Bus{}, false
}

// Board lists a route's stations by order with start/end markers and next-bus estimates.
func (c *Calculator) Board(routeID int64, now time.Time) []StationView {
	stations := c.fixtures.ListStations(routeID)
	active, hasActive := c.ActiveBus(routeID)

	here := make(map[int64]bool)
	for _, b := range c.fixtures.ListBuses(routeID) {
		if b.Status == domain.BusStatusActive {
			here[b.CurrentStationID] = true
		}
	}

	out := make([]StationView, 0, len(stations))
	for i, s := range stations {
		v := StationView{
			Station: s,
			IsStart: i == 0,
			IsEnd:   i == len(stations)-1,
			BusHere: here[s.ID],
		}
		if hasActive {
			eta := c.StationETA(active, s)
			at := now.In(c.loc).Add(time.Duration(eta) * time.Minute)
			v.ETAMinutes = &eta
			v.NextBusAt = &at
		}
		out = append(out, v)
	}
	return out
}

// ServiceLabel summarizes a route by how many active buses it has.
func ServiceLabel(activeBuses int) string {
	if activeBuses > 0 {
		return "Good service"
	}
	return "No buses available"
}

func OccupancyOf(b domain.Bus) Occupancy {
	pct := 0
	if b.TotalSeats > 0 {
		pct = int(math.Round(float64(b.BookedSeats) / float64(b.TotalSeats) * 100))
	}

	band := "low"
	switch {
	case pct > 75:
		band = "high"
	case pct > 50:
		band = "elevated"
	case pct > 25:
		band = "moderate"
	}

	free := b.FreeSeats()
	var label string
	switch {
	case free == 0:
		label = "Full"
	case free == 1:
		label = "Only 1 seat left"
	case free <= 5:
		label = fmt.Sprintf("Only %d seats left", free)
	default:
		label = fmt.Sprintf("%d seats available", free)
	}
	return Occupancy{Percent: pct, Band: band, Label: label}
}

func (c *Calculator) orderOf(b domain.Bus) int {
	st, ok := c.fixtures.Station(b.CurrentStationID)
	if !ok || st.RouteID != b.RouteID {
		return 0
	}
	return st.Order
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
