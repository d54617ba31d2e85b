package domain

import (
	"fmt"
	"time"
)

type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

func (s BusStatus) Valid() bool {
	switch s {
	case BusStatusActive, BusStatusMaintenance, BusStatusInactive:
		return true
	}
	return false
}

type BusType string

const (
	BusTypeStandard BusType = "standard"
	BusTypeExpress  BusType = "express"
)

func (t BusType) Valid() bool {
	return t == BusTypeStandard || t == BusTypeExpress
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Route struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Station is a stop on a route. Order is 1-based and is the only ordering signal along the route.
type Station struct {
	ID       int64     `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	RouteID  int64     `json:"route_id" yaml:"route_id"`
	Order    int       `json:"order" yaml:"order"`
	Location *GeoPoint `json:"location,omitempty" yaml:"location,omitempty"`
}

type Bus struct {
	ID               int64     `json:"id" yaml:"id"`
	PlateNumber      string    `json:"plate_number" yaml:"plate_number"`
	RouteID          int64     `json:"route_id" yaml:"route_id"`
	CurrentStationID int64     `json:"current_station_id" yaml:"current_station_id"`
	TotalSeats       int       `json:"total_seats" yaml:"total_seats"`
	BookedSeats      int       `json:"booked_seats" yaml:"booked_seats"`
	Status           BusStatus `json:"status" yaml:"status"`
	EstimatedArrival string    `json:"estimated_arrival" yaml:"estimated_arrival"`
	PassengerCount   int       `json:"passenger_count" yaml:"passenger_count"`
	Type             BusType   `json:"type" yaml:"type"`
	Fare             int64     `json:"fare" yaml:"fare"`
	Location         *GeoPoint `json:"location,omitempty" yaml:"location,omitempty"`
}

// FreeSeats returns the number of seats not yet booked, never negative.
func (b Bus) FreeSeats() int {
	free := b.TotalSeats - b.BookedSeats
	if free < 0 {
		return 0
	}
	return free
}

// ArrivalToday resolves EstimatedArrival (HH:MM) against the calendar day of now, in now's location.
func (b Bus) ArrivalToday(now time.Time) (time.Time, error) {
	return ClockOn(b.EstimatedArrival, now)
}

// ClockOn places an HH:MM wall-clock time on the day of ref.
func ClockOn(hhmm string, ref time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", hhmm, err)
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}
