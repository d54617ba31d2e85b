package booking

import (
	"slices"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/service/availability"
	"github.com/Domenick1991/dirabasi/internal/service/seating"
)

type StateView struct {
	Step      domain.Step      `json:"step"`
	Path      string           `json:"path"`
	Selection domain.Selection `json:"selection"`
}

type RouteCard struct {
	Route        domain.Route `json:"route"`
	Stops        int          `json:"stops"`
	ActiveBuses  int          `json:"active_buses"`
	ServiceLabel string       `json:"service_label"`
}

type StationsView struct {
	Route             domain.Route               `json:"route"`
	Stations          []availability.StationView `json:"stations"`
	ActiveBus         *domain.Bus                `json:"active_bus,omitempty"`
	ActiveBusStation  *domain.Station            `json:"active_bus_station,omitempty"`
	SelectedStationID *int64                     `json:"selected_station_id,omitempty"`
}

type BusesView struct {
	Route   domain.Route           `json:"route"`
	Station domain.Station         `json:"station"`
	Query   availability.Query     `json:"query"`
	Buses   []availability.BusView `json:"buses"`
}

type SeatMapView struct {
	Bus            domain.Bus       `json:"bus"`
	Seats          []domain.Seat    `json:"seats"`
	Draft          domain.SeatDraft `json:"draft"`
	Quote          seating.Quote    `json:"quote"`
	CanContinue    bool             `json:"can_continue"`
	SeatsRemaining int              `json:"seats_remaining"`
}

func stateOf(sel domain.Selection) StateView {
	step := sel.Step
	if step == "" {
		step = domain.StepRouteChoice
	}
	return StateView{Step: step, Path: step.Path(), Selection: sel}
}

func requireRoute(sel domain.Selection) error {
	if sel.Route == nil {
		return domain.PreconditionError{Msg: "select a route first", Redirect: domain.StepRouteChoice}
	}
	return nil
}

func requireStation(sel domain.Selection) error {
	if err := requireRoute(sel); err != nil {
		return err
	}
	if sel.Station == nil {
		return domain.PreconditionError{Msg: "select a station first", Redirect: domain.StepStationChoice}
	}
	return nil
}

func requireBus(sel domain.Selection) error {
	if err := requireStation(sel); err != nil {
		return err
	}
	if sel.Bus == nil || sel.Draft == nil {
		return domain.PreconditionError{Msg: "select a bus first", Redirect: domain.StepBusAvailability}
	}
	return nil
}

func requireBooking(sel domain.Selection) error {
	if err := requireBus(sel); err != nil {
		return err
	}
	if sel.Booking == nil {
		return domain.PreconditionError{Msg: "confirm your seats first", Redirect: domain.StepSeatSelection}
	}
	return nil
}

func requirePayment(sel domain.Selection) error {
	if err := requireBooking(sel); err != nil {
		return err
	}
	if sel.Payment == nil {
		return domain.PreconditionError{Msg: "complete payment first", Redirect: domain.StepPaymentForm}
	}
	return nil
}

func alreadyPaid() error {
	return domain.ConflictError{Resource: "booking", Msg: "already paid, start a new booking"}
}

func changedDuringPayment() error {
	return domain.ConflictError{Resource: "booking", Msg: "booking changed during payment"}
}

// editable rejects changes to a paid booking or one with a charge in flight.
func editable(sel domain.Selection) error {
	if sel.Payment != nil {
		return alreadyPaid()
	}
	if sel.PendingPayment != "" {
		return domain.ConflictError{Resource: "booking", Msg: "payment in progress"}
	}
	return nil
}

func sameBooking(a, b domain.BookingData) bool {
	return a.Bus.ID == b.Bus.ID && a.TotalPrice == b.TotalPrice && a.LuggageCount == b.LuggageCount &&
		slices.Equal(a.SelectedSeats, b.SelectedSeats)
}
