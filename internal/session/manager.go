package session

import (
	"context"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/google/uuid"
)

// Manager is the Selection Context: typed setters over a Store. Every setter is a single atomic
// update and is visible to the next read of the same session.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// NewID returns a fresh session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

func (m *Manager) Get(ctx context.Context, sid string) (domain.Selection, error) {
	return m.store.Load(ctx, sid)
}

func (m *Manager) SetUser(ctx context.Context, sid string, user domain.User) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.User = &user
		if s.Step == "" {
			s.Step = domain.StepRouteChoice
		}
		return nil
	})
}

// SetRoute stores the route and clears everything selected after it.
func (m *Manager) SetRoute(ctx context.Context, sid string, route domain.Route) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.Route = &route
		s.Station, s.Bus = nil, nil
		clearBooking(s)
		return nil
	})
}

// SetStation rejects a station that does not belong to the selected route.
func (m *Manager) SetStation(ctx context.Context, sid string, station domain.Station) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		if s.Route == nil {
			return domain.PreconditionError{Msg: "select a route first", Redirect: domain.StepRouteChoice}
		}
		if station.RouteID != s.Route.ID {
			return domain.ValidationError{Field: "station", Msg: "station is not on the selected route"}
		}
		s.Station = &station
		s.Bus = nil
		clearBooking(s)
		return nil
	})
}

// SetBus rejects a bus whose route differs from the selected station's route.
func (m *Manager) SetBus(ctx context.Context, sid string, bus domain.Bus) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		if s.Station == nil {
			return domain.PreconditionError{Msg: "select a station first", Redirect: domain.StepStationChoice}
		}
		if bus.RouteID != s.Station.RouteID {
			return domain.ValidationError{Field: "bus", Msg: "bus does not serve the selected station's route"}
		}
		s.Bus = &bus
		clearBooking(s)
		return nil
	})
}

func (m *Manager) SetDraft(ctx context.Context, sid string, draft domain.SeatDraft) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.Draft = &draft
		return nil
	})
}

// SetBookingData replaces the booking payload as a whole and drops any earlier payment.
func (m *Manager) SetBookingData(ctx context.Context, sid string, data domain.BookingData) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.Booking = &data
		s.Payment = nil
		return nil
	})
}

func (m *Manager) SetPayment(ctx context.Context, sid string, result domain.PaymentResult) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.Payment = &result
		return nil
	})
}

func (m *Manager) SetStep(ctx context.Context, sid string, step domain.Step) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		s.Step = step
		return nil
	})
}

// Update runs fn against the stored selection atomically; used by flows that must check and
// write in one step.
func (m *Manager) Update(ctx context.Context, sid string, fn func(*domain.Selection) error) (domain.Selection, error) {
	return m.store.Update(ctx, sid, fn)
}

// ResetFlow clears the booking flow but keeps the signed-in user.
func (m *Manager) ResetFlow(ctx context.Context, sid string) (domain.Selection, error) {
	return m.store.Update(ctx, sid, func(s *domain.Selection) error {
		user := s.User
		*s = domain.Selection{User: user, Step: domain.StepRouteChoice}
		return nil
	})
}

// Logout drops every field of the session.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, sid)
}

func clearBooking(s *domain.Selection) {
	s.Draft = nil
	s.Booking = nil
	s.Payment = nil
	s.PendingPayment = ""
}
