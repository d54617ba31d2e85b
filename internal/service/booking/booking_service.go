package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/kafka"
	"github.com/Domenick1991/dirabasi/internal/receipt"
	"github.com/Domenick1991/dirabasi/internal/service/availability"
	"github.com/Domenick1991/dirabasi/internal/service/payment"
	"github.com/Domenick1991/dirabasi/internal/service/seating"
	"github.com/Domenick1991/dirabasi/internal/session"
	"github.com/Domenick1991/dirabasi/internal/utils"
	"github.com/google/uuid"
)

// BookingUseCase is the traveler flow: route, station, bus, seats, payment, receipt.
type BookingUseCase interface {
	State(ctx context.Context, sid string) (StateView, error)
	Routes(ctx context.Context) ([]RouteCard, error)
	ChooseRoute(ctx context.Context, sid string, routeID int64) (StateView, error)
	Stations(ctx context.Context, sid string, now time.Time) (StationsView, error)
	ChooseStation(ctx context.Context, sid string, stationID int64) (StateView, error)
	Buses(ctx context.Context, sid string, q availability.Query, now time.Time) (BusesView, error)
	ChooseBus(ctx context.Context, sid string, busID int64) (StateView, error)
	SeatMap(ctx context.Context, sid string) (SeatMapView, error)
	ToggleSeat(ctx context.Context, sid string, seatID int) (SeatMapView, error)
	SetPassengers(ctx context.Context, sid string, n int) (SeatMapView, error)
	SetLuggage(ctx context.Context, sid string, n int) (SeatMapView, error)
	ConfirmSeats(ctx context.Context, sid string) (StateView, error)
	SubmitPayment(ctx context.Context, sid string, form payment.Form) (domain.PaymentResult, error)
	Receipt(ctx context.Context, sid string, now time.Time) (receipt.Ticket, error)
	ReceiptPDF(ctx context.Context, sid string, now time.Time) ([]byte, string, error)
	Back(ctx context.Context, sid string) (StateView, error)
	NewBooking(ctx context.Context, sid string) (StateView, error)
	Logout(ctx context.Context, sid string) error
}

// Catalog is the read-only fixture data the flow browses.
type Catalog interface {
	ListRoutes() []domain.Route
	ListStations(routeID int64) []domain.Station
	ListBuses(routeID int64) []domain.Bus
	Route(id int64) (domain.Route, bool)
	Station(id int64) (domain.Station, bool)
	Bus(id int64) (domain.Bus, bool)
}

type Payer interface {
	Pay(ctx context.Context, form payment.Form, amount int64) (domain.PaymentResult, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type BookingService struct {
	catalog            Catalog
	sessions           *session.Manager
	calc               *availability.Calculator
	planner            *seating.Planner
	payer              Payer
	issuer             *receipt.Issuer
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	publishRetries     int
	currency           string
}

type BookingServiceOption func(*BookingService)

// WithProducer enables booking events on topic.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithPublishRetries sets how many attempts each booking event gets.
func WithPublishRetries(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.publishRetries = n
		}
	}
}

func WithCurrency(currency string) BookingServiceOption {
	return func(s *BookingService) {
		s.currency = currency
	}
}

func NewBookingService(
	catalog Catalog,
	sessions *session.Manager,
	calc *availability.Calculator,
	planner *seating.Planner,
	payer Payer,
	issuer *receipt.Issuer,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		catalog:  catalog,
		sessions: sessions,
		calc:     calc,
		planner:  planner,
		payer:    payer,
		issuer:   issuer,
		currency: "TZS",

		publishRetries: 3,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) State(ctx context.Context, sid string) (StateView, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return StateView{}, err
	}
	return stateOf(sel), nil
}

func (s *BookingService) Routes(ctx context.Context) ([]RouteCard, error) {
	routes := s.catalog.ListRoutes()
	cards := make([]RouteCard, 0, len(routes))
	for _, r := range routes {
		active := 0
		for _, b := range s.catalog.ListBuses(r.ID) {
			if b.Status == domain.BusStatusActive {
				active++
			}
		}
		cards = append(cards, RouteCard{
			Route:        r,
			Stops:        len(s.catalog.ListStations(r.ID)),
			ActiveBuses:  active,
			ServiceLabel: availability.ServiceLabel(active),
		})
	}
	return cards, nil
}

func (s *BookingService) ChooseRoute(ctx context.Context, sid string, routeID int64) (StateView, error) {
	route, ok := s.catalog.Route(routeID)
	if !ok {
		return StateView{}, domain.NotFoundError{Resource: "route", ID: routeID}
	}
	if _, err := s.sessions.SetRoute(ctx, sid, route); err != nil {
		return StateView{}, err
	}
	utils.LogCtx(ctx, "booking", "choose_route", fmt.Sprintf("route_id=%d", routeID))
	return s.advance(ctx, sid, domain.StepStationChoice)
}

func (s *BookingService) Stations(ctx context.Context, sid string, now time.Time) (StationsView, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return StationsView{}, err
	}
	if err := requireRoute(sel); err != nil {
		return StationsView{}, err
	}

	view := StationsView{
		Route:    *sel.Route,
		Stations: s.calc.Board(sel.Route.ID, now),
	}
	if bus, ok := s.calc.ActiveBus(sel.Route.ID); ok {
		view.ActiveBus = &bus
		if st, ok := s.catalog.Station(bus.CurrentStationID); ok {
			view.ActiveBusStation = &st
		}
	}
	if sel.Station != nil {
		id := sel.Station.ID
		view.SelectedStationID = &id
	}
	return view, nil
}

func (s *BookingService) ChooseStation(ctx context.Context, sid string, stationID int64) (StateView, error) {
	station, ok := s.catalog.Station(stationID)
	if !ok {
		return StateView{}, domain.NotFoundError{Resource: "station", ID: stationID}
	}
	if _, err := s.sessions.SetStation(ctx, sid, station); err != nil {
		return StateView{}, err
	}
	utils.LogCtx(ctx, "booking", "choose_station", fmt.Sprintf("station_id=%d", stationID))
	return s.advance(ctx, sid, domain.StepBusAvailability)
}

func (s *BookingService) Buses(ctx context.Context, sid string, q availability.Query, now time.Time) (BusesView, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return BusesView{}, err
	}
	if err := requireStation(sel); err != nil {
		return BusesView{}, err
	}

	q, err = q.Normalize()
	if err != nil {
		return BusesView{}, err
	}
	buses, err := s.calc.Available(*sel.Station, q, now)
	if err != nil {
		return BusesView{}, err
	}
	return BusesView{Route: *sel.Route, Station: *sel.Station, Query: q, Buses: buses}, nil
}

func (s *BookingService) ChooseBus(ctx context.Context, sid string, busID int64) (StateView, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return StateView{}, err
	}
	if err := requireStation(sel); err != nil {
		return StateView{}, err
	}

	bus, ok := s.catalog.Bus(busID)
	if !ok {
		return StateView{}, domain.NotFoundError{Resource: "bus", ID: busID}
	}
	if !s.isNearby(*sel.Station, busID) {
		return StateView{}, domain.ValidationError{Field: "bus", Msg: "bus is not near the selected station"}
	}
	if bus.Status != domain.BusStatusActive {
		return StateView{}, domain.ConflictError{Resource: "bus", Msg: fmt.Sprintf("bus %s is %s", bus.PlateNumber, bus.Status)}
	}
	if bus.FreeSeats() == 0 {
		return StateView{}, domain.ConflictError{Resource: "bus", Msg: fmt.Sprintf("bus %s is full", bus.PlateNumber)}
	}

	if _, err := s.sessions.SetBus(ctx, sid, bus); err != nil {
		return StateView{}, err
	}
	if _, err := s.sessions.SetDraft(ctx, sid, seating.NewDraft(bus.ID)); err != nil {
		return StateView{}, err
	}
	utils.LogCtx(ctx, "booking", "choose_bus", fmt.Sprintf("bus_id=%d", busID))
	return s.advance(ctx, sid, domain.StepSeatSelection)
}

func (s *BookingService) SeatMap(ctx context.Context, sid string) (SeatMapView, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return SeatMapView{}, err
	}
	if err := requireBus(sel); err != nil {
		return SeatMapView{}, err
	}
	return s.seatMapOf(sel), nil
}

func (s *BookingService) ToggleSeat(ctx context.Context, sid string, seatID int) (SeatMapView, error) {
	return s.editDraft(ctx, sid, func(d domain.SeatDraft, bus domain.Bus) (domain.SeatDraft, error) {
		return s.planner.Toggle(d, bus, seatID)
	})
}

func (s *BookingService) SetPassengers(ctx context.Context, sid string, n int) (SeatMapView, error) {
	return s.editDraft(ctx, sid, func(d domain.SeatDraft, _ domain.Bus) (domain.SeatDraft, error) {
		return s.planner.SetPassengers(d, n)
	})
}

func (s *BookingService) SetLuggage(ctx context.Context, sid string, n int) (SeatMapView, error) {
	return s.editDraft(ctx, sid, func(d domain.SeatDraft, _ domain.Bus) (domain.SeatDraft, error) {
		return s.planner.SetLuggage(d, n)
	})
}

func (s *BookingService) ConfirmSeats(ctx context.Context, sid string) (StateView, error) {
	var data domain.BookingData
	sel, err := s.sessions.Update(ctx, sid, func(cur *domain.Selection) error {
		if err := requireBus(*cur); err != nil {
			return err
		}
		if err := editable(*cur); err != nil {
			return err
		}
		next, err := s.planner.Finalize(*cur.Draft, *cur.Bus)
		if err != nil {
			return err
		}
		data = next
		cur.Booking = &next
		cur.Payment = nil
		cur.Step = domain.StepPaymentForm
		return nil
	})
	if err != nil {
		return StateView{}, err
	}
	utils.LogCtx(ctx, "booking", "confirm_seats", fmt.Sprintf("bus_id=%d seats=%v total=%d", data.Bus.ID, data.SelectedSeats, data.TotalPrice))
	return stateOf(sel), nil
}

// SubmitPayment reserves the confirmed booking, charges it, and stores the result only if the
// booking still matches what was charged.
func (s *BookingService) SubmitPayment(ctx context.Context, sid string, form payment.Form) (domain.PaymentResult, error) {
	token := uuid.NewString()
	var charged domain.BookingData
	_, err := s.sessions.Update(ctx, sid, func(cur *domain.Selection) error {
		if err := requireBooking(*cur); err != nil {
			return err
		}
		if err := editable(*cur); err != nil {
			return err
		}
		charged = *cur.Booking
		charged.SelectedSeats = append([]int(nil), cur.Booking.SelectedSeats...)
		cur.PendingPayment = token
		return nil
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	res, err := s.payer.Pay(ctx, form, charged.TotalPrice)
	if err != nil {
		s.releasePayment(ctx, sid, token)
		utils.LogCtx(ctx, "payment", "charge_failed", err.Error())
		return domain.PaymentResult{}, err
	}

	// The charge went through; record it even if the request is gone.
	sel, err := s.sessions.Update(context.WithoutCancel(ctx), sid, func(cur *domain.Selection) error {
		if cur.PendingPayment != token {
			return changedDuringPayment()
		}
		if cur.Booking == nil || cur.Payment != nil || !sameBooking(*cur.Booking, charged) || res.Amount != charged.TotalPrice {
			return changedDuringPayment()
		}
		cur.PendingPayment = ""
		cur.Payment = &res
		cur.Step = domain.StepReceipt
		return nil
	})
	if err != nil {
		s.releasePayment(ctx, sid, token)
		utils.LogCtx(ctx, "payment", "charge_orphaned", fmt.Sprintf("reference=%s amount=%d err=%v", res.Reference, res.Amount, err))
		return domain.PaymentResult{}, err
	}
	utils.LogCtx(ctx, "payment", "charge_succeeded", fmt.Sprintf("reference=%s amount=%d", res.Reference, res.Amount))

	if err := s.publish(ctx, kafka.EventBookingPaid, sel); err != nil {
		utils.LogCtx(ctx, "kafka", "publish_failed", fmt.Sprintf("reference=%s err=%v", res.Reference, err))
	}
	return res, nil
}

// releasePayment drops the reservation if it is still ours; it runs even when ctx was cancelled.
func (s *BookingService) releasePayment(ctx context.Context, sid, token string) {
	_, err := s.sessions.Update(context.WithoutCancel(ctx), sid, func(cur *domain.Selection) error {
		if cur.PendingPayment == token {
			cur.PendingPayment = ""
		}
		return nil
	})
	if err != nil {
		utils.LogCtx(ctx, "payment", "release_failed", err.Error())
	}
}

func (s *BookingService) Receipt(ctx context.Context, sid string, now time.Time) (receipt.Ticket, error) {
	sel, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return receipt.Ticket{}, err
	}
	if err := requirePayment(sel); err != nil {
		return receipt.Ticket{}, err
	}
	return s.issuer.Issue(sel, now)
}

func (s *BookingService) ReceiptPDF(ctx context.Context, sid string, now time.Time) ([]byte, string, error) {
	ticket, err := s.Receipt(ctx, sid, now)
	if err != nil {
		return nil, "", err
	}
	data, name, err := receipt.RenderPDF(ticket)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render ticket pdf", Err: err}
	}
	return data, name, nil
}

// Back moves one screen up the flow and leaves every selection as it is.
func (s *BookingService) Back(ctx context.Context, sid string) (StateView, error) {
	sel, err := s.sessions.Update(ctx, sid, func(cur *domain.Selection) error {
		cur.Step = cur.Step.Previous()
		return nil
	})
	if err != nil {
		return StateView{}, err
	}
	return stateOf(sel), nil
}

func (s *BookingService) NewBooking(ctx context.Context, sid string) (StateView, error) {
	sel, err := s.sessions.ResetFlow(ctx, sid)
	if err != nil {
		return StateView{}, err
	}
	utils.LogCtx(ctx, "booking", "new_booking", "flow reset")
	return stateOf(sel), nil
}

func (s *BookingService) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Logout(ctx, sid); err != nil {
		return err
	}
	utils.LogCtx(ctx, "session", "logout", "session cleared")
	return nil
}

func (s *BookingService) advance(ctx context.Context, sid string, step domain.Step) (StateView, error) {
	sel, err := s.sessions.SetStep(ctx, sid, step)
	if err != nil {
		return StateView{}, err
	}
	return stateOf(sel), nil
}

// editDraft applies fn to the seat draft atomically. Any earlier confirmed booking becomes stale and is dropped.
func (s *BookingService) editDraft(ctx context.Context, sid string, fn func(domain.SeatDraft, domain.Bus) (domain.SeatDraft, error)) (SeatMapView, error) {
	sel, err := s.sessions.Update(ctx, sid, func(cur *domain.Selection) error {
		if err := requireBus(*cur); err != nil {
			return err
		}
		if err := editable(*cur); err != nil {
			return err
		}
		next, err := fn(*cur.Draft, *cur.Bus)
		if err != nil {
			return err
		}
		cur.Draft = &next
		cur.Booking = nil
		if cur.Step.Before(domain.StepSeatSelection) || cur.Step == domain.StepPaymentForm {
			cur.Step = domain.StepSeatSelection
		}
		return nil
	})
	if err != nil {
		return SeatMapView{}, err
	}
	return s.seatMapOf(sel), nil
}

func (s *BookingService) seatMapOf(sel domain.Selection) SeatMapView {
	draft := *sel.Draft
	return SeatMapView{
		Bus:            *sel.Bus,
		Seats:          s.planner.Map(*sel.Bus),
		Draft:          draft,
		Quote:          s.planner.Quote(draft.SelectedSeats, draft.LuggageCount),
		CanContinue:    seating.CanContinue(draft),
		SeatsRemaining: draft.Passengers - len(draft.SelectedSeats),
	}
}

func (s *BookingService) isNearby(station domain.Station, busID int64) bool {
	for _, b := range s.calc.Nearby(station) {
		if b.ID == busID {
			return true
		}
	}
	return false
}

func (s *BookingService) publish(ctx context.Context, eventType string, sel domain.Selection) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := eventOf(eventType, sel, s.currency)
	if err := s.producer.PublishWithRetry(ctx, s.bookingTopic, event.Reference, event, s.publishRetries); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.PublishWithRetry(ctx, s.notificationsTopic, event.Reference, event, s.publishRetries)
	}
	return nil
}

func eventOf(eventType string, sel domain.Selection, currency string) kafka.BookingEvent {
	b, p := sel.Booking, sel.Payment
	event := kafka.BookingEvent{
		Type:       eventType,
		Reference:  p.Reference,
		BusID:      b.Bus.ID,
		Plate:      b.Bus.PlateNumber,
		Seats:      append([]int(nil), b.SelectedSeats...),
		Passengers: b.Passengers,
		Luggage:    b.LuggageCount,
		Total:      b.TotalPrice,
		Currency:   currency,
		FullName:   p.FullName,
		Email:      p.Email,
		PaidAt:     p.PaidAt,
	}
	if sel.Route != nil {
		event.RouteID = sel.Route.ID
		event.RouteName = sel.Route.Name
	}
	if sel.Station != nil {
		event.StationID = sel.Station.ID
	}
	return event
}

var _ BookingUseCase = (*BookingService)(nil)
