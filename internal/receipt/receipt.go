package receipt

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Ticket is a rendered snapshot of a paid booking. Numbers are for display only and change on every render.
type Ticket struct {
	TicketNumber  string               `json:"ticket_number"`
	TransactionID string               `json:"transaction_id"`
	IssuedAt      time.Time            `json:"issued_at"`
	DepartureAt   time.Time            `json:"departure_at"`
	ValidUntil    time.Time            `json:"valid_until"`
	Route         domain.Route         `json:"route"`
	Station       domain.Station       `json:"station"`
	Bus           domain.Bus           `json:"bus"`
	Seats         []int                `json:"seats"`
	Passengers    int                  `json:"passengers"`
	LuggageCount  int                  `json:"luggage_count"`
	SeatsTotal    int64                `json:"seats_total"`
	LuggageTotal  int64                `json:"luggage_total"`
	Total         int64                `json:"total"`
	Currency      string               `json:"currency"`
	Payment       domain.PaymentResult `json:"payment"`
}

type Issuer struct {
	validFor time.Duration
	currency string
	loc      *time.Location
	intn     func(n int) int
}

type Option func(*Issuer)

// WithRandom replaces the number source, intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(i *Issuer) {
		i.intn = intn
	}
}

func NewIssuer(cfg config.BookingConfig, opts ...Option) *Issuer {
	i := &Issuer{
		validFor: time.Duration(cfg.TicketValidDays) * 24 * time.Hour,
		currency: cfg.Currency,
		loc:      cfg.Location(),
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue renders the ticket for a paid selection.
func (i *Issuer) Issue(sel domain.Selection, now time.Time) (Ticket, error) {
	if sel.Booking == nil || sel.Payment == nil {
		return Ticket{}, domain.PreconditionError{Msg: "booking is not paid yet", Redirect: domain.StepPaymentForm}
	}
	if sel.Route == nil || sel.Station == nil {
		return Ticket{}, domain.PreconditionError{Msg: "route and station must be selected", Redirect: domain.StepRouteChoice}
	}

	local := now.In(i.loc)
	departure, err := sel.Booking.Bus.ArrivalToday(local)
	if err != nil {
		return Ticket{}, domain.InternalError{Msg: "bus departure time", Err: err}
	}

	b := sel.Booking
	return Ticket{
		TicketNumber:  fmt.Sprintf("TKT-%06d", i.intn(1000000)),
		TransactionID: fmt.Sprintf("TX-%d", i.intn(1000000)),
		IssuedAt:      local,
		DepartureAt:   departure,
		ValidUntil:    local.Add(i.validFor),
		Route:         *sel.Route,
		Station:       *sel.Station,
		Bus:           b.Bus,
		Seats:         append([]int(nil), b.SelectedSeats...),
		Passengers:    b.Passengers,
		LuggageCount:  b.LuggageCount,
		SeatsTotal:    b.SeatsTotal,
		LuggageTotal:  b.LuggageTotal,
		Total:         b.TotalPrice,
		Currency:      i.currency,
		Payment:       *sel.Payment,
	}, nil
}

// FormatAmount groups thousands with commas, e.g. "TZS 12,500".
func FormatAmount(currency string, v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	n := len(s)
	for i := 0; i < n; i++ {
		out = append(out, s[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, ',')
		}
	}
	if neg {
		return currency + " -" + string(out)
	}
	return currency + " " + string(out)
}
