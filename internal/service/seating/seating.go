package seating

import (
	"fmt"
	"sort"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Planner builds seat maps and keeps a traveler's draft within the passenger and luggage limits.
type Planner struct {
	premiumSeats  int
	premiumFare   int64
	standardFare  int64
	luggageFee    int64
	maxPassengers int
	maxLuggage    int
}

func NewPlanner(cfg config.BookingConfig) *Planner {
	return &Planner{
		premiumSeats:  cfg.PremiumSeatCount,
		premiumFare:   cfg.PremiumFare,
		standardFare:  cfg.StandardFare,
		luggageFee:    cfg.LuggageFee,
		maxPassengers: cfg.MaxPassengers,
		maxLuggage:    cfg.MaxLuggage,
	}
}

// Quote is a priced draft.
type Quote struct {
	SeatsTotal   int64 `json:"seats_total"`
	LuggageTotal int64 `json:"luggage_total"`
	Total        int64 `json:"total"`
}

// Map synthesizes the seat grid. The lowest BookedSeats ids are taken.
func (p *Planner) Map(bus domain.Bus) []domain.Seat {
	seats := make([]domain.Seat, 0, bus.TotalSeats)
	for id := 1; id <= bus.TotalSeats; id++ {
		status := domain.SeatStatusAvailable
		if id <= bus.BookedSeats {
			status = domain.SeatStatusBooked
		}
		seats = append(seats, domain.Seat{ID: id, Status: status, Class: p.ClassOf(id)})
	}
	return seats
}

func (p *Planner) ClassOf(seatID int) domain.SeatClass {
	if seatID <= p.premiumSeats {
		return domain.SeatClassPremium
	}
	return domain.SeatClassStandard
}

func (p *Planner) PriceOf(seatID int) int64 {
	if p.ClassOf(seatID) == domain.SeatClassPremium {
		return p.premiumFare
	}
	return p.standardFare
}

func (p *Planner) Quote(seats []int, luggage int) Quote {
	var q Quote
	for _, id := range seats {
		q.SeatsTotal += p.PriceOf(id)
	}
	q.LuggageTotal = int64(luggage) * p.luggageFee
	q.Total = q.SeatsTotal + q.LuggageTotal
	return q
}

func NewDraft(busID int64) domain.SeatDraft {
	return domain.SeatDraft{BusID: busID, SelectedSeats: []int{}, Passengers: 1}
}

// Toggle removes seatID when selected, otherwise adds it while the draft has room.
func (p *Planner) Toggle(draft domain.SeatDraft, bus domain.Bus, seatID int) (domain.SeatDraft, error) {
	if seatID < 1 || seatID > bus.TotalSeats {
		return draft, domain.ValidationError{Field: "seat", Msg: fmt.Sprintf("seat %d outside 1..%d", seatID, bus.TotalSeats)}
	}
	if seatID <= bus.BookedSeats {
		return draft, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d is already booked", seatID)}
	}

	out := copyDraft(draft)
	for i, id := range out.SelectedSeats {
		if id == seatID {
			out.SelectedSeats = append(out.SelectedSeats[:i], out.SelectedSeats[i+1:]...)
			return out, nil
		}
	}
	if len(out.SelectedSeats) >= out.Passengers {
		return draft, domain.ValidationError{Field: "seat", Msg: "seat limit reached"}
	}
	out.SelectedSeats = append(out.SelectedSeats, seatID)
	return out, nil
}

// SetPassengers changes the party size; shrinking keeps the first n selected seats.
func (p *Planner) SetPassengers(draft domain.SeatDraft, n int) (domain.SeatDraft, error) {
	if n < 1 || n > p.maxPassengers {
		return draft, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("must be between 1 and %d", p.maxPassengers)}
	}
	out := copyDraft(draft)
	out.Passengers = n
	if len(out.SelectedSeats) > n {
		out.SelectedSeats = out.SelectedSeats[:n]
	}
	return out, nil
}

func (p *Planner) SetLuggage(draft domain.SeatDraft, n int) (domain.SeatDraft, error) {
	if n < 0 || n > p.maxLuggage {
		return draft, domain.ValidationError{Field: "luggage", Msg: fmt.Sprintf("must be between 0 and %d", p.maxLuggage)}
	}
	out := copyDraft(draft)
	out.LuggageCount = n
	return out, nil
}

// CanContinue reports whether exactly one seat per passenger is chosen.
func CanContinue(draft domain.SeatDraft) bool {
	return draft.Passengers >= 1 && len(draft.SelectedSeats) == draft.Passengers
}

// Finalize prices the draft into the bundle handed to payment.
func (p *Planner) Finalize(draft domain.SeatDraft, bus domain.Bus) (domain.BookingData, error) {
	if !CanContinue(draft) {
		return domain.BookingData{}, domain.PreconditionError{
			Msg:      fmt.Sprintf("select %d seat(s), %d selected", draft.Passengers, len(draft.SelectedSeats)),
			Redirect: domain.StepSeatSelection,
		}
	}

	seats := append([]int(nil), draft.SelectedSeats...)
	sort.Ints(seats)
	q := p.Quote(seats, draft.LuggageCount)
	return domain.BookingData{
		Bus:           bus,
		SelectedSeats: seats,
		Passengers:    draft.Passengers,
		LuggageCount:  draft.LuggageCount,
		SeatsTotal:    q.SeatsTotal,
		LuggageTotal:  q.LuggageTotal,
		TotalPrice:    q.Total,
	}, nil
}

func copyDraft(d domain.SeatDraft) domain.SeatDraft {
	d.SelectedSeats = append([]int{}, d.SelectedSeats...)
	return d
}
