package domain

import "time"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
)

type SeatClass string

const (
	SeatClassPremium  SeatClass = "premium"
	SeatClassStandard SeatClass = "standard"
)

type Seat struct {
	ID     int        `json:"id"`
	Status SeatStatus `json:"status"`
	Class  SeatClass  `json:"class"`
}

// SeatDraft is the traveler's in-progress seat choice for the selected bus.
type SeatDraft struct {
	BusID         int64 `json:"bus_id"`
	SelectedSeats []int `json:"selected_seats"`
	Passengers    int   `json:"passengers"`
	LuggageCount  int   `json:"luggage_count"`
}

// BookingData is the finalized seat/passenger/luggage bundle handed to payment.
type BookingData struct {
	Bus           Bus   `json:"bus"`
	SelectedSeats []int `json:"selected_seats"`
	Passengers    int   `json:"passengers"`
	LuggageCount  int   `json:"luggage_count"`
	SeatsTotal    int64 `json:"seats_total"`
	LuggageTotal  int64 `json:"luggage_total"`
	TotalPrice    int64 `json:"total_price"`
}

type PaymentMethod string

const (
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodCard   PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentResult is what the simulated gateway reports after a charge.
type PaymentResult struct {
	Reference string        `json:"reference"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	Amount    int64         `json:"amount"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	PaidAt    time.Time     `json:"paid_at"`
}

type Role string

const (
	RoleTraveler  Role = "traveler"
	RoleConductor Role = "conductor"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTraveler, RoleConductor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   Role   `json:"role" yaml:"role"`
	Status string `json:"status" yaml:"status"`
}

// Selection is the session-scoped state of one traveler's booking flow.
type Selection struct {
	User    *User          `json:"user,omitempty"`
	Route   *Route         `json:"route,omitempty"`
	Station *Station       `json:"station,omitempty"`
	Bus     *Bus           `json:"bus,omitempty"`
	Draft   *SeatDraft     `json:"draft,omitempty"`
	Booking *BookingData   `json:"booking,omitempty"`
	Payment *PaymentResult `json:"payment,omitempty"`
	Step    Step           `json:"step"`

	// PendingPayment is the reservation token of a charge in flight.
	PendingPayment string `json:"pending_payment,omitempty"`
}

// IsEmpty reports whether every field is unset.
func (s Selection) IsEmpty() bool {
	return s.User == nil && s.Route == nil && s.Station == nil && s.Bus == nil &&
		s.Draft == nil && s.Booking == nil && s.Payment == nil && s.Step == "" && s.PendingPayment == ""
}
