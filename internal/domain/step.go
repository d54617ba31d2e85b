package domain

// Step is a screen of the traveler booking flow.
type Step string

const (
	StepRouteChoice     Step = "ROUTE_CHOICE"
	StepStationChoice   Step = "STATION_CHOICE"
	StepBusAvailability Step = "BUS_AVAILABILITY"
	StepSeatSelection   Step = "SEAT_SELECTION"
	StepPaymentForm     Step = "PAYMENT_FORM"
	StepReceipt         Step = "RECEIPT"
)

var flowOrder = []Step{
	StepRouteChoice,
	StepStationChoice,
	StepBusAvailability,
	StepSeatSelection,
	StepPaymentForm,
	StepReceipt,
}

var stepPaths = map[Step]string{
	StepRouteChoice:     "/dashboard/choose-route",
	StepStationChoice:   "/dashboard/stations",
	StepBusAvailability: "/dashboard/bus-availability",
	StepSeatSelection:   "/dashboard/seat-selection",
	StepPaymentForm:     "/dashboard/ticket-booking",
	StepReceipt:         "/dashboard/receipt",
}

// Path is the client route of the screen.
func (s Step) Path() string {
	if p, ok := stepPaths[s]; ok {
		return p
	}
	return "/dashboard"
}

func (s Step) index() int {
	for i, st := range flowOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Previous returns the step before s; the first step and unknown steps return StepRouteChoice.
func (s Step) Previous() Step {
	i := s.index()
	if i <= 0 {
		return StepRouteChoice
	}
	return flowOrder[i-1]
}

// Before reports whether s comes strictly before other in the flow.
func (s Step) Before(other Step) bool {
	return s.index() < other.index()
}
