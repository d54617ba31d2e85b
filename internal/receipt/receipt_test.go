package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidSelection() domain.Selection {
	bus := domain.Bus{ID: 1, PlateNumber: "T123ABC", RouteID: 1, TotalSeats: 50, BookedSeats: 35, EstimatedArrival: "14:30"}
	return domain.Selection{
		Route:   &domain.Route{ID: 1, Name: "Mji to Suza", From: "Mji", To: "Suza"},
		Station: &domain.Station{ID: 2, Name: "Kivukoni", RouteID: 1, Order: 2},
		Bus:     &bus,
		Booking: &domain.BookingData{
			Bus: bus, SelectedSeats: []int{36, 37}, Passengers: 2, LuggageCount: 1,
			SeatsTotal: 2000, LuggageTotal: 500, TotalPrice: 2500,
		},
		Payment: &domain.PaymentResult{Reference: "PAY-1", Method: domain.PaymentMethodMobile, Status: domain.PaymentStatusSucceeded, Amount: 2500, FullName: "Asha Mussa"},
		Step:    domain.StepReceipt,
	}
}

func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestIssuer_Issue(t *testing.T) {
	cfg := config.Default().Booking
	cfg.Timezone = "UTC"
	issuer := NewIssuer(cfg, WithRandom(sequence(42, 987654)))
	now := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

	ticket, err := issuer.Issue(paidSelection(), now)
	require.NoError(t, err)

	assert.Equal(t, "TKT-000042", ticket.TicketNumber)
	assert.Equal(t, "TX-987654", ticket.TransactionID)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC), ticket.DepartureAt)
	assert.Equal(t, now.Add(30*24*time.Hour), ticket.ValidUntil)
	assert.Equal(t, int64(2500), ticket.Total)
	assert.Equal(t, "TZS", ticket.Currency)
	assert.Equal(t, []int{36, 37}, ticket.Seats)
}

func TestIssuer_NumbersChangePerRender(t *testing.T) {
	issuer := NewIssuer(config.Default().Booking, WithRandom(sequence(1, 2, 3, 4)))
	now := time.Now()

	first, err := issuer.Issue(paidSelection(), now)
	require.NoError(t, err)
	second, err := issuer.Issue(paidSelection(), now)
	require.NoError(t, err)

	assert.NotEqual(t, first.TicketNumber, second.TicketNumber)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestIssuer_RequiresPayment(t *testing.T) {
	issuer := NewIssuer(config.Default().Booking)
	sel := paidSelection()
	sel.Payment = nil

	_, err := issuer.Issue(sel, time.Now())
	step, ok := domain.RedirectOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.StepPaymentForm, step)
}

func TestRenderPDF(t *testing.T) {
	issuer := NewIssuer(config.Default().Booking, WithRandom(sequence(7)))
	ticket, err := issuer.Issue(paidSelection(), time.Now())
	require.NoError(t, err)

	data, name, err := RenderPDF(ticket)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "TKT-000007.pdf", name)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "TZS 0", FormatAmount("TZS", 0))
	assert.Equal(t, "TZS 500", FormatAmount("TZS", 500))
	assert.Equal(t, "TZS 12,500", FormatAmount("TZS", 12500))
	assert.Equal(t, "TZS 1,000,000", FormatAmount("TZS", 1000000))
}
