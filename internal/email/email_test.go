package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/dirabasi/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidEvent() kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:       kafka.EventBookingPaid,
		Reference:  "PAY-1",
		RouteName:  "Mji to Suza",
		Plate:      "T123ABC",
		Seats:      []int{36, 37},
		Passengers: 2,
		Luggage:    1,
		Total:      2500,
		Currency:   "TZS",
		FullName:   "Asha Mussa",
		Email:      "asha@example.com",
	}
}

func TestCompose(t *testing.T) {
	msg, err := Compose(paidEvent())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "DiraBasi booking PAY-1", msg.Subject)
	assert.Contains(t, msg.Body, "Seats: 36, 37")
	assert.Contains(t, msg.Body, "Total paid: TZS 2500")
}

func TestCompose_Rejects(t *testing.T) {
	event := paidEvent()
	event.Email = ""
	_, err := Compose(event)
	assert.Error(t, err)

	event = paidEvent()
	event.Type = "booking_cancelled"
	_, err = Compose(event)
	assert.Error(t, err)
}

func TestSender_Send(t *testing.T) {
	s := NewSender("no-reply@dirabasi.example")
	assert.NoError(t, s.Send(context.Background(), paidEvent()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, paidEvent()), context.Canceled)
}
