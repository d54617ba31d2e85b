package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/dirabasi/internal/kafka"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender writes booking confirmations to the log. No mail server is involved.
type Sender struct {
	from string
}

func NewSender(from string) *Sender {
	return &Sender{from: from}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := Compose(event)
	if err != nil {
		return err
	}
	log.Printf("[EMAIL] from=%s to=%s subject=%q\n%s", s.from, msg.To, msg.Subject, msg.Body)
	return nil
}

// Compose renders the confirmation for a paid booking.
func Compose(event kafka.BookingEvent) (Message, error) {
	if strings.TrimSpace(event.Email) == "" {
		return Message{}, fmt.Errorf("booking %s has no email address", event.Reference)
	}
	if event.Type != kafka.EventBookingPaid {
		return Message{}, fmt.Errorf("unsupported event type %q", event.Type)
	}

	seats := make([]string, 0, len(event.Seats))
	for _, s := range event.Seats {
		seats = append(seats, fmt.Sprintf("%d", s))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", event.FullName)
	fmt.Fprintf(&b, "Your booking on %s with bus %s is confirmed.\n", event.RouteName, event.Plate)
	fmt.Fprintf(&b, "Seats: %s\n", strings.Join(seats, ", "))
	fmt.Fprintf(&b, "Passengers: %d, luggage: %d\n", event.Passengers, event.Luggage)
	fmt.Fprintf(&b, "Total paid: %s %d\n", event.Currency, event.Total)
	fmt.Fprintf(&b, "Reference: %s\n", event.Reference)

	return Message{
		To:      event.Email,
		Subject: fmt.Sprintf("DiraBasi booking %s", event.Reference),
		Body:    b.String(),
	}, nil
}
