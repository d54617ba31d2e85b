package receipt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// RenderPDF lays the ticket out on one A4 page and returns the document with a download name.
func RenderPDF(t Ticket) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DiraBasi Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DIRABASI E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket number  : %s", t.TicketNumber),
		fmt.Sprintf("Issued         : %s", t.IssuedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Passenger      : %s", safe(t.Payment.FullName, "-")),
		fmt.Sprintf("Route          : %s (%s -> %s)", t.Route.Name, t.Route.From, t.Route.To),
		fmt.Sprintf("Boarding at    : %s", t.Station.Name),
		fmt.Sprintf("Bus            : %s", t.Bus.PlateNumber),
		fmt.Sprintf("Departure      : %s", t.DepartureAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Seats          : %s", joinSeats(t.Seats)),
		fmt.Sprintf("Passengers     : %d", t.Passengers),
		fmt.Sprintf("Luggage        : %d", t.LuggageCount),
		fmt.Sprintf("Valid until    : %s", t.ValidUntil.Format("2006-01-02")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Seats   : "+FormatAmount(t.Currency, t.SeatsTotal))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Luggage : "+FormatAmount(t.Currency, t.LuggageTotal))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total   : "+FormatAmount(t.Currency, t.Total))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Transaction %s via %s", t.TransactionID, t.Payment.Method))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this ticket and a valid ID to board the bus.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("%s.pdf", t.TicketNumber), nil
}

func joinSeats(seats []int) string {
	if len(seats) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ", ")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
