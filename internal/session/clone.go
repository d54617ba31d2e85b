package session

import "github.com/Domenick1991/dirabasi/internal/domain"

// clone deep-copies a selection so callers never share pointers with the store.
func clone(s domain.Selection) domain.Selection {
	out := domain.Selection{Step: s.Step, PendingPayment: s.PendingPayment}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Route != nil {
		r := *s.Route
		out.Route = &r
	}
	if s.Station != nil {
		st := cloneStation(*s.Station)
		out.Station = &st
	}
	if s.Bus != nil {
		b := cloneBus(*s.Bus)
		out.Bus = &b
	}
	if s.Draft != nil {
		d := *s.Draft
		d.SelectedSeats = append([]int(nil), s.Draft.SelectedSeats...)
		out.Draft = &d
	}
	if s.Booking != nil {
		bk := *s.Booking
		bk.Bus = cloneBus(s.Booking.Bus)
		bk.SelectedSeats = append([]int(nil), s.Booking.SelectedSeats...)
		out.Booking = &bk
	}
	if s.Payment != nil {
		p := *s.Payment
		out.Payment = &p
	}
	return out
}

func cloneStation(st domain.Station) domain.Station {
	if st.Location != nil {
		loc := *st.Location
		st.Location = &loc
	}
	return st
}

func cloneBus(b domain.Bus) domain.Bus {
	if b.Location != nil {
		loc := *b.Location
		b.Location = &loc
	}
	return b
}
