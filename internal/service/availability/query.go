package availability

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

type SortKey string

const (
	SortByETA   SortKey = "eta"
	SortBySeats SortKey = "seats"
	SortByPrice SortKey = "price"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const defaultMaxPrice int64 = 10000

// Query narrows and orders the buses near a station.
type Query struct {
	Sort     SortKey            `json:"sort"`
	Dir      Direction          `json:"dir"`
	MinSeats int                `json:"min_seats"`
	MaxPrice int64              `json:"max_price"`
	Types    []domain.BusType   `json:"types"`
	Statuses []domain.BusStatus `json:"statuses"`
}

func DefaultQuery() Query {
	return Query{
		Sort:     SortByETA,
		Dir:      Asc,
		MinSeats: 1,
		MaxPrice: defaultMaxPrice,
		Types:    []domain.BusType{domain.BusTypeStandard, domain.BusTypeExpress},
		Statuses: []domain.BusStatus{domain.BusStatusActive},
	}
}

// Normalize fills zero fields from DefaultQuery and rejects unknown keys.
func (q Query) Normalize() (Query, error) {
	def := DefaultQuery()
	if q.Sort == "" {
		q.Sort = def.Sort
	}
	if q.Dir == "" {
		q.Dir = def.Dir
	}
	if q.MinSeats == 0 {
		q.MinSeats = def.MinSeats
	}
	if q.MaxPrice == 0 {
		q.MaxPrice = def.MaxPrice
	}
	if len(q.Types) == 0 {
		q.Types = def.Types
	}
	if len(q.Statuses) == 0 {
		q.Statuses = def.Statuses
	}

	switch q.Sort {
	case SortByETA, SortBySeats, SortByPrice:
	default:
		return Query{}, domain.ValidationError{Field: "sort", Msg: fmt.Sprintf("unknown sort key %q", q.Sort)}
	}
	switch q.Dir {
	case Asc, Desc:
	default:
		return Query{}, domain.ValidationError{Field: "dir", Msg: fmt.Sprintf("unknown direction %q", q.Dir)}
	}
	if q.MinSeats < 0 {
		return Query{}, domain.ValidationError{Field: "min_seats", Msg: "must not be negative"}
	}
	if q.MaxPrice < 0 {
		return Query{}, domain.ValidationError{Field: "max_price", Msg: "must not be negative"}
	}
	for _, t := range q.Types {
		if !t.Valid() {
			return Query{}, domain.ValidationError{Field: "types", Msg: fmt.Sprintf("unknown bus type %q", t)}
		}
	}
	for _, s := range q.Statuses {
		if !s.Valid() {
			return Query{}, domain.ValidationError{Field: "statuses", Msg: fmt.Sprintf("unknown status %q", s)}
		}
	}
	return q, nil
}

// ParseList splits a comma separated query value, dropping blanks.
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (q Query) allowsType(t domain.BusType) bool {
	for _, x := range q.Types {
		if x == t {
			return true
		}
	}
	return false
}

func (q Query) allowsStatus(s domain.BusStatus) bool {
	for _, x := range q.Statuses {
		if x == s {
			return true
		}
	}
	return false
}
