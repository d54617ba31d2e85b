package seating

import (
	"testing"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBus = domain.Bus{ID: 1, PlateNumber: "T123ABC", TotalSeats: 50, BookedSeats: 35}

func newPlanner() *Planner {
	return NewPlanner(config.Default().Booking)
}

func TestPlanner_MapMarksLowestSeatsBooked(t *testing.T) {
	seats := newPlanner().Map(testBus)
	require.Len(t, seats, 50)

	for _, s := range seats {
		if s.ID <= 35 {
			assert.Equal(t, domain.SeatStatusBooked, s.Status, "seat %d", s.ID)
		} else {
			assert.Equal(t, domain.SeatStatusAvailable, s.Status, "seat %d", s.ID)
		}
		if s.ID <= 4 {
			assert.Equal(t, domain.SeatClassPremium, s.Class, "seat %d", s.ID)
		} else {
			assert.Equal(t, domain.SeatClassStandard, s.Class, "seat %d", s.ID)
		}
	}
}

func TestPlanner_QuoteClassBoundary(t *testing.T) {
	p := newPlanner()

	q := p.Quote([]int{10, 36}, 1)
	assert.Equal(t, Quote{SeatsTotal: 2000, LuggageTotal: 500, Total: 2500}, q)

	q = p.Quote([]int{4, 5}, 0)
	assert.Equal(t, int64(6000), q.Total)
}

func TestPlanner_FinalizeHonoursPriceLaw(t *testing.T) {
	p := newPlanner()
	bus := domain.Bus{ID: 9, TotalSeats: 50}

	draft := NewDraft(bus.ID)
	draft, err := p.SetPassengers(draft, 3)
	require.NoError(t, err)
	for _, id := range []int{36, 2, 10} {
		draft, err = p.Toggle(draft, bus, id)
		require.NoError(t, err)
	}
	draft, err = p.SetLuggage(draft, 2)
	require.NoError(t, err)

	data, err := p.Finalize(draft, bus)
	require.NoError(t, err)

	var want int64
	for _, id := range data.SelectedSeats {
		want += p.PriceOf(id)
	}
	want += int64(data.LuggageCount) * 500
	assert.Equal(t, want, data.TotalPrice)
	assert.Equal(t, int64(8000), data.TotalPrice)
	assert.Equal(t, []int{2, 10, 36}, data.SelectedSeats)
}

func TestCanContinue_IffSeatsMatchPassengers(t *testing.T) {
	p := newPlanner()
	bus := domain.Bus{ID: 1, TotalSeats: 50}

	for n := 1; n <= 8; n++ {
		draft, err := p.SetPassengers(NewDraft(bus.ID), n)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			assert.False(t, CanContinue(draft), "passengers=%d seats=%d", n, i)
			draft, err = p.Toggle(draft, bus, 10+i)
			require.NoError(t, err)
		}
		assert.True(t, CanContinue(draft), "passengers=%d", n)

		_, err = p.Toggle(draft, bus, 40)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestPlanner_Toggle(t *testing.T) {
	p := newPlanner()
	draft, err := p.SetPassengers(NewDraft(testBus.ID), 2)
	require.NoError(t, err)

	_, err = p.Toggle(draft, testBus, 51)
	assert.True(t, domain.IsValidation(err))

	_, err = p.Toggle(draft, testBus, 0)
	assert.True(t, domain.IsValidation(err))

	_, err = p.Toggle(draft, testBus, 35)
	assert.True(t, domain.IsConflict(err))

	draft, err = p.Toggle(draft, testBus, 40)
	require.NoError(t, err)
	assert.Equal(t, []int{40}, draft.SelectedSeats)

	draft, err = p.Toggle(draft, testBus, 40)
	require.NoError(t, err)
	assert.Empty(t, draft.SelectedSeats)
}

func TestPlanner_ToggleDoesNotAliasInput(t *testing.T) {
	p := newPlanner()
	draft := domain.SeatDraft{BusID: 1, SelectedSeats: []int{40, 41}, Passengers: 2}

	out, err := p.Toggle(draft, testBus, 40)
	require.NoError(t, err)

	assert.Equal(t, []int{41}, out.SelectedSeats)
	assert.Equal(t, []int{40, 41}, draft.SelectedSeats)
}

func TestPlanner_SetPassengers(t *testing.T) {
	p := newPlanner()
	draft := domain.SeatDraft{BusID: 1, SelectedSeats: []int{40, 41, 42}, Passengers: 3}

	out, err := p.SetPassengers(draft, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 41}, out.SelectedSeats)

	_, err = p.SetPassengers(draft, 0)
	assert.True(t, domain.IsValidation(err))
	_, err = p.SetPassengers(draft, 9)
	assert.True(t, domain.IsValidation(err))
}

func TestPlanner_SetLuggage(t *testing.T) {
	p := newPlanner()

	out, err := p.SetLuggage(NewDraft(1), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, out.LuggageCount)

	_, err = p.SetLuggage(NewDraft(1), 5)
	assert.True(t, domain.IsValidation(err))
	_, err = p.SetLuggage(NewDraft(1), -1)
	assert.True(t, domain.IsValidation(err))
}

func TestPlanner_FinalizeRequiresFullSelection(t *testing.T) {
	p := newPlanner()
	draft, err := p.SetPassengers(NewDraft(1), 2)
	require.NoError(t, err)
	draft, err = p.Toggle(draft, testBus, 40)
	require.NoError(t, err)

	_, err = p.Finalize(draft, testBus)
	require.True(t, domain.IsPrecondition(err))
	step, ok := domain.RedirectOf(err)
	assert.True(t, ok)
	assert.Equal(t, domain.StepSeatSelection, step)
}
