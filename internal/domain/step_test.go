package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_PreviousAndPath(t *testing.T) {
	assert.Equal(t, StepRouteChoice, StepRouteChoice.Previous())
	assert.Equal(t, StepRouteChoice, StepStationChoice.Previous())
	assert.Equal(t, StepSeatSelection, StepPaymentForm.Previous())
	assert.Equal(t, StepPaymentForm, StepReceipt.Previous())
	assert.Equal(t, "/dashboard/seat-selection", StepSeatSelection.Path())
	assert.Equal(t, "/dashboard", Step("UNKNOWN").Path())
	assert.True(t, StepStationChoice.Before(StepReceipt))
	assert.False(t, StepReceipt.Before(StepRouteChoice))
}

func TestClockOn(t *testing.T) {
	loc := time.FixedZone("EAT", 3*3600)
	ref := time.Date(2024, 5, 10, 13, 45, 12, 0, loc)

	at, err := ClockOn("14:30", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 10, 14, 30, 0, 0, loc), at)

	_, err = ClockOn("2pm", ref)
	assert.Error(t, err)
}

func TestBus_FreeSeats(t *testing.T) {
	assert.Equal(t, 15, Bus{TotalSeats: 50, BookedSeats: 35}.FreeSeats())
	assert.Equal(t, 0, Bus{TotalSeats: 10, BookedSeats: 12}.FreeSeats())
}

func TestErrors_Helpers(t *testing.T) {
	err := PreconditionError{Msg: "select a route first", Redirect: StepRouteChoice}
	assert.True(t, IsPrecondition(err))
	step, ok := RedirectOf(err)
	assert.True(t, ok)
	assert.Equal(t, StepRouteChoice, step)

	assert.True(t, IsNotFound(NotFoundError{Resource: "route", ID: 9}))
	assert.Equal(t, "route 9 not found", NotFoundError{Resource: "route", ID: 9}.Error())
	assert.True(t, IsValidation(ValidationError{Field: "passengers", Msg: "must be between 1 and 8"}))
	assert.True(t, IsConflict(ConflictError{Resource: "seat", Msg: "already booked"}))
	assert.False(t, IsConflict(ValidationError{}))
}
