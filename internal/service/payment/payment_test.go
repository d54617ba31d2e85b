package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mobileForm() Form {
	return Form{
		Method:        domain.PaymentMethodMobile,
		FullName:      "Asha Mussa",
		Email:         "asha@example.com",
		Phone:         "+255700000000",
		PaymentNumber: "0700000000",
		TermsAgreed:   true,
	}
}

func cardForm() Form {
	return Form{
		Method:      domain.PaymentMethodCard,
		FullName:    "Asha Mussa",
		Email:       "asha@example.com",
		Phone:       "+255700000000",
		CardNumber:  "4242424242424242",
		Expiry:      "12/29",
		CVV:         "123",
		CardName:    "ASHA MUSSA",
		TermsAgreed: true,
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name  string
		form  func() Form
		field string
	}{
		{"mobile ok", mobileForm, ""},
		{"card ok", cardForm, ""},
		{"missing name", func() Form { f := mobileForm(); f.FullName = ""; return f }, "full_name"},
		{"bad email", func() Form { f := mobileForm(); f.Email = "asha"; return f }, "email"},
		{"missing phone", func() Form { f := cardForm(); f.Phone = ""; return f }, "phone"},
		{"mobile needs wallet number", func() Form { f := mobileForm(); f.PaymentNumber = ""; return f }, "payment_number"},
		{"card needs cvv", func() Form { f := cardForm(); f.CVV = ""; return f }, "cvv"},
		{"card ignores wallet number", func() Form { f := cardForm(); f.PaymentNumber = ""; return f }, ""},
		{"terms", func() Form { f := cardForm(); f.TermsAgreed = false; return f }, "terms_agreed"},
		{"unknown method", func() Form { f := cardForm(); f.Method = "cash"; return f }, "method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form().Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSimulatedGateway_Succeeds(t *testing.T) {
	paidAt := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
	gw := NewSimulatedGateway(5*time.Millisecond, WithClock(func() time.Time { return paidAt }))

	task := gw.Charge(context.Background(), Charge{Amount: 2500, Form: mobileForm()})
	res, err := task.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusSucceeded, res.Status)
	assert.Equal(t, int64(2500), res.Amount)
	assert.Equal(t, paidAt, res.PaidAt)
	assert.Contains(t, res.Reference, "PAY-")

	select {
	case <-task.Done():
	default:
		t.Fatal("task not done after Wait returned")
	}
}

func TestSimulatedGateway_Cancelled(t *testing.T) {
	gw := NewSimulatedGateway(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	task := gw.Charge(ctx, Charge{Amount: 1000, Form: cardForm()})
	cancel()

	_, err := task.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTask_WaitHonoursCallerContext(t *testing.T) {
	gw := NewSimulatedGateway(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Charge(context.Background(), Charge{Amount: 1000, Form: cardForm()}).Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type declineGateway struct{}

func (declineGateway) Charge(_ context.Context, ch Charge) *Task {
	t := newTask()
	t.complete(domain.PaymentResult{Status: domain.PaymentStatusFailed, Amount: ch.Amount}, nil)
	return t
}

func TestProcessor_Pay(t *testing.T) {
	p := NewProcessor(NewSimulatedGateway(time.Millisecond))

	res, err := p.Pay(context.Background(), cardForm(), 6000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodCard, res.Method)

	_, err = p.Pay(context.Background(), Form{}, 6000)
	assert.True(t, domain.IsValidation(err))

	_, err = p.Pay(context.Background(), cardForm(), 0)
	assert.True(t, domain.IsValidation(err))

	_, err = NewProcessor(declineGateway{}).Pay(context.Background(), cardForm(), 6000)
	assert.True(t, domain.IsConflict(err))
}
