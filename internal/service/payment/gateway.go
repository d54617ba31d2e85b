package payment

import (
	"context"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/google/uuid"
)

// Charge is one request to the gateway.
type Charge struct {
	Amount int64
	Form   Form
}

// Gateway starts a charge and returns immediately.
type Gateway interface {
	Charge(ctx context.Context, ch Charge) *Task
}

// Task is a pending charge. Done closes once the result is final.
type Task struct {
	done   chan struct{}
	result domain.PaymentResult
	err    error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) complete(res domain.PaymentResult, err error) {
	t.result = res
	t.err = err
	close(t.done)
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the charge settles or ctx ends.
func (t *Task) Wait(ctx context.Context) (domain.PaymentResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return domain.PaymentResult{}, ctx.Err()
	}
}

// SimulatedGateway approves every charge after a fixed delay.
type SimulatedGateway struct {
	delay time.Duration
	now   func() time.Time
}

type GatewayOption func(*SimulatedGateway)

func WithClock(now func() time.Time) GatewayOption {
	return func(g *SimulatedGateway) {
		g.now = now
	}
}

func NewSimulatedGateway(delay time.Duration, opts ...GatewayOption) *SimulatedGateway {
	g := &SimulatedGateway{delay: delay, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SimulatedGateway) Charge(ctx context.Context, ch Charge) *Task {
	task := newTask()
	go func() {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			task.complete(domain.PaymentResult{}, ctx.Err())
		case <-timer.C:
			task.complete(domain.PaymentResult{
				Reference: "PAY-" + uuid.NewString(),
				Method:    ch.Form.Method,
				Status:    domain.PaymentStatusSucceeded,
				Amount:    ch.Amount,
				FullName:  ch.Form.FullName,
				Email:     ch.Form.Email,
				Phone:     ch.Form.Phone,
				PaidAt:    g.now(),
			}, nil)
		}
	}()
	return task
}

var _ Gateway = (*SimulatedGateway)(nil)
