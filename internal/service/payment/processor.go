package payment

import (
	"context"
	"fmt"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

type Processor struct {
	gateway Gateway
}

func NewProcessor(gateway Gateway) *Processor {
	return &Processor{gateway: gateway}
}

// Pay validates the form, charges amount and waits for the gateway.
func (p *Processor) Pay(ctx context.Context, form Form, amount int64) (domain.PaymentResult, error) {
	if err := form.Validate(); err != nil {
		return domain.PaymentResult{}, err
	}
	if amount <= 0 {
		return domain.PaymentResult{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	res, err := p.gateway.Charge(ctx, Charge{Amount: amount, Form: form}).Wait(ctx)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("charge %d: %w", amount, err)
	}
	if res.Status != domain.PaymentStatusSucceeded {
		return res, domain.ConflictError{Resource: "payment", Msg: "declined"}
	}
	return res, nil
}
