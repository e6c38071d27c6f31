//go:build unit || e2e

package builder

import (
	"time"

	"glowbook/internal/domain/money"
	dompayment "glowbook/internal/domain/payment"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	BookingID   uuid.UUID
	CustomerID  uuid.UUID
	StylistID   uuid.UUID
	Type        dompayment.Type
	Method      dompayment.Method
	AmountCents int64
	Currency    string
	Now         time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		BookingID:   uuid.New(),
		CustomerID:  uuid.New(),
		StylistID:   uuid.New(),
		Type:        dompayment.TypeFullPayment,
		Method:      dompayment.MethodMobileMoney,
		AmountCents: 10000,
		Currency:    "USD",
		Now:         time.Now(),
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

func (p *PaymentBuilder) BuildDomain() (*dompayment.Payment, error) {
	return dompayment.NewPayment(
		p.Now,
		p.BookingID, p.CustomerID, p.StylistID,
		p.Type, p.Method,
		money.New(p.AmountCents),
		p.Currency,
	)
}

// BuildDomainHeld returns a payment already walked to held through the
// gateway protocol.
func (p *PaymentBuilder) BuildDomainHeld(gatewayTxnID string) (*dompayment.Payment, error) {
	pay, err := p.BuildDomain()
	if err != nil {
		return nil, err
	}
	if err := pay.MarkProcessing(gatewayTxnID, p.Now); err != nil {
		return nil, err
	}
	if err := pay.Hold(p.Now); err != nil {
		return nil, err
	}
	pay.DrainPendingEntries()
	return pay, nil
}

func (p *PaymentBuilder) BuildInitiateRequestDTO() reqdto.InitiatePaymentRequest {
	return reqdto.InitiatePaymentRequest{
		BookingID:  p.BookingID,
		Type:       string(p.Type),
		Method:     string(p.Method),
		PayerPhone: "+256700000001",
	}
}

func (p *PaymentBuilder) BuildView() *queries.PaymentView {
	fees := dompayment.ComputeFees(money.New(p.AmountCents), p.Method)
	return &queries.PaymentView{
		ID:               uuid.New(),
		BookingID:        p.BookingID,
		CustomerID:       p.CustomerID,
		StylistID:        p.StylistID,
		Type:             string(p.Type),
		Method:           string(p.Method),
		AmountCents:      p.AmountCents,
		Currency:         p.Currency,
		PlatformFeeCents: fees.Platform.Cents(),
		GatewayFeeCents:  fees.Gateway.Cents(),
		TotalFeesCents:   fees.Total().Cents(),
		NetAmountCents:   p.AmountCents - fees.Total().Cents(),
		Status:           "pending",
		Timeline:         []queries.TimelineEntryView{},
		CreatedAt:        p.Now,
		UpdatedAt:        p.Now,
	}
}

func (p *PaymentBuilder) WithType(t dompayment.Type) *PaymentBuilder {
	p.Type = t
	return p
}

func (p *PaymentBuilder) WithMethod(m dompayment.Method) *PaymentBuilder {
	p.Method = m
	return p
}

func (p *PaymentBuilder) WithAmountCents(cents int64) *PaymentBuilder {
	p.AmountCents = cents
	return p
}

func (p *PaymentBuilder) WithNow(now time.Time) *PaymentBuilder {
	p.Now = now
	return p
}
