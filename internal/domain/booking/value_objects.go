package booking

import (
	"errors"

	"glowbook/internal/domain/money"
)

const (
	// Counter-offers below 80% of the base price are rejected outright.
	CounterOfferFloorBps = 8000
	// Deposit defaults to 10% of the negotiated price.
	DepositRateBps = 1000
)

var (
	ErrCounterOfferBelowFloor = errors.New("counter offer is below 80% of base price")
	ErrNegativeFee            = errors.New("additional fee cannot be negative")
)

// Fee is one itemized additional charge on top of the negotiated price.
type Fee struct {
	Label  string
	Amount money.Money
}

// Pricing carries the commercial terms of a booking. Total and deposit are
// derived, never stored independently of their inputs.
type Pricing struct {
	basePrice       money.Money
	negotiatedPrice money.Money
	counterOffer    *money.Money
	fees            []Fee
}

func NewPricing(basePrice money.Money) (Pricing, error) {
	if basePrice.IsNegative() {
		return Pricing{}, money.ErrNegativeAmount
	}
	return Pricing{
		basePrice:       basePrice,
		negotiatedPrice: basePrice,
	}, nil
}

func ReconstructPricing(base, negotiated money.Money, counterOffer *money.Money, fees []Fee) Pricing {
	return Pricing{
		basePrice:       base,
		negotiatedPrice: negotiated,
		counterOffer:    counterOffer,
		fees:            fees,
	}
}

func (p Pricing) BasePrice() money.Money       { return p.basePrice }
func (p Pricing) NegotiatedPrice() money.Money { return p.negotiatedPrice }
func (p Pricing) CounterOffer() *money.Money   { return p.counterOffer }

func (p Pricing) Fees() []Fee {
	out := make([]Fee, len(p.fees))
	copy(out, p.fees)
	return out
}

func (p Pricing) FeeTotal() money.Money {
	total := money.Zero()
	for _, f := range p.fees {
		total = total.Add(f.Amount)
	}
	return total
}

// Total is always negotiated price plus the sum of additional fees.
func (p Pricing) Total() money.Money {
	return p.negotiatedPrice.Add(p.FeeTotal())
}

func (p Pricing) Deposit() money.Money {
	return p.negotiatedPrice.PercentBps(DepositRateBps)
}

func (p Pricing) FloorPrice() money.Money {
	return p.basePrice.PercentBps(CounterOfferFloorBps)
}

func (p Pricing) WithCounterOffer(amount money.Money) (Pricing, error) {
	if amount.LessThan(p.FloorPrice()) {
		return Pricing{}, ErrCounterOfferBelowFloor
	}
	p.counterOffer = &amount
	return p, nil
}

// WithNegotiatedPrice settles the price. An outstanding counter-offer is
// consumed by the settlement.
func (p Pricing) WithNegotiatedPrice(amount money.Money) Pricing {
	p.negotiatedPrice = amount
	p.counterOffer = nil
	return p
}

func (p Pricing) WithFee(fee Fee) (Pricing, error) {
	if fee.Amount.IsNegative() {
		return Pricing{}, ErrNegativeFee
	}
	fees := make([]Fee, len(p.fees), len(p.fees)+1)
	copy(fees, p.fees)
	p.fees = append(fees, fee)
	return p, nil
}
