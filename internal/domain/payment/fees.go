package payment

import "glowbook/internal/domain/money"

// Platform takes 5% of every payment.
const PlatformFeeBps = 500

// gatewayFeeBps is the method-specific processing rate.
var gatewayFeeBps = map[Method]int64{
	MethodMobileMoney: 150, // 1.5%
	MethodCard:        290, // 2.9%
}

type Fees struct {
	Platform money.Money
	Gateway  money.Money
}

func (f Fees) Total() money.Money {
	return f.Platform.Add(f.Gateway)
}

// ComputeFees derives the fee breakdown for an amount. Applied once, on
// creation or amount change, never on reads.
func ComputeFees(amount money.Money, method Method) Fees {
	return Fees{
		Platform: amount.PercentBps(PlatformFeeBps),
		Gateway:  amount.PercentBps(gatewayFeeBps[method]),
	}
}
