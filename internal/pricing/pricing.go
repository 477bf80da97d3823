package pricing

import "github.com/shopspring/decimal"

const (
	groupDiscountMinParty  = 5
	familyDiscountMinParty = 3
)

var (
	groupDiscountFactor  = decimal.RequireFromString("0.90")
	familyDiscountFactor = decimal.RequireFromString("0.95")
)

// Total computes the price of a booking: unit price times party size, with
// a 10% group discount from 5 people and a 5% family discount from 3
// people. The discounts apply sequentially to the running total, so a
// party of 5 gets both (x0.90 then x0.95). The result is rounded half-up
// to two fraction digits at the final step only.
func Total(unitPrice decimal.Decimal, partySize int) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(partySize)))
	if partySize >= groupDiscountMinParty {
		total = total.Mul(groupDiscountFactor)
	}
	if partySize >= familyDiscountMinParty {
		total = total.Mul(familyDiscountFactor)
	}
	return total.Round(2)
}
