package services

// Rates holds the revenue split parameters in basis points. Defaults mirror
// an 8.25% sales tax and a 2.9% + 30¢ card processing fee.
type Rates struct {
	TaxRateBps    int64
	FeeRateBps    int64
	FeeFixedCents int64
}

func DefaultRates() Rates {
	return Rates{
		TaxRateBps:    825,
		FeeRateBps:    290,
		FeeFixedCents: 30,
	}
}

// Split divides a gross amount into tax, processing fee, and net. Net is
// the remainder so gross == tax + fee + net holds exactly for any input.
func (r Rates) Split(grossCents int64) (taxCents int64, feeCents int64, netCents int64) {
	taxCents = RoundBps(grossCents, r.TaxRateBps)
	feeCents = RoundBps(grossCents, r.FeeRateBps) + r.FeeFixedCents
	netCents = grossCents - taxCents - feeCents
	return taxCents, feeCents, netCents
}

// RoundBps applies a basis-point rate with half-up rounding.
func RoundBps(amountCents int64, bps int64) int64 {
	product := amountCents * bps
	if product >= 0 {
		return (product + 5000) / 10000
	}
	return -((-product + 5000) / 10000)
}
