package services

// DeriveElectricity computes consumed units and the billed amount from raw
// meter values. A current reading below the previous one (meter rollover or
// a data-entry mistake) clamps to zero units rather than going negative.
func DeriveElectricity(previous, current, rate float64) (units, amount float64) {
	units = current - previous
	if units < 0 {
		units = 0
	}
	return units, units * rate
}
