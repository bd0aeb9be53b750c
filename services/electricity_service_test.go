package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveElectricity(t *testing.T) {
	units, amount := DeriveElectricity(1240, 1320, 8)
	assert.Equal(t, 80.0, units)
	assert.Equal(t, 640.0, amount)

	// Meter rollback clamps to zero regardless of rate.
	units, amount = DeriveElectricity(1300, 1240, 8)
	assert.Equal(t, 0.0, units)
	assert.Equal(t, 0.0, amount)

	units, amount = DeriveElectricity(500, 500, 12)
	assert.Equal(t, 0.0, units)
	assert.Equal(t, 0.0, amount)
}
