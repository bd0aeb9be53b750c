package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pgmanager-backend/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestOccupancyPercent(t *testing.T) {
	rooms := []models.Room{
		{Capacity: 2, Occupancy: 2},
		{Capacity: 3, Occupancy: 1},
	}
	assert.Equal(t, 60, OccupancyPercent(rooms))

	// Zero capacity must not produce NaN or panic.
	assert.Equal(t, 0, OccupancyPercent(nil))
	assert.Equal(t, 0, OccupancyPercent([]models.Room{{Capacity: 0, Occupancy: 0}}))
}

func TestPendingTotal(t *testing.T) {
	bills := []models.Bill{
		{Amount: 6000, Status: models.BillStatusPending},
		{Amount: 4500, Status: models.BillStatusPaid},
	}
	assert.Equal(t, 6000.0, PendingTotal(bills))
	assert.Equal(t, 1, PendingCount(bills))
}

func TestMonthlyRevenue(t *testing.T) {
	ref := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{Amount: 6000, BillDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 4500, BillDate: time.Date(2023, 5, 28, 0, 0, 0, 0, time.UTC)},
		{Amount: 9999, BillDate: time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC)},
		{Amount: 1234, BillDate: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, 10500.0, MonthlyRevenue(bills, ref))
}

func TestMonthlyElectricity(t *testing.T) {
	ref := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	readings := []models.ElectricityReading{
		{Units: 80, Amount: 640, ReadingDate: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Units: 60, Amount: 480, ReadingDate: time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC)},
		{Units: 110, Amount: 880, ReadingDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	units, amount := MonthlyElectricity(readings, ref)
	assert.Equal(t, 140.0, units)
	assert.Equal(t, 1120.0, amount)
}

func TestAverageRent(t *testing.T) {
	residents := []models.Resident{
		{MonthlyRent: floatPtr(6000)},
		{MonthlyRent: floatPtr(4500)},
		{MonthlyRent: nil},
	}
	assert.Equal(t, 5250.0, AverageRent(residents))
	assert.Equal(t, 0.0, AverageRent(nil))
}

func TestRevenueByMonth(t *testing.T) {
	ref := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{Amount: 6000, BillDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 4500, BillDate: time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC)},
		{Amount: 1000, BillDate: time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC)}, // outside window
	}

	buckets := RevenueByMonth(bills, ref, 6)
	assert.Len(t, buckets, 6)
	assert.Equal(t, MonthRevenue{Year: 2022, Month: 12}, buckets[0])
	assert.Equal(t, 4500.0, buckets[3].Revenue)
	assert.Equal(t, 6000.0, buckets[5].Revenue)
	assert.Equal(t, 2023, buckets[5].Year)
	assert.Equal(t, 5, buckets[5].Month)
}
