package services

import (
	"math"
	"time"

	"pgmanager-backend/models"
)

// Dashboard and report aggregation. Everything here reduces rows the caller
// already fetched (and scoped); nothing is cached between requests.

// OccupancyPercent returns the rounded percentage of filled beds across the
// given rooms. Zero total capacity reports 0, not NaN.
func OccupancyPercent(rooms []models.Room) int {
	var capacity, occupancy int
	for _, r := range rooms {
		capacity += r.Capacity
		occupancy += r.Occupancy
	}
	if capacity == 0 {
		return 0
	}
	return int(math.Round(100 * float64(occupancy) / float64(capacity)))
}

// AvailableRooms counts rooms with at least one free bed.
func AvailableRooms(rooms []models.Room) int {
	n := 0
	for _, r := range rooms {
		if r.Occupancy < r.Capacity {
			n++
		}
	}
	return n
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// MonthlyRevenue sums bill amounts dated in ref's calendar month.
func MonthlyRevenue(bills []models.Bill, ref time.Time) float64 {
	var total float64
	for _, b := range bills {
		if sameMonth(b.BillDate, ref) {
			total += b.Amount
		}
	}
	return total
}

// PendingTotal sums the amounts of bills still marked Pending.
func PendingTotal(bills []models.Bill) float64 {
	var total float64
	for _, b := range bills {
		if b.Status == models.BillStatusPending {
			total += b.Amount
		}
	}
	return total
}

// PendingCount counts bills still marked Pending.
func PendingCount(bills []models.Bill) int {
	n := 0
	for _, b := range bills {
		if b.Status == models.BillStatusPending {
			n++
		}
	}
	return n
}

// MonthlyElectricity sums units and billed amount for readings dated in
// ref's calendar month.
func MonthlyElectricity(readings []models.ElectricityReading, ref time.Time) (units, amount float64) {
	for _, r := range readings {
		if sameMonth(r.ReadingDate, ref) {
			units += r.Units
			amount += r.Amount
		}
	}
	return units, amount
}

// AverageRent is the mean monthly rent across residents that have one set.
func AverageRent(residents []models.Resident) float64 {
	var total float64
	n := 0
	for _, r := range residents {
		if r.MonthlyRent != nil {
			total += *r.MonthlyRent
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// SecurityDepositTotal sums deposits held for active residents.
func SecurityDepositTotal(residents []models.Resident) float64 {
	var total float64
	for _, r := range residents {
		if r.SecurityDeposit != nil {
			total += *r.SecurityDeposit
		}
	}
	return total
}

// MonthRevenue is one bucket of the financial report rollup.
type MonthRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// RevenueByMonth buckets bill amounts into the last n calendar months ending
// at ref, oldest first. Months with no bills appear with zero revenue.
func RevenueByMonth(bills []models.Bill, ref time.Time, n int) []MonthRevenue {
	if n <= 0 {
		return nil
	}
	buckets := make([]MonthRevenue, n)
	index := make(map[[2]int]int, n)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		buckets[i] = MonthRevenue{Year: m.Year(), Month: int(m.Month())}
		index[[2]int{m.Year(), int(m.Month())}] = i
	}
	for _, b := range bills {
		if i, ok := index[[2]int{b.BillDate.Year(), int(b.BillDate.Month())}]; ok {
			buckets[i].Revenue += b.Amount
		}
	}
	return buckets
}
