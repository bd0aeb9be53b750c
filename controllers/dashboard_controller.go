package controllers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"pgmanager-backend/config"
	"pgmanager-backend/middleware"
	"pgmanager-backend/models"
	"pgmanager-backend/services"
	"pgmanager-backend/utils"
)

// scopedDashboardRows loads every table the dashboard reads and narrows each
// one to the caller's PG. Admins (empty pg) see everything.
func scopedDashboardRows(c *gin.Context) (rooms []models.Room, residents []models.Resident, bills []models.Bill, readings []models.ElectricityReading, err error) {
	pg := middleware.ManagerPG(c)

	if err = config.DB.Find(&rooms).Error; err != nil {
		return
	}
	if err = config.DB.Find(&residents).Error; err != nil {
		return
	}
	if err = config.DB.Find(&bills).Error; err != nil {
		return
	}
	if err = config.DB.Find(&readings).Error; err != nil {
		return
	}

	residents = services.ScopeResidents(residents, rooms, pg)
	bills = services.ScopeBills(bills, residents, pg)
	readings = services.ScopeReadings(readings, rooms, pg)
	rooms = services.ScopeRooms(rooms, pg)
	return
}

// GetDashboardStats recomputes every stat from the current rows on each call.
func GetDashboardStats(c *gin.Context) {
	rooms, residents, bills, readings, err := scopedDashboardRows(c)
	if err != nil {
		log.Printf("dashboard stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard data"})
		return
	}

	now := time.Now()
	activeResidents := 0
	for _, r := range residents {
		if r.Status != "Inactive" {
			activeResidents++
		}
	}
	units, electricityAmount := services.MonthlyElectricity(readings, now)

	c.JSON(http.StatusOK, gin.H{
		"total_rooms":          len(rooms),
		"available_rooms":      services.AvailableRooms(rooms),
		"occupancy_percent":    services.OccupancyPercent(rooms),
		"total_residents":      len(residents),
		"active_residents":     activeResidents,
		"monthly_revenue":      services.MonthlyRevenue(bills, now),
		"pending_amount":       services.PendingTotal(bills),
		"pending_bills":        services.PendingCount(bills),
		"electricity_units":    units,
		"electricity_amount":   electricityAmount,
		"security_deposits":    services.SecurityDepositTotal(residents),
		"average_monthly_rent": services.AverageRent(residents),
	})
}

type activityItem struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
	TimeAgo string    `json:"time_ago"`
}

const activityLimit = 10

// GetDashboardActivity merges recent resident joins and bill events into one
// feed, newest first, with human "time ago" labels.
func GetDashboardActivity(c *gin.Context) {
	_, residents, bills, _, err := scopedDashboardRows(c)
	if err != nil {
		log.Printf("dashboard activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard data"})
		return
	}

	now := time.Now()
	items := make([]activityItem, 0, len(residents)+len(bills))
	for _, r := range residents {
		items = append(items, activityItem{
			Type:    "resident",
			Message: r.Name + " joined",
			When:    r.CreatedAt,
		})
	}
	residentNames := make(map[uint]string, len(residents))
	for _, r := range residents {
		residentNames[r.ID] = r.Name
	}
	for _, b := range bills {
		msg := "Bill " + b.InvoiceID
		if name, ok := residentNames[b.ResidentID]; ok {
			msg += " for " + name
		}
		if b.Status == models.BillStatusPaid {
			msg += " paid"
		} else {
			msg += " created"
		}
		items = append(items, activityItem{
			Type:    "bill",
			Message: msg,
			When:    b.UpdatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].When.After(items[j].When) })
	if len(items) > activityLimit {
		items = items[:activityLimit]
	}
	for i := range items {
		items[i].TimeAgo = utils.TimeAgo(items[i].When, now)
	}

	c.JSON(http.StatusOK, gin.H{"activity": items})
}

// GetFinancialReport backs the financial tab: a six month revenue rollup next
// to the rent and pending figures.
func GetFinancialReport(c *gin.Context) {
	_, residents, bills, _, err := scopedDashboardRows(c)
	if err != nil {
		log.Printf("financial report failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report data"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"revenue_by_month":     services.RevenueByMonth(bills, now, 6),
		"monthly_revenue":      services.MonthlyRevenue(bills, now),
		"pending_amount":       services.PendingTotal(bills),
		"pending_bills":        services.PendingCount(bills),
		"average_monthly_rent": services.AverageRent(residents),
		"security_deposits":    services.SecurityDepositTotal(residents),
	})
}
