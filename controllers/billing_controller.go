package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/middleware"
	"pgmanager-backend/models"
	"pgmanager-backend/services"
)

func validBillStatus(s string) bool {
	switch s {
	case models.BillStatusPending, models.BillStatusPaid, models.BillStatusOverdue:
		return true
	}
	return false
}

// fetchScopedBills loads bills visible to the caller via the resident path:
// manager rooms -> residents in those rooms -> their bills.
func fetchScopedBills(c *gin.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := config.DB.Order("bill_date DESC").Find(&bills).Error; err != nil {
		return nil, err
	}

	pg := middleware.ManagerPG(c)
	if pg == "" {
		return bills, nil
	}

	rooms, err := fetchScopedRooms(c)
	if err != nil {
		return nil, err
	}
	var residents []models.Resident
	if err := config.DB.Find(&residents).Error; err != nil {
		return nil, err
	}
	scopedResidents := services.ScopeResidents(residents, rooms, pg)
	return services.ScopeBills(bills, scopedResidents, pg), nil
}

func GetBills(c *gin.Context) {
	bills, err := fetchScopedBills(c)
	if err != nil {
		log.Printf("list bills failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

type billPayload struct {
	Version    uint       `json:"version"`
	ResidentID uint       `json:"resident_id"`
	RoomID     *uint      `json:"room_id"`
	Amount     *float64   `json:"amount"`
	Details    *string    `json:"details"`
	BillDate   *time.Time `json:"bill_date"`
	DueDate    *time.Time `json:"due_date"`
	Status     string     `json:"status"`
}

func GetBillByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill id"})
		return
	}

	var bill models.Bill
	if err := config.DB.First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bill"})
		return
	}
	if !billResidentInScope(c, bill.ResidentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "bill outside your PG"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

func billResidentInScope(c *gin.Context, residentID uint) bool {
	var resident models.Resident
	if err := config.DB.First(&resident, residentID).Error; err != nil {
		return false
	}
	return residentInScope(c, &resident)
}

func CreateBill(c *gin.Context) {
	var payload billPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}
	if payload.ResidentID == 0 || payload.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resident_id and amount are required"})
		return
	}
	if payload.Status == "" {
		payload.Status = models.BillStatusPending
	}
	if !validBillStatus(payload.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Pending, Paid or Overdue"})
		return
	}
	if !billResidentInScope(c, payload.ResidentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "resident outside your PG"})
		return
	}

	bill := models.Bill{
		ResidentID: payload.ResidentID,
		RoomID:     payload.RoomID,
		Amount:     *payload.Amount,
		Details:    payload.Details,
		Status:     payload.Status,
	}
	if payload.BillDate != nil {
		bill.BillDate = *payload.BillDate
	} else {
		bill.BillDate = time.Now()
	}
	if payload.DueDate != nil {
		bill.DueDate = *payload.DueDate
	} else {
		bill.DueDate = bill.BillDate.AddDate(0, 0, 10)
	}

	if err := services.CreateBill(config.DB, &bill); err != nil {
		log.Printf("create bill failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func UpdateBill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill id"})
		return
	}

	var payload billPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	var bill models.Bill
	if err := config.DB.First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bill"})
		return
	}
	if !billResidentInScope(c, bill.ResidentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "bill outside your PG"})
		return
	}

	updates := map[string]interface{}{}
	if payload.Amount != nil {
		updates["amount"] = *payload.Amount
	}
	if payload.Details != nil {
		updates["details"] = *payload.Details
	}
	if payload.BillDate != nil {
		updates["bill_date"] = *payload.BillDate
	}
	if payload.DueDate != nil {
		updates["due_date"] = *payload.DueDate
	}
	if payload.Status != "" {
		if !validBillStatus(payload.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Pending, Paid or Overdue"})
			return
		}
		updates["status"] = payload.Status
	}

	if err := services.UpdateVersioned(config.DB, &models.Bill{}, bill.ID, payload.Version, updates); err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "bill was modified by another user"})
			return
		}
		log.Printf("update bill %d failed: %v", bill.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	config.DB.First(&bill, bill.ID)
	c.JSON(http.StatusOK, bill)
}

func DeleteBill(c *gin.Context) {
	id := c.Param("id")

	var bill models.Bill
	if err := config.DB.First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bill"})
		return
	}
	if !billResidentInScope(c, bill.ResidentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "bill outside your PG"})
		return
	}

	if err := config.DB.Delete(&bill).Error; err != nil {
		log.Printf("delete bill %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bill deleted"})
}
