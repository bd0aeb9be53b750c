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

func GetResidents(c *gin.Context) {
	var residents []models.Resident
	if err := config.DB.Order("name").Find(&residents).Error; err != nil {
		log.Printf("list residents failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load residents"})
		return
	}

	if pg := middleware.ManagerPG(c); pg != "" {
		rooms, err := fetchScopedRooms(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
			return
		}
		residents = services.ScopeResidents(residents, rooms, pg)
	}
	c.JSON(http.StatusOK, residents)
}

func GetResidentByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resident id"})
		return
	}

	var resident models.Resident
	if err := config.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resident not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resident"})
		return
	}
	if !residentInScope(c, &resident) {
		c.JSON(http.StatusForbidden, gin.H{"error": "resident outside your PG"})
		return
	}
	c.JSON(http.StatusOK, resident)
}

// residentInScope reports whether a manager may touch the resident. A
// resident with no room belongs to no manager's scope.
func residentInScope(c *gin.Context, resident *models.Resident) bool {
	pg := middleware.ManagerPG(c)
	if pg == "" {
		return true
	}
	if resident.RoomID == nil {
		return false
	}
	var room models.Room
	if err := config.DB.First(&room, *resident.RoomID).Error; err != nil {
		return false
	}
	return room.PGName == pg
}

type residentPayload struct {
	Version         uint       `json:"version"`
	Name            string     `json:"name"`
	RoomID          *uint      `json:"room_id"`
	Phone           string     `json:"phone"`
	Email           *string    `json:"email"`
	JoinDate        *time.Time `json:"join_date"`
	Status          string     `json:"status"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Gender          *string    `json:"gender"`
	SecurityDeposit *float64   `json:"security_deposit"`
	MonthlyRent     *float64   `json:"monthly_rent"`
	PGLocation      *string    `json:"pg_location"`
}

func CreateResident(c *gin.Context) {
	var payload residentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}
	if payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	resident := models.Resident{
		Name:            payload.Name,
		RoomID:          payload.RoomID,
		Phone:           payload.Phone,
		Email:           payload.Email,
		Status:          payload.Status,
		DateOfBirth:     payload.DateOfBirth,
		Gender:          payload.Gender,
		SecurityDeposit: payload.SecurityDeposit,
		MonthlyRent:     payload.MonthlyRent,
		PGLocation:      payload.PGLocation,
		Version:         1,
	}
	if payload.JoinDate != nil {
		resident.JoinDate = *payload.JoinDate
	} else {
		resident.JoinDate = time.Now()
	}
	if resident.Status == "" {
		resident.Status = "Active"
	}

	if !residentInScope(c, &resident) {
		c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
		return
	}

	if err := config.DB.Create(&resident).Error; err != nil {
		log.Printf("create resident failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, resident)
}

func UpdateResident(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resident id"})
		return
	}

	var payload residentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	var resident models.Resident
	if err := config.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resident not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resident"})
		return
	}
	if !residentInScope(c, &resident) {
		c.JSON(http.StatusForbidden, gin.H{"error": "resident outside your PG"})
		return
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.RoomID != nil {
		moved := models.Resident{RoomID: payload.RoomID}
		if !residentInScope(c, &moved) {
			c.JSON(http.StatusForbidden, gin.H{"error": "target room outside your PG"})
			return
		}
		updates["room_id"] = *payload.RoomID
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Email != nil {
		updates["email"] = *payload.Email
	}
	if payload.JoinDate != nil {
		updates["join_date"] = *payload.JoinDate
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.DateOfBirth != nil {
		updates["date_of_birth"] = *payload.DateOfBirth
	}
	if payload.Gender != nil {
		updates["gender"] = *payload.Gender
	}
	if payload.SecurityDeposit != nil {
		updates["security_deposit"] = *payload.SecurityDeposit
	}
	if payload.MonthlyRent != nil {
		updates["monthly_rent"] = *payload.MonthlyRent
	}
	if payload.PGLocation != nil {
		updates["pg_location"] = *payload.PGLocation
	}

	if err := services.UpdateVersioned(config.DB, &models.Resident{}, resident.ID, payload.Version, updates); err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "resident was modified by another user"})
			return
		}
		log.Printf("update resident %d failed: %v", resident.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	config.DB.First(&resident, resident.ID)
	c.JSON(http.StatusOK, resident)
}

func DeleteResident(c *gin.Context) {
	id := c.Param("id")

	var resident models.Resident
	if err := config.DB.First(&resident, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resident not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resident"})
		return
	}
	if !residentInScope(c, &resident) {
		c.JSON(http.StatusForbidden, gin.H{"error": "resident outside your PG"})
		return
	}

	if err := config.DB.Delete(&resident).Error; err != nil {
		log.Printf("delete resident %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete resident"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resident deleted"})
}
