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

func GetElectricityReadings(c *gin.Context) {
	var readings []models.ElectricityReading
	if err := config.DB.Order("reading_date DESC").Find(&readings).Error; err != nil {
		log.Printf("list readings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load readings"})
		return
	}

	if pg := middleware.ManagerPG(c); pg != "" {
		rooms, err := fetchScopedRooms(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
			return
		}
		readings = services.ScopeReadings(readings, rooms, pg)
	}
	c.JSON(http.StatusOK, readings)
}

type readingPayload struct {
	Version         uint       `json:"version"`
	RoomID          *uint      `json:"room_id"`
	PreviousReading *float64   `json:"previous_reading"`
	CurrentReading  *float64   `json:"current_reading"`
	Rate            *float64   `json:"rate"`
	ReadingDate     *time.Time `json:"reading_date"`
	Status          string     `json:"status"`
}

func GetElectricityReadingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reading id"})
		return
	}

	var reading models.ElectricityReading
	if err := config.DB.First(&reading, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reading"})
		return
	}
	if !readingRoomInScope(c, reading.RoomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "reading outside your PG"})
		return
	}
	c.JSON(http.StatusOK, reading)
}

func readingRoomInScope(c *gin.Context, roomID *uint) bool {
	pg := middleware.ManagerPG(c)
	if pg == "" {
		return true
	}
	if roomID == nil {
		return false
	}
	var room models.Room
	if err := config.DB.First(&room, *roomID).Error; err != nil {
		return false
	}
	return room.PGName == pg
}

func CreateElectricityReading(c *gin.Context) {
	var payload readingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}
	if payload.RoomID == nil || payload.PreviousReading == nil || payload.CurrentReading == nil || payload.Rate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id, previous_reading, current_reading and rate are required"})
		return
	}
	if !readingRoomInScope(c, payload.RoomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
		return
	}

	// Units and amount come from the formula, never from the client.
	units, amount := services.DeriveElectricity(*payload.PreviousReading, *payload.CurrentReading, *payload.Rate)

	reading := models.ElectricityReading{
		RoomID:          payload.RoomID,
		PreviousReading: *payload.PreviousReading,
		CurrentReading:  *payload.CurrentReading,
		Units:           units,
		Rate:            *payload.Rate,
		Amount:          amount,
		Status:          payload.Status,
		Version:         1,
	}
	if payload.ReadingDate != nil {
		reading.ReadingDate = *payload.ReadingDate
	} else {
		reading.ReadingDate = time.Now()
	}
	if reading.Status == "" {
		reading.Status = "Recorded"
	}

	if err := config.DB.Create(&reading).Error; err != nil {
		log.Printf("create reading failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

func UpdateElectricityReading(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reading id"})
		return
	}

	var payload readingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	var reading models.ElectricityReading
	if err := config.DB.First(&reading, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reading"})
		return
	}
	if !readingRoomInScope(c, reading.RoomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "reading outside your PG"})
		return
	}

	previous := reading.PreviousReading
	current := reading.CurrentReading
	rate := reading.Rate
	if payload.PreviousReading != nil {
		previous = *payload.PreviousReading
	}
	if payload.CurrentReading != nil {
		current = *payload.CurrentReading
	}
	if payload.Rate != nil {
		rate = *payload.Rate
	}
	units, amount := services.DeriveElectricity(previous, current, rate)

	updates := map[string]interface{}{
		"previous_reading": previous,
		"current_reading":  current,
		"rate":             rate,
		"units":            units,
		"amount":           amount,
	}
	if payload.RoomID != nil {
		if !readingRoomInScope(c, payload.RoomID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "target room outside your PG"})
			return
		}
		updates["room_id"] = *payload.RoomID
	}
	if payload.ReadingDate != nil {
		updates["reading_date"] = *payload.ReadingDate
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}

	if err := services.UpdateVersioned(config.DB, &models.ElectricityReading{}, reading.ID, payload.Version, updates); err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "reading was modified by another user"})
			return
		}
		log.Printf("update reading %d failed: %v", reading.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	config.DB.First(&reading, reading.ID)
	c.JSON(http.StatusOK, reading)
}

func DeleteElectricityReading(c *gin.Context) {
	id := c.Param("id")

	var reading models.ElectricityReading
	if err := config.DB.First(&reading, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reading"})
		return
	}
	if !readingRoomInScope(c, reading.RoomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "reading outside your PG"})
		return
	}

	if err := config.DB.Delete(&reading).Error; err != nil {
		log.Printf("delete reading %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reading deleted"})
}
