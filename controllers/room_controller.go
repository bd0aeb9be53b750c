package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/middleware"
	"pgmanager-backend/models"
	"pgmanager-backend/services"
)

// fetchScopedRooms loads rooms for the caller; managers get the WHERE clause
// pushed down instead of filtering after the fact.
func fetchScopedRooms(c *gin.Context) ([]models.Room, error) {
	var rooms []models.Room
	q := config.DB.Order("room_no")
	if pg := middleware.ManagerPG(c); pg != "" {
		q = q.Where("pg_names = ?", pg)
	}
	err := q.Find(&rooms).Error
	return rooms, err
}

func GetRooms(c *gin.Context) {
	rooms, err := fetchScopedRooms(c)
	if err != nil {
		log.Printf("list rooms failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func GetRoomByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var room models.Room
	if err := config.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}

	if pg := middleware.ManagerPG(c); pg != "" && room.PGName != pg {
		c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// resolveAccommodationName fills the legacy pg_names column from the FK when
// one is set; the FK is the authoritative link.
func resolveAccommodationName(room *models.Room) error {
	if room.AccommodationID == nil {
		return nil
	}
	var acc models.Accommodation
	if err := config.DB.First(&acc, *room.AccommodationID).Error; err != nil {
		return err
	}
	room.PGName = acc.Name
	return nil
}

func clampOccupancy(occupancy, capacity int) int {
	if occupancy < 0 {
		return 0
	}
	if occupancy > capacity {
		return capacity
	}
	return occupancy
}

func CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	room.RoomNo = strings.TrimSpace(room.RoomNo)
	if room.RoomNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room number is required"})
		return
	}
	if room.Capacity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be at least 1"})
		return
	}
	room.Occupancy = clampOccupancy(room.Occupancy, room.Capacity)

	if err := resolveAccommodationName(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation_id"})
		return
	}

	// A manager can only create rooms inside their own PG.
	if pg := middleware.ManagerPG(c); pg != "" {
		if room.PGName != "" && room.PGName != pg {
			c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
			return
		}
		room.PGName = pg
	}

	room.ID = 0
	room.Version = 1
	if err := config.DB.Create(&room).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("room number %q already exists", room.RoomNo)})
			return
		}
		log.Printf("create room failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

type roomUpdatePayload struct {
	Version         uint     `json:"version"`
	RoomNo          *string  `json:"room_no"`
	Type            *string  `json:"type"`
	Floor           *string  `json:"floor"`
	Capacity        *int     `json:"capacity"`
	Occupancy       *int     `json:"occupancy"`
	Rent            *float64 `json:"rent"`
	Status          *string  `json:"status"`
	AccommodationID *uint    `json:"accommodation_id"`
	PGName          *string  `json:"pg_names"`
}

func UpdateRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var payload roomUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	var room models.Room
	if err := config.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}
	if pg := middleware.ManagerPG(c); pg != "" && room.PGName != pg {
		c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
		return
	}

	updates := map[string]interface{}{}
	if payload.RoomNo != nil {
		updates["room_no"] = strings.TrimSpace(*payload.RoomNo)
	}
	if payload.Type != nil {
		updates["type"] = *payload.Type
	}
	if payload.Floor != nil {
		updates["floor"] = *payload.Floor
	}
	if payload.Rent != nil {
		updates["rent"] = *payload.Rent
	}
	if payload.Status != nil {
		updates["status"] = *payload.Status
	}

	capacity := room.Capacity
	if payload.Capacity != nil {
		if *payload.Capacity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be at least 1"})
			return
		}
		capacity = *payload.Capacity
		updates["capacity"] = capacity
	}
	occupancy := room.Occupancy
	if payload.Occupancy != nil {
		occupancy = *payload.Occupancy
	}
	updates["occupancy"] = clampOccupancy(occupancy, capacity)

	if payload.AccommodationID != nil {
		linked := models.Room{AccommodationID: payload.AccommodationID}
		if err := resolveAccommodationName(&linked); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation_id"})
			return
		}
		// Relinking changes the scope column; a manager may not move the
		// room into another manager's PG.
		if pg := middleware.ManagerPG(c); pg != "" && linked.PGName != pg {
			c.JSON(http.StatusForbidden, gin.H{"error": "accommodation outside your PG"})
			return
		}
		updates["accommodation_id"] = *payload.AccommodationID
		updates["pg_names"] = linked.PGName
	} else if payload.PGName != nil && middleware.ManagerPG(c) == "" {
		updates["pg_names"] = *payload.PGName
	}

	if err := services.UpdateVersioned(config.DB, &models.Room{}, room.ID, payload.Version, updates); err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "room was modified by another user"})
			return
		}
		log.Printf("update room %d failed: %v", room.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	config.DB.First(&room, room.ID)
	c.JSON(http.StatusOK, room)
}

func DeleteRoom(c *gin.Context) {
	id := c.Param("id")

	if pg := middleware.ManagerPG(c); pg != "" {
		var room models.Room
		if err := config.DB.First(&room, "id = ?", id).Error; err == nil && room.PGName != pg {
			c.JSON(http.StatusForbidden, gin.H{"error": "room outside your PG"})
			return
		}
	}

	result := config.DB.Where("id = ?", id).Delete(&models.Room{})
	if result.Error != nil {
		log.Printf("delete room %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("room with id %s not found", id)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}
