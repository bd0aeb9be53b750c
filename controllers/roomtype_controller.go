package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pgmanager-backend/config"
	"pgmanager-backend/models"
)

func GetRoomTypes(c *gin.Context) {
	var types []models.RoomType
	config.DB.Order("type_name").Find(&types)
	c.JSON(http.StatusOK, types)
}

func CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room type"})
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func DeleteRoomType(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.RoomType{}, "id = ?", id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room type deleted"})
}
