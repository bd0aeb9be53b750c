package controllers

import (
	"errors"
	"net/http"

	"pgmanager-backend/config"
	"pgmanager-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type pgSettingsPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

func GetPGSettings(c *gin.Context) {
	var settings models.PGSetting
	if err := config.DB.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"settings": models.PGSetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func UpdatePGSettings(c *gin.Context) {
	var payload pgSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var settings models.PGSetting
	err := config.DB.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.PGSetting{
				Name:    payload.Name,
				Address: payload.Address,
				Phone:   payload.Phone,
				Email:   payload.Email,
				Website: payload.Website,
				Logo:    payload.Logo,
			}
			if err := config.DB.Create(&settings).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"settings": settings})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	settings.Name = payload.Name
	settings.Address = payload.Address
	settings.Phone = payload.Phone
	settings.Email = payload.Email
	settings.Website = payload.Website
	settings.Logo = payload.Logo

	if err := config.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
