package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/models"
	"pgmanager-backend/services"
)

type accommodationPayload struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Contact     string   `json:"contact"`
	Email       string   `json:"email"`
	Features    []string `json:"features"`
	MainImage   string   `json:"main_image"`
	Category    string   `json:"category"`
	MapLink     string   `json:"map_link"`
}

func featuresJSON(features []string) (datatypes.JSON, error) {
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// storeMainImage accepts either an already-hosted URL or an inline base64
// payload, returning the URL to persist.
func storeMainImage(raw string) (string, error) {
	if raw == "" || !strings.Contains(raw, "base64,") {
		return raw, nil
	}
	path, err := services.SaveBase64Image(raw, "accommodations")
	if err != nil {
		return "", err
	}
	return services.PublicImageURL(path), nil
}

func GetAccommodations(c *gin.Context) {
	var accs []models.Accommodation
	if err := config.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Order("name").Find(&accs).Error; err != nil {
		log.Printf("list accommodations failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load accommodations"})
		return
	}
	c.JSON(http.StatusOK, accs)
}

func GetAccommodationByID(c *gin.Context) {
	var acc models.Accommodation
	err := config.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).First(&acc, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "accommodation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load accommodation"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

func CreateAccommodation(c *gin.Context) {
	var payload accommodationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Code = strings.TrimSpace(payload.Code)
	if payload.Name == "" || payload.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}

	features, err := featuresJSON(payload.Features)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid features"})
		return
	}
	mainImage, err := storeMainImage(payload.MainImage)
	if err != nil {
		log.Printf("store accommodation image failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	acc := models.Accommodation{
		Name:        payload.Name,
		Code:        payload.Code,
		Description: payload.Description,
		Address:     payload.Address,
		Contact:     payload.Contact,
		Email:       payload.Email,
		Features:    features,
		MainImage:   mainImage,
		Category:    payload.Category,
		MapLink:     payload.MapLink,
	}
	if err := config.DB.Create(&acc).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "an accommodation with that name or code already exists"})
			return
		}
		log.Printf("create accommodation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, acc)
}

func UpdateAccommodation(c *gin.Context) {
	id := c.Param("id")

	var acc models.Accommodation
	if err := config.DB.First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "accommodation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load accommodation"})
		return
	}

	var payload accommodationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	oldName := acc.Name
	if name := strings.TrimSpace(payload.Name); name != "" {
		acc.Name = name
	}
	if code := strings.TrimSpace(payload.Code); code != "" {
		acc.Code = code
	}
	acc.Description = payload.Description
	acc.Address = payload.Address
	acc.Contact = payload.Contact
	acc.Email = payload.Email
	acc.Category = payload.Category
	acc.MapLink = payload.MapLink

	if payload.Features != nil {
		features, err := featuresJSON(payload.Features)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid features"})
			return
		}
		acc.Features = features
	}
	if payload.MainImage != "" {
		mainImage, err := storeMainImage(payload.MainImage)
		if err != nil {
			log.Printf("store accommodation image failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		acc.MainImage = mainImage
	}

	if err := config.DB.Save(&acc).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "an accommodation with that name or code already exists"})
			return
		}
		log.Printf("update accommodation %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	// A rename must follow through to the rooms' scope column, or every
	// linked room silently drops out of its manager's view.
	if oldName != acc.Name {
		if err := config.DB.Model(&models.Room{}).
			Where("accommodation_id = ?", acc.ID).
			Update("pg_names", acc.Name).Error; err != nil {
			log.Printf("sync room pg_names after rename of accommodation %d: %v", acc.ID, err)
		}
	}

	c.JSON(http.StatusOK, acc)
}

func DeleteAccommodation(c *gin.Context) {
	id := c.Param("id")

	// Hard delete, no cascade: rooms keep their name link and gallery rows
	// keep their FK until cleaned up by hand.
	result := config.DB.Delete(&models.Accommodation{}, "id = ?", id)
	if result.Error != nil {
		log.Printf("delete accommodation %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete accommodation"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "accommodation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "accommodation deleted"})
}
