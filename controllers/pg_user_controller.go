package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/models"
)

type pgManagePayload struct {
	Name     string  `json:"name"`
	Password string  `json:"password"`
	PGName   *string `json:"pg_name"`
}

// validatePGName rejects scope assignments that do not match an existing
// accommodation, so a typo cannot create a manager who sees nothing.
func validatePGName(pgName *string) error {
	if pgName == nil || *pgName == "" {
		return nil
	}
	var acc models.Accommodation
	return config.DB.Where("name = ?", *pgName).First(&acc).Error
}

func GetPGUsers(c *gin.Context) {
	var managers []models.PGManage
	if err := config.DB.Order("name").Find(&managers).Error; err != nil {
		log.Printf("list pg users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load PG users"})
		return
	}
	c.JSON(http.StatusOK, managers)
}

func CreatePGUser(c *gin.Context) {
	var payload pgManagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" || len(payload.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a password of at least 6 characters are required"})
		return
	}
	if err := validatePGName(payload.PGName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pg_name does not match any accommodation"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	manager := models.PGManage{Name: name, Password: string(hash), PGName: payload.PGName}
	if err := config.DB.Create(&manager).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "a PG user with that name already exists"})
			return
		}
		log.Printf("create pg user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, manager)
}

func UpdatePGUser(c *gin.Context) {
	id := c.Param("id")

	var manager models.PGManage
	if err := config.DB.First(&manager, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "PG user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load PG user"})
		return
	}

	var payload pgManagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if name := strings.TrimSpace(payload.Name); name != "" {
		manager.Name = name
	}
	if payload.PGName != nil {
		if err := validatePGName(payload.PGName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pg_name does not match any accommodation"})
			return
		}
		if *payload.PGName == "" {
			manager.PGName = nil
		} else {
			manager.PGName = payload.PGName
		}
	}
	if payload.Password != "" {
		if len(payload.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		manager.Password = string(hash)
	}

	if err := config.DB.Save(&manager).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "a PG user with that name already exists"})
			return
		}
		log.Printf("update pg user %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, manager)
}

func DeletePGUser(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.PGManage{}, "id = ?", id)
	if result.Error != nil {
		log.Printf("delete pg user %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete PG user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "PG user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PG user deleted"})
}
