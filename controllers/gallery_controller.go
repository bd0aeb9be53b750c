package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/models"
	"pgmanager-backend/services"
)

func GetGalleryImages(c *gin.Context) {
	q := config.DB.Order("sort_order")
	if accID := c.Query("accommodation_id"); accID != "" {
		q = q.Where("accommodation_id = ?", accID)
	}

	var images []models.AccommodationImage
	if err := q.Find(&images).Error; err != nil {
		log.Printf("list gallery images failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load images"})
		return
	}
	c.JSON(http.StatusOK, images)
}

// nextSortOrder returns max(sort_order)+1 within the accommodation, 0 for
// the first image.
func nextSortOrder(accommodationID *uint) int {
	var max *int
	q := config.DB.Model(&models.AccommodationImage{}).Select("MAX(sort_order)")
	if accommodationID != nil {
		q = q.Where("accommodation_id = ?", *accommodationID)
	} else {
		q = q.Where("accommodation_id IS NULL")
	}
	if err := q.Scan(&max).Error; err != nil || max == nil {
		return 0
	}
	return *max + 1
}

type galleryImagePayload struct {
	AccommodationID *uint  `json:"accommodation_id"`
	ImageURL        string `json:"image_url"`
	ImageData       string `json:"image_data"`
	AltText         string `json:"alt_text"`
	SortOrder       *int   `json:"sort_order"`
}

func CreateGalleryImage(c *gin.Context) {
	var payload galleryImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}
	if payload.AltText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alt_text is required"})
		return
	}

	imageURL := payload.ImageURL
	if payload.ImageData != "" {
		path, err := services.SaveBase64Image(payload.ImageData, "accommodations")
		if err != nil {
			log.Printf("store gallery image failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		imageURL = services.PublicImageURL(path)
	}
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url or image_data is required"})
		return
	}

	if payload.AccommodationID != nil {
		var acc models.Accommodation
		if err := config.DB.First(&acc, *payload.AccommodationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation_id"})
			return
		}
	}

	sortOrder := nextSortOrder(payload.AccommodationID)
	if payload.SortOrder != nil {
		sortOrder = *payload.SortOrder
	}

	image := models.AccommodationImage{
		AccommodationID: payload.AccommodationID,
		ImageURL:        imageURL,
		AltText:         payload.AltText,
		SortOrder:       sortOrder,
	}
	if err := config.DB.Create(&image).Error; err != nil {
		log.Printf("create gallery image failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, image)
}

type galleryImageUpdatePayload struct {
	AltText   *string `json:"alt_text"`
	SortOrder *int    `json:"sort_order"`
}

func UpdateGalleryImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var payload galleryImageUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	var image models.AccommodationImage
	if err := config.DB.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load image"})
		return
	}

	if payload.AltText != nil {
		if *payload.AltText == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "alt_text cannot be empty"})
			return
		}
		image.AltText = *payload.AltText
	}
	if payload.SortOrder != nil {
		image.SortOrder = *payload.SortOrder
	}

	if err := config.DB.Save(&image).Error; err != nil {
		log.Printf("update gallery image %d failed: %v", image.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, image)
}

func DeleteGalleryImage(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Delete(&models.AccommodationImage{}, "id = ?", id)
	if result.Error != nil {
		log.Printf("delete gallery image %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// UploadAccommodationImage stores a multipart image and returns its public
// URL, for clients that upload before creating the database row.
func UploadAccommodationImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	path, err := services.SaveUploadedImage(file, "accommodations")
	if err != nil {
		log.Printf("upload image failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path, "url": services.PublicImageURL(path)})
}
