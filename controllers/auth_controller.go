package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/models"
)

// AuthController handles login across the two account tables: users holds
// administrators, pg_manage holds managers. Either way the caller gets the
// same generic error on failure, so usernames cannot be probed.
type AuthController struct {
	jwtSecret   []byte
	tokenExpiry time.Duration
}

func NewAuthController(jwtSecret []byte) *AuthController {
	return &AuthController{
		jwtSecret:   jwtSecret,
		tokenExpiry: 24 * time.Hour,
	}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionUser is what the dashboard persists client-side.
type sessionUser struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	PGName   *string `json:"pg_name,omitempty"`
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// verifyPassword checks the submitted password against the stored value and
// reports whether a legacy plaintext row should be re-hashed.
func verifyPassword(stored, submitted string) (valid, upgrade bool) {
	if stored == "" {
		return false, false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil, false
	}
	// Legacy plaintext row; upgrade to bcrypt on successful login.
	return stored == submitted, stored == submitted
}

func (a *AuthController) mintToken(u sessionUser) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     u.Role,
		"exp":      time.Now().Add(a.tokenExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}
	if u.PGName != nil {
		claims["pg_name"] = *u.PGName
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	var session sessionUser
	var storedPassword string
	var rehash func(hash string)

	var admin models.User
	err := config.DB.Where("username = ?", username).First(&admin).Error
	if err == nil {
		session = sessionUser{ID: admin.ID, Username: admin.Username, Role: models.RoleAdmin}
		storedPassword = admin.Password
		rehash = func(hash string) {
			config.DB.Model(&admin).Update("password", hash)
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		var manager models.PGManage
		if err := config.DB.Where("name = ?", username).First(&manager).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("login lookup failed for %q: %v", username, err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		session = sessionUser{ID: manager.ID, Username: manager.Name, Role: models.RoleManager, PGName: manager.PGName}
		storedPassword = manager.Password
		rehash = func(hash string) {
			config.DB.Model(&manager).Update("password", hash)
		}
	} else {
		log.Printf("login lookup failed for %q: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	valid, upgrade := verifyPassword(storedPassword, payload.Password)
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	// An unassigned manager has no scope; without a pg_name claim the
	// filters would treat them as an administrator.
	if session.Role == models.RoleManager && (session.PGName == nil || *session.PGName == "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "no PG assigned to this account"})
		return
	}
	if upgrade {
		if hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost); err == nil {
			rehash(string(hash))
		}
	}

	token, err := a.mintToken(session)
	if err != nil {
		log.Printf("token mint failed for %q: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": session})
}

// Me echoes the authenticated principal from the token claims.
func (a *AuthController) Me(c *gin.Context) {
	resp := gin.H{
		"id":       c.MustGet("user_id"),
		"username": c.GetString("username"),
		"role":     c.GetString("role"),
	}
	if pg := c.GetString("pg_name"); pg != "" {
		resp["pg_name"] = pg
	}
	c.JSON(http.StatusOK, resp)
}
