package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pgmanager-backend/config"
	"pgmanager-backend/controllers"
	"pgmanager-backend/models"
)

var testSecret = []byte("test-secret")

// setupTestServer migrates a fresh in-memory database, points the global
// connection at it and returns the fully wired router.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	return SetupRouter(controllers.NewAuthController(testSecret), testSecret)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func seedAdmin(t *testing.T, username, password string) models.User {
	t.Helper()
	admin := models.User{Username: username, Password: hashPassword(t, password), Role: models.RoleAdmin}
	require.NoError(t, config.DB.Create(&admin).Error)
	return admin
}

func seedManager(t *testing.T, name, password, pgName string) models.PGManage {
	t.Helper()
	manager := models.PGManage{Name: name, Password: hashPassword(t, password), PGName: &pgName}
	require.NoError(t, config.DB.Create(&manager).Error)
	return manager
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginRolesAndMe(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	seedManager(t, "ravi", "managerpw", "Sunrise PG")

	w := doJSON(r, "POST", "/api/auth/login", "", gin.H{"username": "ravi", "password": "managerpw"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string  `json:"username"`
			Role     string  `json:"role"`
			PGName   *string `json:"pg_name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "manager", resp.User.Role)
	require.NotNil(t, resp.User.PGName)
	assert.Equal(t, "Sunrise PG", *resp.User.PGName)

	me := doJSON(r, "GET", "/api/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"pg_name":"Sunrise PG"`)

	adminToken := login(t, r, "admin", "secret123")
	me = doJSON(r, "GET", "/api/auth/me", adminToken, nil)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"role":"admin"`)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")

	wrongPassword := doJSON(r, "POST", "/api/auth/login", "", gin.H{"username": "admin", "password": "nope"})
	unknownUser := doJSON(r, "POST", "/api/auth/login", "", gin.H{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// Same body either way, so usernames cannot be probed.
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.NotContains(t, wrongPassword.Body.String(), "token")
}

func TestUnassignedManagerCannotLogIn(t *testing.T) {
	r := setupTestServer(t)
	manager := models.PGManage{Name: "floating", Password: hashPassword(t, "managerpw")}
	require.NoError(t, config.DB.Create(&manager).Error)

	w := doJSON(r, "POST", "/api/auth/login", "", gin.H{"username": "floating", "password": "managerpw"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestLegacyPlaintextPasswordUpgradedOnLogin(t *testing.T) {
	r := setupTestServer(t)
	pg := "Sunrise PG"
	manager := models.PGManage{Name: "legacy", Password: "oldplain", PGName: &pg}
	require.NoError(t, config.DB.Create(&manager).Error)

	login(t, r, "legacy", "oldplain")

	var stored models.PGManage
	require.NoError(t, config.DB.First(&stored, manager.ID).Error)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"), "password should be re-hashed, got %q", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("oldplain")))

	// Second login goes through the bcrypt path.
	login(t, r, "legacy", "oldplain")
}

func seedTwoPGRooms(t *testing.T) (sunrise, moonlight models.Room) {
	t.Helper()
	sunrise = models.Room{RoomNo: "101", Capacity: 2, Occupancy: 1, Rent: 6000, Status: "Occupied", PGName: "Sunrise PG"}
	moonlight = models.Room{RoomNo: "201", Capacity: 3, Occupancy: 3, Rent: 4500, Status: "Full", PGName: "Moonlight PG"}
	require.NoError(t, config.DB.Create(&sunrise).Error)
	require.NoError(t, config.DB.Create(&moonlight).Error)
	return sunrise, moonlight
}

func TestManagerSeesOnlyTheirRooms(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	seedManager(t, "ravi", "managerpw", "Sunrise PG")
	_, moonlight := seedTwoPGRooms(t)

	managerToken := login(t, r, "ravi", "managerpw")
	adminToken := login(t, r, "admin", "secret123")

	w := doJSON(r, "GET", "/api/rooms", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var managerRooms []models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &managerRooms))
	require.Len(t, managerRooms, 1)
	assert.Equal(t, "101", managerRooms[0].RoomNo)

	w = doJSON(r, "GET", "/api/rooms", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var allRooms []models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &allRooms))
	assert.Len(t, allRooms, 2)

	// Reads and writes outside the manager's PG are refused outright.
	w = doJSON(r, "GET", fmt.Sprintf("/api/rooms/%d", moonlight.ID), managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "PUT", fmt.Sprintf("/api/rooms/%d", moonlight.ID), managerToken, gin.H{"version": 1, "rent": 5000})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "DELETE", fmt.Sprintf("/api/rooms/%d", moonlight.ID), managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestManagerCannotRelinkRoomToAnotherPG(t *testing.T) {
	r := setupTestServer(t)
	seedManager(t, "ravi", "managerpw", "Sunrise PG")

	sunrise := models.Accommodation{Name: "Sunrise PG", Code: "SUN"}
	moonlight := models.Accommodation{Name: "Moonlight PG", Code: "MOON"}
	require.NoError(t, config.DB.Create(&sunrise).Error)
	require.NoError(t, config.DB.Create(&moonlight).Error)

	room := models.Room{RoomNo: "101", Capacity: 2, PGName: "Sunrise PG", AccommodationID: &sunrise.ID, Version: 1}
	require.NoError(t, config.DB.Create(&room).Error)

	token := login(t, r, "ravi", "managerpw")

	// Relinking to another PG's accommodation would carry the room out of
	// the caller's scope.
	w := doJSON(r, "PUT", fmt.Sprintf("/api/rooms/%d", room.ID), token, gin.H{"version": 1, "accommodation_id": moonlight.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var current models.Room
	require.NoError(t, config.DB.First(&current, room.ID).Error)
	assert.Equal(t, "Sunrise PG", current.PGName)
	assert.Equal(t, sunrise.ID, *current.AccommodationID)
	assert.Equal(t, uint(1), current.Version)

	// Re-asserting the room's own accommodation is fine.
	w = doJSON(r, "PUT", fmt.Sprintf("/api/rooms/%d", room.ID), token, gin.H{"version": 1, "accommodation_id": sunrise.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, config.DB.First(&current, room.ID).Error)
	assert.Equal(t, "Sunrise PG", current.PGName)
}

func TestManagerCreatedRoomIsForcedIntoTheirPG(t *testing.T) {
	r := setupTestServer(t)
	seedManager(t, "ravi", "managerpw", "Sunrise PG")
	token := login(t, r, "ravi", "managerpw")

	w := doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "105", "capacity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var room models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, "Sunrise PG", room.PGName)

	w = doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "106", "capacity": 2, "pg_names": "Moonlight PG"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoomUpdateVersionConflict(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	token := login(t, r, "admin", "secret123")

	room := models.Room{RoomNo: "101", Capacity: 2, Occupancy: 0, Version: 1}
	require.NoError(t, config.DB.Create(&room).Error)

	w := doJSON(r, "PUT", fmt.Sprintf("/api/rooms/%d", room.ID), token, gin.H{"version": 1, "rent": 7000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, uint(2), updated.Version)
	assert.Equal(t, 7000.0, updated.Rent)

	// Replaying the stale version must not apply.
	w = doJSON(r, "PUT", fmt.Sprintf("/api/rooms/%d", room.ID), token, gin.H{"version": 1, "rent": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	var current models.Room
	require.NoError(t, config.DB.First(&current, room.ID).Error)
	assert.Equal(t, 7000.0, current.Rent)
}

func TestOccupancyClampedToCapacity(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	token := login(t, r, "admin", "secret123")

	w := doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "301", "capacity": 2, "occupancy": 5})
	require.Equal(t, http.StatusCreated, w.Code)
	var room models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, 2, room.Occupancy)

	w = doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "302", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestElectricityDerivedServerSide(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	token := login(t, r, "admin", "secret123")

	room := models.Room{RoomNo: "101", Capacity: 2}
	require.NoError(t, config.DB.Create(&room).Error)

	w := doJSON(r, "POST", "/api/electricity", token, gin.H{
		"room_id":          room.ID,
		"previous_reading": 1240,
		"current_reading":  1320,
		"rate":             8,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reading models.ElectricityReading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.Equal(t, 80.0, reading.Units)
	assert.Equal(t, 640.0, reading.Amount)
	assert.Equal(t, "Recorded", reading.Status)

	// A meter rollback clamps to zero instead of billing negative units.
	w = doJSON(r, "POST", "/api/electricity", token, gin.H{
		"room_id":          room.ID,
		"previous_reading": 1300,
		"current_reading":  1240,
		"rate":             8,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.Equal(t, 0.0, reading.Units)
	assert.Equal(t, 0.0, reading.Amount)
}

func TestBillCreationAssignsInvoiceAndDefaults(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	token := login(t, r, "admin", "secret123")

	resident := models.Resident{Name: "Asha", Status: "Active"}
	require.NoError(t, config.DB.Create(&resident).Error)

	w := doJSON(r, "POST", "/api/bills", token, gin.H{"resident_id": resident.ID, "amount": 6000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill models.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bill))
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{8}-\d{4}$`), bill.InvoiceID)
	assert.Equal(t, models.BillStatusPending, bill.Status)
	assert.Equal(t, bill.BillDate.AddDate(0, 0, 10).Unix(), bill.DueDate.Unix())

	w = doJSON(r, "PUT", fmt.Sprintf("/api/bills/%d", bill.ID), token, gin.H{"version": 1, "status": "Settled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleGates(t *testing.T) {
	r := setupTestServer(t)
	seedManager(t, "ravi", "managerpw", "Sunrise PG")
	managerToken := login(t, r, "ravi", "managerpw")

	// Admin-only surface.
	w := doJSON(r, "GET", "/api/users", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(r, "POST", "/api/accommodations", managerToken, gin.H{"name": "X", "code": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No token at all.
	w = doJSON(r, "GET", "/api/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Public catalog stays open.
	w = doJSON(r, "GET", "/api/accommodations", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardIsAdminOnly(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	seedManager(t, "ravi", "managerpw", "Sunrise PG")
	sunrise, moonlight := seedTwoPGRooms(t)

	rent := 6000.0
	resident := models.Resident{Name: "Asha", RoomID: &sunrise.ID, Status: "Active", MonthlyRent: &rent}
	outside := models.Resident{Name: "Vik", RoomID: &moonlight.ID, Status: "Active"}
	require.NoError(t, config.DB.Create(&resident).Error)
	require.NoError(t, config.DB.Create(&outside).Error)

	managerToken := login(t, r, "ravi", "managerpw")
	w := doJSON(r, "GET", "/api/dashboard/stats", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(r, "GET", "/api/dashboard/activity", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(r, "GET", "/api/reports/financial", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := login(t, r, "admin", "secret123")
	w = doJSON(r, "GET", "/api/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalRooms       int     `json:"total_rooms"`
		TotalResidents   int     `json:"total_residents"`
		OccupancyPercent float64 `json:"occupancy_percent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalRooms)
	assert.Equal(t, 2, stats.TotalResidents)
	// 4 of 5 beds filled across the two PGs.
	assert.Equal(t, 80.0, stats.OccupancyPercent)

	w = doJSON(r, "GET", "/api/reports/financial", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "revenue_by_month")
}

func TestRoomNumberUniquePerPG(t *testing.T) {
	r := setupTestServer(t)
	seedAdmin(t, "admin", "secret123")
	token := login(t, r, "admin", "secret123")

	w := doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "101", "capacity": 2, "pg_names": "Sunrise PG"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The same number in a different PG is a different room.
	w = doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "101", "capacity": 3, "pg_names": "Moonlight PG"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Within one PG it still collides.
	w = doJSON(r, "POST", "/api/rooms", token, gin.H{"room_no": "101", "capacity": 2, "pg_names": "Sunrise PG"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
