package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"pgmanager-backend/controllers"
	"pgmanager-backend/middleware"
	"pgmanager-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every endpoint. Public reads of the accommodation catalog
// are cached; everything under auth is recomputed per request.
func SetupRouter(ac *controllers.AuthController, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	publicCache := gocache.New(time.Minute, 5*time.Minute)

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(rate.Limit(20), 40))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
			auth.GET("/me", middleware.RequireAuth(jwtSecret), ac.Me)
		}

		// Public catalog for the marketing site. Reads are cached briefly;
		// writes are admin only and registered further down.
		api.GET("/accommodations", middleware.Cache(publicCache, time.Minute), controllers.GetAccommodations)
		api.GET("/accommodations/:id", middleware.Cache(publicCache, time.Minute), controllers.GetAccommodationByID)
		api.GET("/gallery", middleware.Cache(publicCache, time.Minute), controllers.GetGalleryImages)

		staff := api.Group("")
		staff.Use(middleware.RequireAuth(jwtSecret), middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
		{
			rooms := staff.Group("/rooms")
			{
				rooms.GET("", controllers.GetRooms)
				rooms.GET("/:id", controllers.GetRoomByID)
				rooms.POST("", controllers.CreateRoom)
				rooms.PATCH("/:id", controllers.UpdateRoom)
				rooms.PUT("/:id", controllers.UpdateRoom)
				rooms.DELETE("/:id", controllers.DeleteRoom)
			}

			residents := staff.Group("/residents")
			{
				residents.GET("", controllers.GetResidents)
				residents.GET("/:id", controllers.GetResidentByID)
				residents.POST("", controllers.CreateResident)
				residents.PUT("/:id", controllers.UpdateResident)
				residents.DELETE("/:id", controllers.DeleteResident)
			}

			bills := staff.Group("/bills")
			{
				bills.GET("", controllers.GetBills)
				bills.GET("/:id", controllers.GetBillByID)
				bills.POST("", controllers.CreateBill)
				bills.PUT("/:id", controllers.UpdateBill)
				bills.DELETE("/:id", controllers.DeleteBill)
			}

			electricity := staff.Group("/electricity")
			{
				electricity.GET("", controllers.GetElectricityReadings)
				electricity.GET("/:id", controllers.GetElectricityReadingByID)
				electricity.POST("", controllers.CreateElectricityReading)
				electricity.PUT("/:id", controllers.UpdateElectricityReading)
				electricity.DELETE("/:id", controllers.DeleteElectricityReading)
			}

			staff.GET("/room-types", controllers.GetRoomTypes)
		}

		admin := api.Group("")
		admin.Use(middleware.RequireAuth(jwtSecret), middleware.RequireRoles(models.RoleAdmin))
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
				dashboard.GET("/activity", controllers.GetDashboardActivity)
			}

			admin.GET("/reports/financial", controllers.GetFinancialReport)

			accommodations := admin.Group("/accommodations")
			{
				accommodations.POST("", controllers.CreateAccommodation)
				accommodations.PUT("/:id", controllers.UpdateAccommodation)
				accommodations.DELETE("/:id", controllers.DeleteAccommodation)
			}

			admin.POST("/uploads/accommodations", controllers.UploadAccommodationImage)

			gallery := admin.Group("/gallery")
			{
				gallery.POST("", controllers.CreateGalleryImage)
				gallery.PUT("/:id", controllers.UpdateGalleryImage)
				gallery.DELETE("/:id", controllers.DeleteGalleryImage)
			}

			roomTypes := admin.Group("/room-types")
			{
				roomTypes.POST("", controllers.CreateRoomType)
				roomTypes.DELETE("/:id", controllers.DeleteRoomType)
			}

			users := admin.Group("/users")
			{
				users.GET("", controllers.GetUsers)
				users.POST("", controllers.CreateUser)
				users.PUT("/:id", controllers.UpdateUser)
				users.DELETE("/:id", controllers.DeleteUser)
			}

			pgUsers := admin.Group("/pg-users")
			{
				pgUsers.GET("", controllers.GetPGUsers)
				pgUsers.POST("", controllers.CreatePGUser)
				pgUsers.PUT("/:id", controllers.UpdatePGUser)
				pgUsers.DELETE("/:id", controllers.DeletePGUser)
			}

			settings := admin.Group("/settings")
			{
				settings.GET("/pg", controllers.GetPGSettings)
				settings.PUT("/pg", controllers.UpdatePGSettings)
			}
		}
	}

	return r
}
