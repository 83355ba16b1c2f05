package endpoint

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/monorec/config"
	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter builds the HTTP surface of the service on top of db.
func NewRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if err := util.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())
	router.Use(middleware.Authenticate())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	authLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	router.POST("/signup", authLimiter, Signup)
	router.POST("/login", authLimiter, Login)
	router.DELETE("/logout", middleware.RequireAuth(), Logout)
	router.GET("/token/validate", middleware.RequireAuth(), ValidateToken)

	router.GET("/api/users/me", CurrentUser)

	doctor := router.Group("/doctor")
	{
		doctor.GET("", middleware.RequireAuth(), ListDoctors)
		doctor.GET("/:id", GetDoctor)
		doctor.POST("/:id", CreateDoctor)
		doctor.GET("/:id/patient", middleware.RequireRole(model.RoleDoctor), ListPatientsForDoctor)
		doctor.POST("/:id/patient/:patId", AddPatientToDoctor)
		doctor.DELETE("/:id/patient/:patId", RemovePatientFromDoctor)
	}

	patient := router.Group("/patient")
	{
		patient.GET("", middleware.RequireAuth(), ListPatients)
		patient.GET("/me", middleware.RequireRole(model.RolePatient), GetMyPatient)
		patient.GET("/:id", GetPatient)
		patient.POST("/:id", CreatePatient)
		patient.GET("/:id/doctor", middleware.RequireRole(model.RolePatient, model.RoleDoctor), ListDoctorsForPatient)
		patient.POST("/:id/doctor/:docId", AddDoctorToPatient)
		patient.DELETE("/:id/doctor/:docId", RemoveDoctorFromPatient)
	}

	visit := router.Group("/visit")
	{
		doctorOnly := middleware.RequireRole(model.RoleDoctor)
		visit.GET("", ListVisits)
		visit.GET("/upcoming", ListUpcomingVisits)
		visit.GET("/patient/:patId", ListVisitsByPatient)
		visit.GET("/doctor/:docId", ListVisitsByDoctor)
		visit.GET("/doctor/:docId/patient/:patId", ListVisitsByDoctorAndPatient)
		visit.GET("/:id", middleware.RequireRole(model.RoleDoctor, model.RolePatient), GetVisit)
		visit.POST("/:id/:docId", doctorOnly, CreateVisit)
		visit.PUT("/:id", doctorOnly, UpdateVisit)
		visit.DELETE("/:id", doctorOnly, DeleteVisit)
	}

	return router, nil
}
