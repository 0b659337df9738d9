package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-facility-api/internal/middleware"
	"github.com/noah-isme/campus-facility-api/internal/models"
	"github.com/noah-isme/campus-facility-api/internal/service"
)

// Handlers bundles every HTTP handler needed to serve the API.
type Handlers struct {
	Auth                  *AuthHandler
	Semesters             *SemesterHandler
	Rooms                 *RoomHandler
	Equipment             *EquipmentHandler
	Schedules             *ScheduleHandler
	Timetable             *TimetableHandler
	RoomReservations      *RoomReservationHandler
	EquipmentReservations *EquipmentReservationHandler
	Activities            *ActivityHandler
	Dashboard             *DashboardHandler
}

// RegisterRoutes mounts all API routes under the given prefix. Auth routes
// are public; everything else requires a valid token, with write operations
// restricted to admins.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService) {
	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", middleware.JWT(authService), h.Auth.Logout)
		auth.GET("/me", middleware.JWT(authService), h.Auth.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authService))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)

	semesters := secured.Group("/semesters")
	{
		semesters.GET("", h.Semesters.List)
		semesters.GET("/active", h.Semesters.Active)
		semesters.POST("", adminOnly, h.Semesters.Create)
		semesters.PUT("/:id", adminOnly, h.Semesters.Update)
		semesters.POST("/:id/activate", adminOnly, h.Semesters.SetActive)
		semesters.DELETE("", adminOnly, h.Semesters.Delete)
	}

	rooms := secured.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.POST("", adminOnly, h.Rooms.Create)
		rooms.PUT("/:id", adminOnly, h.Rooms.Update)
		rooms.DELETE("", adminOnly, h.Rooms.Delete)
		rooms.GET("/:id/schedules", h.Schedules.ListByRoom)
		rooms.GET("/:id/timetable", h.Timetable.ForRoom)
		rooms.GET("/:id/timetable/export", h.Timetable.Export)
	}

	equipment := secured.Group("/equipment")
	{
		equipment.GET("", h.Equipment.List)
		equipment.GET("/:id", h.Equipment.Get)
		equipment.POST("", adminOnly, h.Equipment.Create)
		equipment.PUT("/:id", adminOnly, h.Equipment.Update)
		equipment.DELETE("", adminOnly, h.Equipment.Delete)
	}

	schedules := secured.Group("/schedules")
	{
		schedules.POST("", staff, h.Schedules.Create)
		schedules.DELETE("", adminOnly, h.Schedules.Delete)
	}
	secured.GET("/instructors/:id/schedules", h.Schedules.ListByInstructor)
	secured.DELETE("/occurrences/:id", staff, h.Schedules.DeleteOccurrence)

	roomRes := secured.Group("/reservations/rooms")
	{
		roomRes.GET("", h.RoomReservations.List)
		roomRes.POST("", h.RoomReservations.Create)
		roomRes.POST("/:id/approve", adminOnly, h.RoomReservations.Approve)
		roomRes.POST("/:id/reject", adminOnly, h.RoomReservations.Reject)
		roomRes.POST("/:id/cancel", h.RoomReservations.Cancel)
		roomRes.DELETE("", adminOnly, h.RoomReservations.Delete)
	}

	equipRes := secured.Group("/reservations/equipment")
	{
		equipRes.GET("", h.EquipmentReservations.List)
		equipRes.POST("", h.EquipmentReservations.Create)
		equipRes.POST("/:id/approve", adminOnly, h.EquipmentReservations.Approve)
		equipRes.POST("/:id/reject", adminOnly, h.EquipmentReservations.Reject)
		equipRes.POST("/:id/cancel", h.EquipmentReservations.Cancel)
		equipRes.POST("/:id/borrow", adminOnly, h.EquipmentReservations.Borrow)
		equipRes.POST("/:id/return", adminOnly, h.EquipmentReservations.Return)
		equipRes.DELETE("", adminOnly, h.EquipmentReservations.Delete)
	}

	secured.GET("/activities", adminOnly, h.Activities.List)
	secured.GET("/dashboard", staff, h.Dashboard.Summary)
}
