package server

import (
	"net/http"

	"inspection-portal/internal/catalog"
	"inspection-portal/internal/config"
	"inspection-portal/internal/handlers"
	"inspection-portal/internal/ledger"
	"inspection-portal/internal/lifecycle"
	"inspection-portal/internal/middleware"
	"inspection-portal/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inspection_session", store))

	r.Use(middleware.InjectUser(db))

	resultLedger := ledger.New(db)
	checklistCatalog := catalog.New(db)
	inspectionLifecycle := lifecycle.New(db, resultLedger)

	authH := handlers.NewAuthHandler(db)
	userH := handlers.NewUserHandler(db)
	checklistH := handlers.NewChecklistHandler(checklistCatalog)
	inspectionH := handlers.NewInspectionHandler(inspectionLifecycle, checklistCatalog, resultLedger)
	resultH := handlers.NewResultHandler(resultLedger, inspectionLifecycle)
	fileH := handlers.NewFileHandler(cfg.UploadDir)

	// AUTH
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", authH.Logout)

	auth := r.Group("/api")
	auth.Use(middleware.RequireAuth())

	auth.GET("/auth/me", authH.Me)

	// ПОЛЬЗОВАТЕЛИ — управление только для админа,
	// смена собственного пароля доступна всем
	auth.POST("/users/change-password", userH.ChangePassword)

	users := auth.Group("/users", middleware.RequireRole(models.RoleAdmin))
	users.GET("", userH.List)
	users.GET("/:id", userH.Get)
	users.POST("", userH.Create)
	users.PUT("/:id", userH.Update)
	users.PUT("/:id/role", userH.UpdateRole)
	users.PUT("/:id/enabled", userH.UpdateEnabled)
	users.PUT("/:id/password", userH.ResetPassword)
	users.DELETE("/:id", userH.Delete)

	// ЧЕК-ЛИСТЫ
	auth.GET("/checklists", checklistH.List)
	auth.GET("/checklists/:id", checklistH.Get)
	auth.GET("/checklists/:id/items", checklistH.Items)
	auth.POST("/checklists", middleware.RequireEdit(), checklistH.Create)
	auth.PUT("/checklists/:id", middleware.RequireEdit(), checklistH.Update)
	auth.DELETE("/checklists/:id", middleware.RequireEdit(), checklistH.Delete)
	auth.POST("/checklists/:id/items", middleware.RequireEdit(), checklistH.AddItem)
	auth.PUT("/checklists/items/:itemId", middleware.RequireEdit(), checklistH.UpdateItem)
	auth.DELETE("/checklists/items/:itemId", middleware.RequireEdit(), checklistH.DeleteItem)

	// ПРОВЕРКИ
	auth.GET("/inspections", inspectionH.List)
	auth.GET("/inspections/statistics", inspectionH.Statistics)
	auth.GET("/inspections/status/:status", inspectionH.ListByStatus)
	auth.GET("/inspections/:id", inspectionH.Get)
	auth.GET("/inspections/:id/report", inspectionH.Report)
	auth.POST("/inspections", middleware.RequireEdit(), inspectionH.Create)
	auth.PUT("/inspections/:id", middleware.RequireEdit(), inspectionH.Update)
	auth.PUT("/inspections/:id/status", middleware.RequireEdit(), inspectionH.UpdateStatus)
	auth.DELETE("/inspections/:id", middleware.RequireEdit(), inspectionH.Delete)

	// ИТОГИ
	auth.GET("/results/inspection/:inspectionId", resultH.ListByInspection)
	auth.POST("/results/inspection/:inspectionId", middleware.RequireEdit(), resultH.Record)
	auth.PUT("/results/:id", middleware.RequireEdit(), resultH.Update)
	auth.DELETE("/results/:id", middleware.RequireEdit(), resultH.Delete)

	// ФАЙЛЫ
	auth.POST("/files/upload", middleware.RequireEdit(), fileH.Upload)
	auth.GET("/files/:filename", fileH.Get)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
