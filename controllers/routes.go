package controllers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/middleware"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Sessions    *services.SessionIssuer
	Credentials *services.Credentials
	Content     *services.Content
	Inbox       *services.Inbox
	Transfer    *services.Transfer
	Store       utils.ObjectStore
	Images      *utils.FileValidator
	Logger      *slog.Logger

	AllowedOrigins   []string
	ContactRateLimit int
	LoginRateLimit   int

	// UploadDir is the local store root. Only its image prefix is served, at
	// /uploads/portfolio; backups written next to it stay private.
	UploadDir string
	// Console is served at /admin-console when set.
	Console http.FileSystem
}

// NewRouter builds the engine with every route mounted at / and at /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	r := gin.New()

	allowed := map[string]bool{}
	for _, origin := range d.AllowedOrigins {
		allowed[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed["*"] || allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLog(d.Logger))
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	if d.UploadDir != "" {
		prefix := strings.TrimSuffix(utils.UploadPrefix, "/")
		r.Static("/uploads/"+prefix, filepath.Join(d.UploadDir, prefix))
	}
	if d.Console != nil {
		r.StaticFS("/admin-console", d.Console)
	}
	r.NoRoute(func(c *gin.Context) {
		utils.Error(c, http.StatusNotFound, "Route not found")
	})

	// Limiters are shared by both mounts so /api does not double the budget.
	limits := limiters{
		contact: middleware.RateLimit(d.ContactRateLimit, "Too many messages sent, please try again later."),
		login:   middleware.RateLimit(d.LoginRateLimit, "Too many login attempts, please try again later."),
	}
	registerRoutes(r, &d, limits)
	registerRoutes(r.Group("/api"), &d, limits)
	return r
}

type limiters struct {
	contact gin.HandlerFunc
	login   gin.HandlerFunc
}

func registerRoutes(r gin.IRouter, d *Deps, limits limiters) {
	auth := middleware.AuthMiddleware(d.Sessions, d.Credentials)
	superAdmin := middleware.RequireRole(models.RoleSuperAdmin)

	r.POST("/auth/login", limits.login, Login(d.Credentials, d.Sessions))
	me := r.Group("/auth")
	me.Use(auth)
	{
		me.GET("/me", GetMe())
		me.PUT("/profile", UpdateProfile(d.Credentials))
		me.PUT("/password", ChangeMyPassword(d.Credentials))
	}

	r.GET("/portfolio", GetPortfolio(d.Content))
	portfolio := r.Group("/portfolio")
	portfolio.Use(auth)
	{
		portfolio.PUT("", UpdatePortfolio(d.Content))
		portfolio.PUT("/:section", UpdateSection(d.Content))

		portfolio.POST("/projects", AddProject(d.Content))
		portfolio.PUT("/projects/:id", UpdateProject(d.Content))
		portfolio.DELETE("/projects/:id", DeleteItem(d.Content, models.CollectionProjects))

		portfolio.POST("/skills", AddSkill(d.Content))
		portfolio.PUT("/skills/:id", UpdateSkill(d.Content))
		portfolio.DELETE("/skills/:id", DeleteItem(d.Content, models.CollectionSkills))

		portfolio.POST("/contact-info", AddContactInfo(d.Content))
		portfolio.PUT("/contact-info/:id", UpdateContactInfo(d.Content))
		portfolio.DELETE("/contact-info/:id", DeleteItem(d.Content, models.CollectionContactInfo))
	}

	r.POST("/contact", limits.contact, SubmitContact(d.Inbox))
	contact := r.Group("/contact")
	contact.Use(auth)
	{
		contact.GET("", GetContacts(d.Inbox))
		contact.GET("/stats", GetContactStats(d.Inbox))
		contact.GET("/:id", GetContact(d.Inbox))
		contact.PUT("/:id/status", UpdateContactStatus(d.Inbox))
		contact.DELETE("/:id", DeleteContact(d.Inbox))
	}

	admin := r.Group("/admin")
	admin.Use(auth)
	{
		admin.GET("/dashboard", GetDashboard(d.Content, d.Inbox))

		admin.POST("/upload", UploadImage(d.Store, d.Images))
		admin.GET("/uploads", GetUploads(d.Store))
		admin.DELETE("/upload/:filename", DeleteUpload(d.Store))

		admin.GET("/export", ExportData(d.Transfer))
		admin.POST("/import", ImportData(d.Transfer))
		admin.POST("/backup", CreateBackup(d.Transfer, d.Store))

		admin.GET("/admins", GetAdmins(d.Credentials))
		admin.POST("/admins", superAdmin, CreateAdmin(d.Credentials))
		admin.PUT("/admins/:id", superAdmin, UpdateAdmin(d.Credentials))
		admin.DELETE("/admins/:id", superAdmin, DeleteAdmin(d.Credentials))
	}
}
