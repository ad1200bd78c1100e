package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventsplus-api/docs"
	"github.com/vietanh2810/eventsplus-api/internal/api/cookie"
	v1 "github.com/vietanh2810/eventsplus-api/internal/api/handler/v1"
	"github.com/vietanh2810/eventsplus-api/internal/api/middleware"
	"github.com/vietanh2810/eventsplus-api/internal/api/templates"
	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/metrics"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/sessionstore"
	"github.com/vietanh2810/eventsplus-api/internal/repository"
	"github.com/vietanh2810/eventsplus-api/internal/repository/dao"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *metrics.Metrics
	Hub     *v1.LiveHub

	auth    *middleware.Authenticator
	limiter *middleware.RateLimiter
}

type handlers struct {
	auth  *v1.AuthHandler
	event *v1.EventHandler
	live  *v1.LiveHandler
	admin *v1.AdminHandler

	events middleware.EventGetter
}

func NewServer(conf *config.AppConfig, db *gorm.DB, store sessionstore.Store) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("templates.Load -> %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	cookies := cookie.NewHelper(conf.API.SessionCookieSecure)
	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: metrics.New(),
		Hub:     v1.NewLiveHub(),
		auth:    middleware.NewAuthenticator(conf.API.SessionSecret, store, cookies),
		limiter: middleware.NewRateLimiter(conf.API.RateLimitRPS, conf.API.RateLimitBurst),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db, store, cookies))

	return s, nil
}

func (s *Server) initHandlers(db *gorm.DB, store sessionstore.Store, cookies *cookie.Helper) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	locationRepo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	locationSvc := service.NewLocationService(locationRepo)
	eventSvc := service.NewEventService(eventRepo, locationSvc, s.Hub, s.Metrics)
	adminSvc := service.NewAdminService(userRepo, eventRepo, locationRepo)

	return handlers{
		auth:   v1.NewAuthHandler(s.Config.API, authSvc, store, cookies),
		event:  v1.NewEventHandler(eventSvc),
		live:   v1.NewLiveHandler(s.Hub, eventSvc),
		admin:  v1.NewAdminHandler(adminSvc, userSvc, locationSvc),
		events: eventSvc,
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(s.Metrics.Middleware())
	s.Router.Use(s.auth.LoadIdentity())
}

func (s *Server) MountHandlers(h handlers) {
	requireAuth := s.auth.RequireAuth()
	requireOwner := middleware.RequireEventOwner(h.events)

	s.Router.GET("/", v1.HandleHome)
	s.Router.GET("/healthz", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	auth := s.Router.Group("/auth")
	{
		auth.GET("/login", s.auth.RedirectIfAuth(), h.auth.HandleLoginForm)
		auth.GET("/register", s.auth.RedirectIfAuth(), h.auth.HandleRegisterForm)
		auth.POST("/login", s.limiter.Limit(), h.auth.HandleLogin)
		auth.POST("/register", s.limiter.Limit(), h.auth.HandleRegister)
		auth.GET("/logout", requireAuth, h.auth.HandleLogout)
	}

	events := s.Router.Group("/events")
	{
		events.GET("", h.event.HandleListEvents)
		events.GET("/create", requireAuth, h.event.HandleNewEventForm)
		events.POST("/create", requireAuth, h.event.HandleCreateEvent)
		events.GET("/mine", requireAuth, h.event.HandleMyEvents)
		events.GET("/:id", h.event.HandleGetEvent)
		events.GET("/:id/live", h.live.HandleLive)
		events.POST("/:id/participate", requireAuth, h.event.HandleParticipate)
		events.POST("/:id/leave", requireAuth, h.event.HandleLeave)
		events.GET("/:id/edit", requireAuth, requireOwner, h.event.HandleEditEventForm)
		events.POST("/:id/edit", requireAuth, requireOwner, h.event.HandleUpdateEvent)
		events.POST("/:id/delete", requireAuth, requireOwner, h.event.HandleDeleteEvent)
		events.POST("/:id/cancel", requireAuth, requireOwner, h.event.HandleCancelEvent)
		events.POST("/:id/finish", requireAuth, requireOwner, h.event.HandleFinishEvent)
	}

	admin := s.Router.Group("/admin", requireAuth, s.auth.RequireAdmin())
	{
		admin.GET("", h.admin.HandleDashboard)

		admin.GET("/users", h.admin.HandleListUsers)
		admin.GET("/users/:id", h.admin.HandleGetUser)
		admin.GET("/users/:id/edit", h.admin.HandleEditUserForm)
		admin.POST("/users/:id", h.admin.HandleUpdateUser)
		admin.POST("/users/:id/delete", h.admin.HandleDeleteUser)

		admin.GET("/locations", h.admin.HandleListLocations)
		admin.GET("/locations/create", h.admin.HandleNewLocationForm)
		admin.POST("/locations/create", h.admin.HandleCreateLocation)
		admin.GET("/locations/:id", h.admin.HandleGetLocation)
		admin.GET("/locations/:id/edit", h.admin.HandleEditLocationForm)
		admin.POST("/locations/:id", h.admin.HandleUpdateLocation)
		admin.POST("/locations/:id/delete", h.admin.HandleDeleteLocation)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "Events+ API"
	docs.SwaggerInfo.Description = "Create events, join them and follow their status live."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Close stops the background work started by NewServer.
func (s *Server) Close() {
	s.limiter.Stop()
}
