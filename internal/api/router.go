package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/playspot/playspot-backend/internal/auth"
	"github.com/playspot/playspot-backend/internal/facility"
	facilityHttp "github.com/playspot/playspot-backend/internal/facility/http"
	"github.com/playspot/playspot-backend/internal/group"
	groupHttp "github.com/playspot/playspot-backend/internal/group/http"
	"github.com/playspot/playspot-backend/internal/notification"
	notifHttp "github.com/playspot/playspot-backend/internal/notification/http"
	"github.com/playspot/playspot-backend/internal/reservation"
	reservationHttp "github.com/playspot/playspot-backend/internal/reservation/http"
	"github.com/playspot/playspot-backend/internal/user"
	userHttp "github.com/playspot/playspot-backend/internal/user/http"
)

// Config carries everything the router needs to assemble routes.
type Config struct {
	IsProduction        bool
	ProdOrigins         string
	UserService         user.Service
	FacilityService     facility.Service
	ReservationService  reservation.Service
	GroupService        group.Service
	NotificationService notification.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)
	groupHandler := groupHttp.NewHandler(cfg.GroupService)
	notifHandler := notifHttp.NewHandler(cfg.NotificationService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		facilityHttp.RegisterRoutes(v1, facilityHandler, authMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware)
		groupHttp.RegisterRoutes(v1, groupHandler, authMiddleware)
		notifHttp.RegisterRoutes(v1, notifHandler, authMiddleware)
	}

	return r
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
