package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"loyalty-core/internal/domain/user"
	"loyalty-core/internal/handler/api"
	"loyalty-core/internal/handler/middleware"
	"loyalty-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	pdvHandler *api.PDVHandler,
	offerHandler *api.OfferHandler,
	walletHandler *api.WalletHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, pdvHandler, offerHandler, walletHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	pdvHandler *api.PDVHandler,
	offerHandler *api.OfferHandler,
	walletHandler *api.WalletHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		// Point-of-sale terminals authenticate at the network edge, not
		// per request.
		pdv := apiGroup.Group("/pdv")
		{
			addRoutes(pdv, []route{
				{Method: http.MethodPost, Path: "/earn", Handler: pdvHandler.EarnPoints},
				{Method: http.MethodPost, Path: "/redeem/attempt", Handler: pdvHandler.AttemptRedeem},
				{Method: http.MethodPost, Path: "/redeem/confirm", Handler: pdvHandler.ConfirmRedeem},
			})
		}

		offers := apiGroup.Group("/offers")
		offers.Use(authMiddleware.RequireAuth())
		{
			addRoutes(offers, []route{
				{Method: http.MethodGet, Path: "", Handler: offerHandler.ListAvailable},
				{Method: http.MethodGet, Path: "/:id", Handler: offerHandler.Get},
				{Method: http.MethodPost, Path: "/:id/issue", Handler: offerHandler.Issue},
				{
					Method: http.MethodGet, Path: "/:id/stats", Handler: offerHandler.Stats,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleOperator)},
				},
			})
		}

		wallet := apiGroup.Group("/wallet")
		wallet.Use(authMiddleware.RequireAuth())
		{
			addRoutes(wallet, []route{
				{Method: http.MethodGet, Path: "/:person_id", Handler: walletHandler.GetWallet},
				{Method: http.MethodGet, Path: "/:person_id/coupons", Handler: walletHandler.ListCoupons},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/rules", Handler: adminHandler.CreateRule},
				{Method: http.MethodPost, Path: "/coupon-types", Handler: adminHandler.CreateCouponType},
				{Method: http.MethodPost, Path: "/offers", Handler: adminHandler.CreateOffer},
				{Method: http.MethodPost, Path: "/offers/:id/bulk-issue", Handler: adminHandler.BulkIssue},
				{Method: http.MethodPost, Path: "/offers/:id/expire", Handler: adminHandler.ExpireSweep},
				{Method: http.MethodPost, Path: "/coupons/:id/cancel", Handler: adminHandler.CancelCoupon},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
