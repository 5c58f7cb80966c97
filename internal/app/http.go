package app

import (
	"context"
	"net/http"

	"github.com/adelie22/Artivora/internal/asset"
	"github.com/adelie22/Artivora/internal/auth/bridge"
	"github.com/adelie22/Artivora/internal/auth/credential"
	"github.com/adelie22/Artivora/internal/auth/credentials"
	"github.com/adelie22/Artivora/internal/auth/handler"
	"github.com/adelie22/Artivora/internal/auth/provider"
	"github.com/adelie22/Artivora/internal/auth/provider/google"
	"github.com/adelie22/Artivora/internal/auth/provider/naver"
	"github.com/adelie22/Artivora/internal/auth/resolver"
	"github.com/adelie22/Artivora/internal/config"
	"github.com/adelie22/Artivora/internal/logger"
	"github.com/adelie22/Artivora/internal/middleware"
	"github.com/adelie22/Artivora/internal/relay"
	"github.com/adelie22/Artivora/internal/roster"
	"github.com/adelie22/Artivora/internal/session"
	"github.com/adelie22/Artivora/internal/storage"
	"github.com/adelie22/Artivora/internal/user"
	"github.com/adelie22/Artivora/internal/ws"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	identityResolver := resolver.NewDBResolver(infra.DB)
	userStore := user.NewStore(infra.DB)
	credentialService := credentials.NewService(infra.DB)

	var registered []provider.OAuthProvider

	// The bridge stays constructible without provider credentials so
	// the route can answer with a configuration error.
	var exchanger bridge.Exchanger
	naverProvider, err := naver.New(
		cfg.NaverClientID,
		cfg.NaverClientSecret,
		cfg.NaverRedirectURL,
	)
	if err != nil {
		logger.Warn("naver provider not configured", map[string]any{
			"error": err.Error(),
		})
	} else {
		exchanger = naverProvider
		registered = append(registered, naverProvider)
	}

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		logger.Warn("google provider not configured", map[string]any{
			"error": err.Error(),
		})
	} else {
		registered = append(registered, googleProvider)
	}

	registry := provider.NewRegistry(registered...)

	var issuer *credential.Issuer
	if iss, err := credential.NewIssuer(
		cfg.TokenSigningSecret,
		credential.NewRedisUseStore(infra.Redis.Client),
	); err != nil {
		logger.Warn("credential issuer not configured", map[string]any{
			"error": err.Error(),
		})
	} else {
		issuer = iss
	}

	var bridgeIssuer bridge.Issuer
	if issuer != nil {
		bridgeIssuer = issuer
	}
	naverBridge := bridge.New(exchanger, bridgeIssuer)

	loginRelay := relay.New()

	hub := ws.NewHub()
	go hub.Run(ctx)

	assetStore := asset.NewStore(infra.DB)
	watcher := roster.NewWatcher(assetStore)
	assetStore.SetNotifier(watcher)

	// Two standing views over the same collection, reconciled
	// independently and mirrored to browser clients.
	if err := watcher.Subscribe(ctx, "latest", 6, func(b roster.Batch) {
		hub.Publish("assets:latest", b)
	}); err != nil {
		return nil, nil, err
	}
	if err := watcher.Subscribe(ctx, "all", 0, func(b roster.Batch) {
		hub.Publish("assets:all", b)
	}); err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(handler.Deps{
		Providers:         registry,
		SessionStore:      sessionStore,
		Resolver:          identityResolver,
		CredentialService: credentialService,
		Bridge:            naverBridge,
		Issuer:            issuer,
		Relay:             loginRelay,
		Users:             userStore,
		PublicOrigin:      cfg.PublicOrigin,
	})

	assetHandler := asset.NewHandler(assetStore)
	uploadHandler := storage.NewHandler(infra.Storage)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	upgrader := ws.NewUpgrader(cfg.PublicOrigin)
	router.GET("/ws/assets", func(c *gin.Context) {
		view := c.DefaultQuery("view", "all")
		if view != "all" && view != "latest" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view"})
			return
		}
		ws.Serve(hub, upgrader, c.Writer, c.Request, []string{"assets:" + view})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		u, err := userStore.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	})

	uploadHandler.RegisterRoutes(router, api)

	admin := router.Group("/api")
	admin.Use(
		middleware.GinRequireAuth(authMiddleware),
		middleware.GinRequireAdmin(userStore),
	)

	assetHandler.RegisterRoutes(router, admin)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
