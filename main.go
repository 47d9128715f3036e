package main

import (
	stdlog "log"
	"time"

	"bizdesk/api"
	"bizdesk/config"
	"bizdesk/controllers"
	"bizdesk/middleware"
	"bizdesk/repository"
	"bizdesk/routes"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	log := config.NewLogger(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("mode", gin.Mode()).Msg("starting bizdesk")

	if err := config.ConnectDatabase(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer config.DisconnectDatabase()

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", func(c *gin.Context) {
		if c.ClientIP() != cfg.MetricsAllowedIP {
			c.AbortWithStatus(403)
			return
		}
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	accounts := repository.NewAccountRepository(config.SuperAdminCollection, config.StaffCollection)
	parties := repository.NewPartyRepository(config.PartyCollection, config.MessageTemplateCollection)
	messageLogs := repository.NewMessageLogRepository(config.MessageLogCollection)
	bridge := api.NewWhatsAppClient(cfg.BridgeURL, cfg.BridgeToken)
	hub := api.NewEventHub()

	notifier := &services.NotificationService{
		Parties:    parties,
		Templates:  parties,
		Limiter:    messageLogs,
		Bridge:     bridge,
		Normalizer: utils.PhoneNormalizer{HomeCode: cfg.HomeCallingCode, ForeignCodes: utils.DefaultForeignCallingCodes},
		Log:        log.With().Str("component", "notify").Logger(),
	}
	archive, err := utils.NewAttachmentArchive(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicDomain)
	if err != nil {
		log.Fatal().Err(err).Msg("attachment archive")
	}
	if archive != nil {
		notifier.Archive = archive
	}

	watch := &services.BridgeWatch{
		Bridge:     bridge,
		AlertEmail: cfg.AlertEmail,
		Pruner:     messageLogs,
		Log:        log.With().Str("component", "bridge").Logger(),
		OnStatus: func(connected bool) {
			if connected {
				middleware.WhatsAppConnected.Set(1)
			} else {
				middleware.WhatsAppConnected.Set(0)
			}
		},
	}
	if mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword); mailer != nil {
		watch.Mailer = mailer
	}
	watch.Subscribe(hub)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Timezone).Msg("error loading time zone")
	}
	s := gocron.NewScheduler(location)
	if err := watch.Schedule(s); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	s.StartAsync()
	defer s.Stop()

	h := &controllers.Handler{
		Auth:         services.NewAuthService(accounts, log),
		Sessions:     repository.NewSessionRepository(config.SessionCollection),
		Signer:       utils.NewTokenSigner(cfg.JWTSecret),
		Cookies:      middleware.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.IsProduction()},
		Log:          log,
		BearerTokens: cfg.BearerTokens,
		Parties:      parties,
		Bridge:       bridge,
		Events:       hub,
		Notifier:     notifier,
		BridgeToken:  cfg.BridgeToken,
	}
	routes.InitializeRoutes(r, h)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
