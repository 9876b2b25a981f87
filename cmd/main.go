package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/procurehub/procurement-service/internal/app"
	"github.com/procurehub/procurement-service/internal/config"
	"github.com/procurehub/procurement-service/internal/controllers"
	"github.com/procurehub/procurement-service/internal/middleware"
	"github.com/procurehub/procurement-service/internal/queue"
	"github.com/procurehub/procurement-service/internal/repositories"
	"github.com/procurehub/procurement-service/internal/routes"
	"github.com/procurehub/procurement-service/internal/services"
	"github.com/procurehub/procurement-service/internal/storage"
	"github.com/procurehub/procurement-service/internal/utils"
)

const appName = "procurement-service"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig(appName)

	runMigrations(cfg)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize procurement-service:", err)
	}
	defer application.Close()

	scopeRepo := repositories.NewScopeRepository(application.DB)
	versionRepo := repositories.NewVersionRepository(application.DB)
	vendorRepo := repositories.NewVendorRepository(application.DB)
	propRepo := repositories.NewPropertyRepository(application.DB)
	locationRepo := repositories.NewLocationRepository(application.DB)
	rfpRepo := repositories.NewRFPRepository(application.DB)
	contractRepo := repositories.NewContractRepository(application.DB)

	store, err := storage.NewClient(storage.Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		Bucket:          cfg.S3Bucket,
	})
	if err != nil {
		utils.Logger.Fatal("Failed to initialize object storage:", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, rErr := redis.ParseURL(cfg.RedisURL)
		if rErr != nil {
			utils.Logger.Fatal("Invalid REDIS_URL:", rErr)
		}
		redisClient = redis.NewClient(opts)
	}
	publisher := queue.NewPublisher(redisClient)

	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	openaiSvc := services.NewOpenAIService(cfg.OpenAIAPIKey)

	notifySvc := services.NewNotifyService(
		sgClient,
		twClient,
		cfg.LDFlag_SendgridFromEmail,
		cfg.LDFlag_TwilioFromPhone,
		cfg.OrganizationName,
		cfg.LDFlag_SendgridSandboxMode,
	)

	versionService := services.NewVersionService(versionRepo, store, publisher)
	scopeService := services.NewScopeService(scopeRepo, versionRepo, store)
	vendorService := services.NewVendorService(vendorRepo, locationRepo)
	rfpService := services.NewRFPService(rfpRepo, vendorRepo, propRepo, notifySvc)
	contractService := services.NewContractService(contractRepo)
	exportService := services.NewExportService(versionRepo, contractRepo)
	auditService := services.NewAuditService(versionRepo, contractRepo, store, notifySvc, cfg.OpsEmail)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(
			context.Background(),
			application.DB,
			propRepo,
			vendorRepo,
			scopeRepo,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	healthController := controllers.NewHealthController(application)
	scopesController := controllers.NewScopesController(scopeService, openaiSvc, exportService, cfg.LDFlag_OpenAIScopeDrafting)
	versionsController := controllers.NewVersionsController(versionService)
	vendorsController := controllers.NewVendorsController(vendorService, rfpService, exportService)
	rfpsController := controllers.NewRFPsController(rfpService)
	contractsController := controllers.NewContractsController(contractService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	// Scopes
	secured.HandleFunc(routes.ScopesBase, scopesController.CreateScopeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopesBase, scopesController.ListScopesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ScopeDraft, scopesController.DraftScopeDocumentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopeByID, scopesController.GetScopeHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ScopeByID, scopesController.RenameScopeHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ScopeByID, scopesController.DeleteScopeHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.ScopeArchive, scopesController.ArchiveScopeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopeClone, scopesController.CloneScopeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopeProperties, scopesController.AttachPropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopePropertyByID, scopesController.DetachPropertyHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.ScopeVersionsExport, scopesController.ExportVersionHistoryHandler).Methods(http.MethodGet)

	// Versions
	secured.HandleFunc(routes.DocumentSave, versionsController.DocumentSaveHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ScopeVersions, versionsController.ListVersionsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VersionByID, versionsController.GetVersionHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VersionDownload, versionsController.DownloadVersionHandler).Methods(http.MethodGet)

	// Vendors
	secured.HandleFunc(routes.VendorsBase, vendorsController.CreateVendorHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.VendorsBase, vendorsController.ListVendorsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VendorByID, vendorsController.GetVendorHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VendorByID, vendorsController.UpdateVendorHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.VendorAreas, vendorsController.AddServiceableAreaHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.VendorAreaByID, vendorsController.RemoveServiceableAreaHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.VendorContractsExport, vendorsController.ExportContractsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PropertyVendorMatches, vendorsController.MatchVendorsHandler).Methods(http.MethodGet)

	// RFPs
	secured.HandleFunc(routes.RFPsBase, rfpsController.CreateRFPHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.RFPsBase, rfpsController.ListRFPsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.RFPByID, rfpsController.GetRFPHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.RFPPublish, rfpsController.PublishRFPHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.RFPClose, rfpsController.CloseRFPHandler).Methods(http.MethodPost)

	// Contracts
	secured.HandleFunc(routes.ContractsBase, contractsController.CreateContractHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ContractByID, contractsController.GetContractHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ContractTerminate, contractsController.TerminateContractHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PropertyContractsByID, contractsController.ListPropertyContractsHandler).Methods(http.MethodGet)

	c := cron.New()
	_, sweepErr := c.AddFunc("@every 15m", func() {
		auditService.SweepDanglingVersions(context.Background())
	})
	if sweepErr != nil {
		utils.Logger.WithError(sweepErr).Fatal("Failed to schedule dangling-version sweep cron")
	}

	_, expireErr := c.AddFunc("10 0 * * *", func() {
		auditService.SweepExpiredContracts(context.Background())
	})
	if expireErr != nil {
		utils.Logger.WithError(expireErr).Fatal("Failed to schedule contract expiry cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Platform"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", appName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("procurement-service failed to start:", err)
	}
}

// runMigrations applies pending SQL migrations before the pool opens.
func runMigrations(cfg *config.Config) {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DBUrl)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize migrations:", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		utils.Logger.Fatal("Failed to run migrations:", err)
	}
	utils.Logger.Info("Database migrations up to date")
}
