package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roomdesk/internal/config"
	"roomdesk/internal/database"
	"roomdesk/internal/middleware"
	"roomdesk/internal/modules/auth"
	"roomdesk/internal/modules/booking"
	"roomdesk/internal/modules/catalog"
	"roomdesk/internal/modules/customer"
	"roomdesk/internal/modules/deposit"
	"roomdesk/internal/modules/export"
	"roomdesk/internal/modules/request"
	"roomdesk/internal/modules/upload"
	jwtsvc "roomdesk/internal/pkg/jwt"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	staffRepo := repository.NewStaffRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	dayStatusRepo := repository.NewDayStatusRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub()
	defer hub.Close()

	authService := auth.NewService(staffRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, roomRepo, customerRepo, depositRepo, hub)
	bookingHandler := booking.NewHandler(bookingService)

	requestService := request.NewService(requestRepo, bookingRepo, roomRepo, customerRepo, hub)
	requestHandler := request.NewHandler(requestService)

	catalogService := catalog.NewService(roomRepo, dayStatusRepo, hub)
	catalogHandler := catalog.NewHandler(catalogService)

	customerService := customer.NewService(customerRepo)
	customerHandler := customer.NewHandler(customerService)

	depositService := deposit.NewService(depositRepo, roomRepo, hub)
	depositHandler := deposit.NewHandler(depositService)

	exportService := export.NewService(bookingRepo, roomRepo)
	exportHandler := export.NewHandler(exportService)

	signer := upload.NewSigner(cfg.UploadSignKey, cfg.UploadSignTTL)
	uploadService := upload.NewService(uploadRepo, signer, cfg.UploadDir)
	uploadHandler := upload.NewHandler(uploadService)

	wsHandler := realtime.NewHandler(hub)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		requestHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			requestHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			customerHandler.RegisterRoutes(protected)
			depositHandler.RegisterRoutes(protected)
			exportHandler.RegisterRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			wsHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole("admin"))
			{
				bookingHandler.RegisterAdminRoutes(admin)
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
