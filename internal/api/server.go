package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/festivapp/festival-api/docs"
	v1 "github.com/festivapp/festival-api/internal/api/handler/v1"
	"github.com/festivapp/festival-api/internal/api/middleware"
	"github.com/festivapp/festival-api/internal/config"
	"github.com/festivapp/festival-api/internal/payment"
	"github.com/festivapp/festival-api/internal/repository"
	"github.com/festivapp/festival-api/internal/repository/dao"
	"github.com/festivapp/festival-api/internal/service"
	"github.com/festivapp/festival-api/internal/webhook"
)

type Server struct {
	Config     *config.AppConfig
	Router     *gin.Engine
	Dispatcher *webhook.Dispatcher
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	festivalRepo := repository.NewFestivalRepository(dao.NewFestivalDAO(db))
	standRepo := repository.NewStandRepository(dao.NewStandDAO(db), dao.NewProductDAO(db))
	walletRepo := repository.NewWalletRepository(dao.NewWalletDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	webhookRepo := repository.NewWebhookRepository(dao.NewWebhookDAO(db))

	stripeProvider := payment.NewStripeProvider(conf.Stripe)

	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)
	festivalSvc := service.NewFestivalService(festivalRepo)
	standSvc := service.NewStandService(standRepo)
	webhookSvc := service.NewWebhookService(webhookRepo)
	ticketSvc := service.NewTicketService(ticketRepo, stripeProvider, webhookSvc)

	feedHandler := v1.NewFeedHandler(standSvc, festivalSvc, userSvc)
	go feedHandler.Run()

	walletSvc := service.NewWalletService(walletRepo, standRepo, standSvc, stripeProvider, webhookSvc, feedHandler)

	s.Dispatcher = webhook.NewDispatcher(webhookRepo, conf.Webhook)

	authHandler := v1.NewAuthHandler(conf.API, authSvc)
	userHandler := v1.NewUserHandler(userSvc)
	festivalHandler := v1.NewFestivalHandler(festivalSvc, userSvc)
	standHandler := v1.NewStandHandler(standSvc, festivalSvc, userSvc)
	walletHandler := v1.NewWalletHandler(walletSvc, festivalSvc, userSvc)
	ticketHandler := v1.NewTicketHandler(ticketSvc, festivalSvc, userSvc)
	webhookHandler := v1.NewWebhookHandler(webhookSvc, festivalSvc, userSvc)
	publicHandler := v1.NewPublicHandler(standSvc, ticketSvc, walletSvc)

	s.MountHandlers(
		authHandler,
		userHandler,
		festivalHandler,
		standHandler,
		walletHandler,
		ticketHandler,
		webhookHandler,
		publicHandler,
		feedHandler,
		festivalSvc,
	)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	festivalHandler *v1.FestivalHandler,
	standHandler *v1.StandHandler,
	walletHandler *v1.WalletHandler,
	ticketHandler *v1.TicketHandler,
	webhookHandler *v1.WebhookHandler,
	publicHandler *v1.PublicHandler,
	feedHandler *v1.FeedHandler,
	festivalSvc middleware.FestivalResolver,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.GET("/me/stands", standHandler.HandleGetMyStands)

		authenticated.POST("/festivals", festivalHandler.HandleCreateFestival)
		authenticated.GET("/festivals", festivalHandler.HandleListFestivals)
		authenticated.GET("/festivals/:festivalID", festivalHandler.HandleGetFestival)
		authenticated.PUT("/festivals/:festivalID", festivalHandler.HandleUpdateFestival)
		authenticated.DELETE("/festivals/:festivalID", festivalHandler.HandleDeleteFestival)
		authenticated.POST("/festivals/:festivalID/api-key", festivalHandler.HandleRegenerateAPIKey)

		authenticated.POST("/festivals/:festivalID/stands", standHandler.HandleCreateStand)
		authenticated.GET("/festivals/:festivalID/stands", standHandler.HandleListStands)
		authenticated.GET("/stands/:standID", standHandler.HandleGetStand)
		authenticated.PUT("/stands/:standID", standHandler.HandleUpdateStand)
		authenticated.DELETE("/stands/:standID", standHandler.HandleDeleteStand)
		authenticated.POST("/stands/:standID/activate", standHandler.HandleActivateStand)
		authenticated.POST("/stands/:standID/deactivate", standHandler.HandleDeactivateStand)
		authenticated.POST("/stands/:standID/staff", standHandler.HandleAssignStaff)
		authenticated.GET("/stands/:standID/staff", standHandler.HandleGetStaff)
		authenticated.DELETE("/stands/:standID/staff/:userID", standHandler.HandleRemoveStaff)
		authenticated.POST("/stands/:standID/staff/validate-pin", standHandler.HandleValidatePIN)
		authenticated.GET("/stands/:standID/feed", feedHandler.HandleFeed)

		authenticated.POST("/stands/:standID/products", standHandler.HandleCreateProduct)
		authenticated.GET("/stands/:standID/products", standHandler.HandleListProducts)
		authenticated.PUT("/products/:productID", standHandler.HandleUpdateProduct)
		authenticated.DELETE("/products/:productID", standHandler.HandleDeleteProduct)

		authenticated.POST("/festivals/:festivalID/wallet", walletHandler.HandleGetOrCreateWallet)
		authenticated.GET("/wallets/qr/:qrCode", walletHandler.HandleGetWalletByQRCode)
		authenticated.GET("/wallets/:walletID", walletHandler.HandleGetWallet)
		authenticated.POST("/wallets/:walletID/topup", walletHandler.HandleTopUp)
		authenticated.POST("/wallets/:walletID/credit", walletHandler.HandleCredit)
		authenticated.POST("/wallets/:walletID/debit", walletHandler.HandleDebit)
		authenticated.POST("/wallets/:walletID/refund", walletHandler.HandleRefund)
		authenticated.POST("/wallets/:walletID/freeze", walletHandler.HandleFreeze)
		authenticated.POST("/wallets/:walletID/unfreeze", walletHandler.HandleUnfreeze)
		authenticated.GET("/wallets/:walletID/transactions", walletHandler.HandleListTransactions)

		authenticated.POST("/festivals/:festivalID/ticket-types", ticketHandler.HandleCreateTicketType)
		authenticated.GET("/festivals/:festivalID/ticket-types", ticketHandler.HandleListTicketTypes)
		authenticated.POST("/festivals/:festivalID/tickets/purchase", ticketHandler.HandlePurchaseTicket)
		authenticated.GET("/festivals/:festivalID/tickets", ticketHandler.HandleGetMyTickets)
		authenticated.POST("/festivals/:festivalID/tickets/scan", ticketHandler.HandleScanTicket)
		authenticated.POST("/festivals/:festivalID/tickets/cancel", ticketHandler.HandleCancelTicket)

		authenticated.POST("/festivals/:festivalID/webhooks", webhookHandler.HandleCreateWebhook)
		authenticated.GET("/festivals/:festivalID/webhooks", webhookHandler.HandleListWebhooks)
		authenticated.GET("/webhooks/:endpointID", webhookHandler.HandleGetWebhook)
		authenticated.PUT("/webhooks/:endpointID", webhookHandler.HandleUpdateWebhook)
		authenticated.DELETE("/webhooks/:endpointID", webhookHandler.HandleDeleteWebhook)
		authenticated.GET("/webhooks/:endpointID/deliveries", webhookHandler.HandleListDeliveries)
	}

	public := s.Router.Group(basePath+"/public", middleware.NewAPIKeyAuthenticator(festivalSvc).VerifyAPIKey())
	{
		public.GET("/festival", publicHandler.HandleGetFestival)
		public.GET("/stands", publicHandler.HandleListStands)
		public.GET("/stands/:standID/products", publicHandler.HandleListStandProducts)
		public.GET("/ticket-types", publicHandler.HandleListTicketTypes)
		public.POST("/tickets/scan", publicHandler.HandleScanTicket)
		public.GET("/wallets/qr/:qrCode", publicHandler.HandleGetWalletByQRCode)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Festival Platform API"
	docs.SwaggerInfo.Description = "Multi-tenant festival management with cashless wallets, ticketing and webhooks."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
