package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/docs"
	v1 "github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/handler/v1"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api/middleware"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/chain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/config"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/oracle"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	approvalHandler := s.initApprovalHandler(db)
	paymentHandler := s.initPaymentHandler(db)
	claimHandler := s.initClaimHandler(db)
	adminHandler := s.initAdminHandler(db)
	campaignHandler := s.initCampaignHandler(db)
	userHandler := s.initUserHandler(db)
	s.MountHandlers(authHandler, approvalHandler, paymentHandler, claimHandler, adminHandler, campaignHandler, userHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initApprovalHandler(db *gorm.DB) *v1.ApprovalHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	approvalRepo := repository.NewApprovalRepository(dao.NewApprovalDAO(db))
	svc := service.NewApprovalService(approvalRepo, userRepo, nil)
	bulkSvc := s.newBulkService(db, svc)
	handler := v1.NewApprovalHandler(svc, bulkSvc)

	return handler
}

func (s *Server) initPaymentHandler(db *gorm.DB) *v1.PaymentHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	approvalRepo := repository.NewApprovalRepository(dao.NewApprovalDAO(db))
	mintRepo := repository.NewMintRepository(dao.NewMintDAO(db))
	intentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))

	chainClient := chain.NewClient(
		s.Config.Chain.RPCEndpoint,
		s.Config.Chain.SubmitterEndpoint,
		time.Duration(s.Config.Chain.RequestTimeoutSeconds)*time.Second,
	)

	priceOracle := oracle.NewCachedOracle(
		oracle.NewHTTPOracle(
			s.Config.Oracle.Endpoint,
			s.Config.Oracle.VsCurrency,
			time.Duration(s.Config.Oracle.RequestTimeoutSeconds)*time.Second,
		),
		time.Duration(s.Config.Oracle.StalenessSeconds)*time.Second,
		nil,
	)

	paymentSvc := service.NewPaymentService(intentRepo, priceOracle, chainClient, service.PaymentConfig{
		PriceUSD:         decimal.RequireFromString(s.Config.Mint.PriceUSD),
		Asset:            s.Config.Oracle.Asset,
		ReceivingAddress: s.Config.Chain.ReceivingAddress,
		IntentTTL:        time.Duration(s.Config.Mint.IntentTTLMinutes) * time.Minute,
	}, nil)

	mintSvc := service.NewMintService(mintRepo, approvalRepo, userRepo, intentRepo,
		chainClient, chainClient, s.Config.Chain.ReceivingAddress, nil)

	handler := v1.NewPaymentHandler(paymentSvc, mintSvc)

	return handler
}

func (s *Server) initClaimHandler(db *gorm.DB) *v1.ClaimHandler {
	claimRepo := repository.NewClaimRepository(dao.NewClaimDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	mintRepo := repository.NewMintRepository(dao.NewMintDAO(db))
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	campaignSvc := service.NewCampaignService(repository.NewCampaignRepository(dao.NewCampaignDAO(db)), userRepo, nil)

	policySvc := service.NewPolicyService(settingsRepo, claimRepo, nil)
	calculator := service.NewRewardCalculator(service.TierTable{
		High:   s.Config.Rewards.TierHigh,
		Medium: s.Config.Rewards.TierMedium,
		Low:    s.Config.Rewards.TierLow,
	}, s.Config.Rewards.PointsPerToken)

	svc := service.NewClaimService(claimRepo, userRepo, mintRepo, settingsRepo, policySvc, calculator, campaignSvc)
	handler := v1.NewClaimHandler(svc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	approvalRepo := repository.NewApprovalRepository(dao.NewApprovalDAO(db))
	approvalSvc := service.NewApprovalService(approvalRepo, userRepo, nil)
	bulkSvc := s.newBulkService(db, approvalSvc)
	handler := v1.NewAdminHandler(settingsRepo, bulkSvc)

	return handler
}

func (s *Server) initCampaignHandler(db *gorm.DB) *v1.CampaignHandler {
	repo := repository.NewCampaignRepository(dao.NewCampaignDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewCampaignService(repo, userRepo, nil)
	handler := v1.NewCampaignHandler(svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	repo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) newBulkService(db *gorm.DB, approvals *service.ApprovalService) *service.BulkService {
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	return service.NewBulkService(settingsRepo, userRepo, approvals, s.Config.Bulk.ConfirmationThreshold, nil)
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
	approvalHandler *v1.ApprovalHandler,
	paymentHandler *v1.PaymentHandler,
	claimHandler *v1.ClaimHandler,
	adminHandler *v1.AdminHandler,
	campaignHandler *v1.CampaignHandler,
	userHandler *v1.UserHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/approvals/status", approvalHandler.HandleGetStatus)

		public.POST("/payments/generate", paymentHandler.HandleGeneratePayment)
		public.POST("/payments/mint", paymentHandler.HandleProcessMint)

		public.GET("/users/profile", userHandler.HandleGetProfile)

		public.GET("/claims/balance", claimHandler.HandleGetBalance)
		public.GET("/claims/history", claimHandler.HandleGetHistory)
		public.POST("/claims/process", claimHandler.HandleProcessClaim)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/approvals", approvalHandler.HandleSetApproval)
		admin.POST("/approvals/bulk", approvalHandler.HandleBulkApproval)

		admin.GET("/claims/settings", adminHandler.HandleGetSettings)
		admin.PUT("/claims/settings", adminHandler.HandleUpdateSettings)
		admin.GET("/claims/controls/:userID", adminHandler.HandleGetControl)
		admin.POST("/claims/controls", adminHandler.HandleBulkClaimControl)
		admin.POST("/claims/controls/confirm", adminHandler.HandleRequestConfirmation)

		admin.GET("/users/:userID", userHandler.HandleGetUser)

		admin.POST("/campaigns", campaignHandler.HandleCreateCampaign)
		admin.POST("/campaigns/:campaignID/allocate", campaignHandler.HandleAllocate)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "NFT Pass & Claim API"
	docs.SwaggerInfo.Description = "Claim, approval and payment orchestration for the rewards platform."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
