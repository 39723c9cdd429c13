package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cashtrail/console/internal/clock"
	commissiondomain "github.com/cashtrail/console/internal/commission/domain"
	"github.com/cashtrail/console/internal/config"
	disputedomain "github.com/cashtrail/console/internal/dispute/domain"
	"github.com/cashtrail/console/internal/export"
	"github.com/cashtrail/console/internal/observability"
	onboardingdomain "github.com/cashtrail/console/internal/onboarding/domain"
	"github.com/cashtrail/console/internal/report"
	txndomain "github.com/cashtrail/console/internal/transaction/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggerMiddleware(log))
	r.Use(TracingMiddleware())
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	return NewEngine(cfg, log, metrics)
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	metrics       *observability.Metrics
	clock         clock.Clock
	commissionSvc commissiondomain.Service
	txnSvc        txndomain.Service
	disputeSvc    disputedomain.Service
	onboardingSvc onboardingdomain.Service
	reportSvc     *report.Service
	exportSvc     *export.Service
	exportLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Metrics       *observability.Metrics
	Clock         clock.Clock
	CommissionSvc commissiondomain.Service
	TxnSvc        txndomain.Service
	DisputeSvc    disputedomain.Service
	OnboardingSvc onboardingdomain.Service
	ReportSvc     *report.Service
	ExportSvc     *export.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		metrics:       p.Metrics,
		clock:         p.Clock,
		commissionSvc: p.CommissionSvc,
		txnSvc:        p.TxnSvc,
		disputeSvc:    p.DisputeSvc,
		onboardingSvc: p.OnboardingSvc,
		reportSvc:     p.ReportSvc,
		exportSvc:     p.ExportSvc,
		exportLimiter: newRateLimiter(p.Cfg.ExportRateLimit, p.Cfg.ExportRateWindow),
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.APIKeyAuth())

	api.POST("/commission-rules", s.CreateCommissionRule)
	api.GET("/commission-rules", s.ListCommissionRules)
	api.GET("/commission-rules/:id", s.GetCommissionRule)
	api.PATCH("/commission-rules/:id", s.UpdateCommissionRule)
	api.POST("/commission-rules/:id/simulate", s.SimulateCommissionRule)

	api.POST("/transactions", s.CreateTransaction)
	api.GET("/transactions", s.ListTransactions)
	api.GET("/transactions/:id", s.GetTransaction)
	api.POST("/transactions/:id/status", s.TransitionTransaction)

	api.POST("/disputes", s.OpenDispute)
	api.GET("/disputes", s.ListDisputes)
	api.GET("/disputes/:id", s.GetDispute)
	api.POST("/disputes/:id/status", s.TransitionDispute)
	api.POST("/disputes/:id/notes", s.AppendDisputeNote)

	api.POST("/distributors", s.CreateDistributor)
	api.GET("/distributors", s.ListDistributors)
	api.GET("/distributors/:id", s.GetDistributor)
	api.PATCH("/distributors/:id", s.UpdateDistributor)
	api.POST("/distributors/:id/kyc", s.DecideDistributorKYC)

	api.POST("/retailers", s.CreateRetailer)
	api.GET("/retailers", s.ListRetailers)
	api.GET("/retailers/:id", s.GetRetailer)
	api.PATCH("/retailers/:id", s.UpdateRetailer)
	api.POST("/retailers/:id/kyc", s.DecideRetailerKYC)

	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers", s.ListCustomers)
	api.GET("/customers/:id", s.GetCustomer)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.POST("/customers/:id/kyc", s.DecideCustomerKYC)

	api.GET("/approvals/queue", s.ApprovalQueue)

	api.POST("/card-approvals", s.RequestCardApproval)
	api.GET("/card-approvals", s.ListCardApprovals)
	api.POST("/card-approvals/:id/decision", s.DecideCardApproval)

	api.GET("/dashboard/kpis", s.DashboardKPIs)
	api.GET("/dashboard/rollups", s.DashboardRollups)
	api.GET("/dashboard/gmv-daily", s.DashboardDailyGMV)

	exports := api.Group("/exports")
	exports.Use(s.ExportRateLimit())
	exports.GET("/transactions.csv", s.ExportTransactionsCSV)
	exports.GET("/disputes.csv", s.ExportDisputesCSV)
	// The param is the full "<distributorID>.pdf" segment; the handler
	// strips the extension.
	exports.GET("/statements/:file", s.ExportStatementPDF)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
