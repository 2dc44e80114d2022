package http

import (
	"context"
	"net/http"
	"time"

	"campussync/internal/config"
	"campussync/internal/domain"
	"campussync/internal/infra/crypto"
	"campussync/internal/infra/db"
	"campussync/internal/infra/notify"
	"campussync/internal/infra/policyopa"
	"campussync/internal/infra/ratelimit"
	"campussync/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	jobs        *usecase.JobService
	review      *usecase.ReviewService
	credentials *usecase.CredentialService

	certificates usecase.CertificateRepository
	rules        usecase.RuleRepository
	issuers      usecase.IssuerRepository
	audit        usecase.AuditRepository

	adminAPIKey string

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

// ServerDeps lets callers wire services explicitly; main does this so that
// the worker and the server share the same instances.
type ServerDeps struct {
	Store        *db.Store
	Jobs         *usecase.JobService
	Review       *usecase.ReviewService
	Credentials  *usecase.CredentialService
	Certificates usecase.CertificateRepository
	Rules        usecase.RuleRepository
	Issuers      usecase.IssuerRepository
	Audit        usecase.AuditRepository
	AdminAPIKey  string
	RateLimiter  domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:          cfg,
		store:        deps.Store,
		r:            r,
		jobs:         deps.Jobs,
		review:       deps.Review,
		credentials:  deps.Credentials,
		certificates: deps.Certificates,
		rules:        deps.Rules,
		issuers:      deps.Issuers,
		audit:        deps.Audit,
		adminAPIKey:  deps.AdminAPIKey,
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

// initDeps assembles a serving stack straight from config. Optional pieces
// that fail to construct (policy bundle, redis) are left out rather than
// aborting; main builds the strict variant through NewServerWithDeps.
func (s *Server) initDeps() {
	s.adminAPIKey = s.cfg.AdminAPIKey

	var (
		certRepo   *db.CertificateRepository
		issuerRepo *db.IssuerRepository
		ruleRepo   *db.RuleRepository
		credRepo   *db.CredentialRepository
		jobRepo    *db.JobRepository
		auditRepo  *db.AuditEventRepository
	)
	if s.store != nil {
		certRepo = db.NewCertificateRepository(s.store.DB)
		issuerRepo = db.NewIssuerRepository(s.store.DB)
		ruleRepo = db.NewRuleRepository(s.store.DB)
		credRepo = db.NewCredentialRepository(s.store.DB)
		jobRepo = db.NewJobRepository(s.store.DB)
		auditRepo = db.NewAuditEventRepository(s.store.DB)
	}

	var audit *usecase.AuditEmitter
	if auditRepo != nil {
		audit = usecase.NewAuditEmitter(auditRepo, nil)
	}

	signer, _ := crypto.NewSignerFromConfig(
		s.cfg.SigningPrivateKeyBase64, s.cfg.SigningPrivateKeySeedHex, s.cfg.IssuerDID)

	var policy usecase.IssuancePolicy
	if s.cfg.IssuancePolicyBundlePath != "" {
		if engine, err := policyopa.NewEngineFromBundlePath(
			context.Background(), s.cfg.IssuancePolicyBundlePath, s.cfg.IssuancePolicyBundleID); err == nil {
			policy = engine
		}
	}

	notifier := usecase.Notifier(notify.NewLogNotifier(nil))
	if s.cfg.SMTPAddr != "" {
		notifier = notify.NewSMTPNotifier(s.cfg.SMTPAddr, s.cfg.SMTPFrom, s.cfg.SMTPPassword, nil)
	}

	if certRepo != nil {
		s.certificates = certRepo
		s.rules = ruleRepo
		s.issuers = issuerRepo
		s.audit = auditRepo
		s.credentials = usecase.NewCredentialService(usecase.CredentialServiceDeps{
			Credentials:  credRepo,
			Certificates: certRepo,
			Signer:       signer,
			Policy:       policy,
			Audit:        audit,
			Notifier:     notifier,
			IssuerDID:    s.cfg.IssuerDID,
		})
		s.review = usecase.NewReviewService(usecase.ReviewServiceDeps{
			Certificates: certRepo,
			Credentials:  s.credentials,
			AutoIssue:    s.cfg.AutoIssue,
			Audit:        audit,
			Notifier:     notifier,
		})
		s.jobs = usecase.NewJobService(jobRepo, nil)
	}

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/certificates", s.handleCreateCertificate)
		v1.GET("/certificates/:id", s.handleGetCertificate)
		v1.GET("/certificates/:id/report", s.handleCertificateReport)

		v1.POST("/jobs", s.handleSubmitJob)
		v1.GET("/jobs", s.handleListJobs)
		v1.GET("/jobs/:id", s.handleGetJob)

		v1.GET("/review", s.handleReviewQueue)
		v1.POST("/review/:id/decide", s.handleReviewDecide)
		v1.POST("/review/:id/revert", s.handleReviewRevert)

		v1.POST("/credentials/issue", s.handleIssueCredential)
		v1.GET("/credentials/:id", s.handleCredentialStatus)
		v1.POST("/credentials/:id/revoke", s.handleRevokeCredential)

		admin := v1.Group("/admin")
		{
			admin.GET("/rules", s.handleAdminListRules)
			admin.POST("/rules", s.handleAdminCreateRule)
			admin.PUT("/rules/:id", s.handleAdminUpdateRule)
			admin.POST("/rules/:id/activate", s.handleAdminSetRuleActive)

			admin.GET("/issuers", s.handleAdminListIssuers)
			admin.POST("/issuers", s.handleAdminCreateIssuer)
			admin.GET("/issuers/:id", s.handleAdminGetIssuer)
			admin.PUT("/issuers/:id", s.handleAdminUpdateIssuer)

			admin.POST("/jobs/:id/resubmit", s.handleAdminResubmitJob)
			admin.GET("/audit", s.handleAdminListAudit)
		}
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}
