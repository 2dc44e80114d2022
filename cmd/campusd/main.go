package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campussync/internal/config"
	"campussync/internal/domain"
	"campussync/internal/infra/cache"
	"campussync/internal/infra/crypto"
	"campussync/internal/infra/db"
	httpinfra "campussync/internal/infra/http"
	"campussync/internal/infra/nlp"
	"campussync/internal/infra/notify"
	"campussync/internal/infra/ocr"
	"campussync/internal/infra/policyopa"
	"campussync/internal/usecase"
	"campussync/pkg/logger"
)

func main() {
	cfg := config.FromEnv()
	log := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}

	certRepo := db.NewCertificateRepository(store.DB)
	issuerRepo := db.NewIssuerRepository(store.DB)
	ruleRepo := db.NewRuleRepository(store.DB)
	credRepo := db.NewCredentialRepository(store.DB)
	jobRepo := db.NewJobRepository(store.DB)
	auditRepo := db.NewAuditEventRepository(store.DB)

	audit := usecase.NewAuditEmitter(auditRepo, log)

	signer, err := crypto.NewSignerFromConfig(
		cfg.SigningPrivateKeyBase64, cfg.SigningPrivateKeySeedHex, cfg.IssuerDID)
	if err != nil {
		log.Error("signing key init failed", "err", err)
		os.Exit(1)
	}

	// A configured-but-broken policy bundle aborts startup; silently running
	// without the issuance gate is worse than not running.
	var policy usecase.IssuancePolicy
	if cfg.IssuancePolicyBundlePath != "" {
		engine, err := policyopa.NewEngineFromBundlePath(
			context.Background(), cfg.IssuancePolicyBundlePath, cfg.IssuancePolicyBundleID)
		if err != nil {
			log.Error("issuance policy bundle load failed", "path", cfg.IssuancePolicyBundlePath, "err", err)
			os.Exit(1)
		}
		log.Info("issuance policy loaded", "bundle_id", cfg.IssuancePolicyBundleID, "bundle_hash", engine.BundleHash())
		policy = engine
	}

	var notifier usecase.Notifier = notify.NewLogNotifier(log)
	if cfg.SMTPAddr != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPPassword, splitRecipients(cfg.ReviewDigestTo))
	}

	credSvc := usecase.NewCredentialService(usecase.CredentialServiceDeps{
		Credentials:  credRepo,
		Certificates: certRepo,
		Signer:       signer,
		Policy:       policy,
		Audit:        audit,
		Notifier:     notifier,
		IssuerDID:    cfg.IssuerDID,
		Logger:       log,
	})
	reviewSvc := usecase.NewReviewService(usecase.ReviewServiceDeps{
		Certificates: certRepo,
		Credentials:  credSvc,
		AutoIssue:    cfg.AutoIssue,
		Audit:        audit,
		Notifier:     notifier,
		Logger:       log,
	})
	jobSvc := usecase.NewJobService(jobRepo, log)

	var ocrClient usecase.OCRClient
	if cfg.OCRServiceURL != "" {
		ocrClient = ocr.NewClient(cfg.OCRServiceURL, cfg.OCRServiceToken, 0)
	}
	var nlpClient usecase.NormalizationClient
	if cfg.NormalizerURL != "" {
		nlpClient = nlp.NewClient(cfg.NormalizerURL, cfg.NormalizerToken, cfg.NormalizerTimeout())
	}

	directory := &usecase.CachingIssuerDirectory{
		Repo:  issuerRepo,
		Cache: cache.NewIssuerCache(cfg.IssuerCacheTTL()),
		TTL:   cfg.IssuerCacheTTL(),
	}
	verifier := usecase.NewVerificationService(usecase.VerificationServiceDeps{
		Certificates: certRepo,
		Jobs:         jobRepo,
		Rules:        ruleRepo,
		OCR:          ocrClient,
		Normalizer:   usecase.NewFieldNormalizer(nlpClient, log),
		Matcher:      usecase.NewInstitutionMatcher(directory, log),
		Engine:       usecase.NewDecisionEngine(cfg.DecisionHighThreshold, cfg.DecisionLowThreshold),
		Credentials:  credSvc,
		AutoIssue:    cfg.AutoIssue,
		Audit:        audit,
		Notifier:     notifier,
		Logger:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := usecase.NewWorker(jobRepo, cfg.WorkerPollInterval(), audit, log)
	worker.Register(domain.JobOCR, func(ctx context.Context, payload domain.JobPayload) (any, error) {
		return verifier.ProcessOCR(ctx, payload.(domain.OCRPayload))
	})
	worker.Register(domain.JobVerification, func(ctx context.Context, payload domain.JobPayload) (any, error) {
		return verifier.ProcessVerification(ctx, payload.(domain.VerificationPayload))
	})
	worker.Register(domain.JobNormalization, func(ctx context.Context, payload domain.JobPayload) (any, error) {
		return verifier.ProcessNormalization(ctx, payload.(domain.NormalizationPayload))
	})
	if !cfg.WorkerDisabled {
		worker.Start(ctx)
		defer worker.Stop()
	}

	digest := usecase.NewReviewDigest(certRepo, notifier, cfg.ReviewDigestCron, log)
	if err := digest.Start(); err != nil {
		log.Error("review digest schedule invalid", "schedule", cfg.ReviewDigestCron, "err", err)
		os.Exit(1)
	}
	defer digest.Stop()

	srv := httpinfra.NewServerWithDeps(cfg, httpinfra.ServerDeps{
		Store:        store,
		Jobs:         jobSvc,
		Review:       reviewSvc,
		Credentials:  credSvc,
		Certificates: certRepo,
		Rules:        ruleRepo,
		Issuers:      issuerRepo,
		Audit:        auditRepo,
		AdminAPIKey:  cfg.AdminAPIKey,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server exited", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}
}

func splitRecipients(raw string) []string {
	var out []string
	for _, addr := range strings.Split(raw, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
