package db

import (
	"fmt"
	"log/slog"

	"campussync/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

// NewStore connects to postgres and runs migrations. Without a DSN the
// store starts in no-db mode: every repository call reports
// errDBUnavailable until one is configured.
func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		slog.Warn("POSTGRES_DSN not set; starting in no-db mode")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return &Store{DB: gdb}, nil
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&CertificateModel{},
		&CertificateMetadataModel{},
		&TrustedIssuerModel{},
		&VerificationRuleModel{},
		&VerifiableCredentialModel{},
		&CredentialStatusEntryModel{},
		&JobModel{},
		&AuditEventModel{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
