package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/altora/accountd/internal/api"
	"github.com/altora/accountd/internal/app"
	"github.com/altora/accountd/internal/app/maintenance"
	"github.com/altora/accountd/internal/database"
	"github.com/altora/accountd/internal/services"
	"github.com/altora/accountd/pkg/mail"
)

// runtimeStack bundles long-lived components used by the HTTP server.
type runtimeStack struct {
	DB       *gorm.DB
	Mailer   mail.Mailer
	Accounts *services.AccountService
	Cleaner  *maintenance.Cleaner
	Router   *gin.Engine
}

// bootstrapRuntime initialises the database, mailer, services, and the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Mailer, err = mail.NewSMTPMailer(mail.SMTPSettings{
		Enabled:  cfg.Email.SMTP.Enabled,
		Host:     cfg.Email.SMTP.Host,
		Port:     cfg.Email.SMTP.Port,
		Username: cfg.Email.SMTP.Username,
		Password: cfg.Email.SMTP.Password,
		From:     cfg.Email.SMTP.From,
		UseTLS:   cfg.Email.SMTP.UseTLS,
		Timeout:  cfg.Email.SMTP.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}

	stack.Accounts, err = services.NewAccountService(stack.DB, stack.Mailer,
		services.WithResetTokenTTL(cfg.Auth.ResetTokenTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise account service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.DB,
			maintenance.WithTokenSchedule(cfg.Maintenance.TokenSchedule),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(stack.DB, cfg, stack.Accounts)
	if err != nil {
		return nil, fmt.Errorf("initialise router: %w", err)
	}

	return stack, nil
}

// Shutdown releases runtime resources in reverse initialisation order.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	shutdownCleaner(s.Cleaner, log)

	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("database close failed", zap.Error(err))
			}
		}
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	opts := cfg.DatabaseConfigForDriver()

	db, err := database.Open(database.Config{
		Driver:   opts.Driver,
		Path:     opts.Path,
		DSN:      opts.DSN,
		Host:     opts.Host,
		Port:     opts.Port,
		User:     opts.User,
		Password: opts.Password,
		Name:     opts.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndPing(db); err != nil {
		return nil, fmt.Errorf("prepare database: %w", err)
	}

	return db, nil
}
