package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tlcintake/internal/config"
	"tlcintake/internal/email/noop"
	"tlcintake/internal/email/ses"
	"tlcintake/internal/extractor"
	geminiextractor "tlcintake/internal/extractor/gemini"
	openaiextractor "tlcintake/internal/extractor/openai"
	"tlcintake/internal/handler"
	"tlcintake/internal/i18n"
	"tlcintake/internal/port"
	"tlcintake/internal/registry/dmv"
	registrynoop "tlcintake/internal/registry/noop"
	"tlcintake/internal/router"
	"tlcintake/internal/service"
	"tlcintake/internal/session"
	"tlcintake/internal/storage/memory"
	s3storage "tlcintake/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog := i18n.NewCatalog()

	manager := session.NewManager(catalog, cfg.Session.InputTimeout)
	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	manager.StartJanitor(janitorCtx, 0)

	storage, err := buildStorage(cfg)
	if err != nil {
		return err
	}
	emailSender, err := buildEmailSender(cfg, catalog)
	if err != nil {
		return err
	}
	licenseRegistry := buildRegistry(cfg)

	documentExtractor, err := buildExtractor(cfg)
	if err != nil {
		return err
	}

	extractionSvc := service.NewExtractionService(documentExtractor, storage, &cfg.Storage, &cfg.Session)
	submissionSvc := service.NewSubmissionService(licenseRegistry, emailSender)

	sessionH := handler.NewSessionHandler(manager, extractionSvc, submissionSvc)
	applicationH := handler.NewApplicationHandler(extractionSvc, licenseRegistry, emailSender)
	healthH := handler.NewHealthHandler(manager)

	r := router.Setup(sessionH, applicationH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func buildStorage(cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "s3":
		storage, err := s3storage.NewS3Client(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return storage, nil
	default:
		log.Printf("using in-memory object storage; uploads are not persisted")
		return memory.NewStorage(), nil
	}
}

func buildEmailSender(cfg *config.Config, catalog *i18n.Catalog) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	default:
		return noop.NewNoopSender(), nil
	}
}

func buildRegistry(cfg *config.Config) port.LicenseRegistry {
	switch cfg.Registry.Provider {
	case "dmv":
		return dmv.NewClient(&cfg.Registry)
	default:
		return registrynoop.NewNoopRegistry()
	}
}

// buildExtractor registers the known extraction providers and builds the
// configured one. A configured secondary becomes a rate-limit fallback.
func buildExtractor(cfg *config.Config) (port.DocumentExtractor, error) {
	extractor.RegisterProvider("openai", func(pc *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return openaiextractor.NewExtractor(pc), nil
	})
	extractor.RegisterProvider("gemini", func(pc *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return geminiextractor.NewExtractor(pc), nil
	})

	primary, err := extractor.NewExtractor(&cfg.Extractor.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	secondaryCfg := cfg.Extractor.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := extractor.NewExtractor(secondaryCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secondary extractor: %w", err)
	}
	return extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{cfg.Extractor.Primary.Provider, secondaryCfg.Provider},
	), nil
}
