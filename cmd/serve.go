package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httpcontext "github.com/dtroode/tap-portal-server/internal/api/http/context"
	"github.com/dtroode/tap-portal-server/internal/api/http/handler"
	"github.com/dtroode/tap-portal-server/internal/api/http/router"
	httpserver "github.com/dtroode/tap-portal-server/internal/api/http/server"
	"github.com/dtroode/tap-portal-server/internal/config"
	"github.com/dtroode/tap-portal-server/internal/identity/firebase"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/mail"
	"github.com/dtroode/tap-portal-server/internal/mail/ses"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/repository/postgres"
	"github.com/dtroode/tap-portal-server/internal/server"
	"github.com/dtroode/tap-portal-server/internal/service"
	"github.com/dtroode/tap-portal-server/internal/spreadsheet/gsheet"
	miniostorage "github.com/dtroode/tap-portal-server/internal/storage/minio"
	s3storage "github.com/dtroode/tap-portal-server/internal/storage/s3"
	"github.com/dtroode/tap-portal-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
		defer stop()

		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		log := logger.New(cfg.LogLevel)
		for _, w := range cfg.Warnings() {
			log.Warn("configuration", "warning", w)
		}

		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	emailPattern, err := regexp.Compile(cfg.Auth.StudentEmailPattern)
	if err != nil {
		return fmt.Errorf("invalid student email pattern: %w", err)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	students := postgres.NewStudentRepository(db)
	coordinators := postgres.NewCoordinatorRepository(db)
	jobs := postgres.NewJobRepository(db)
	apps := postgres.NewApplicationRepository(db)
	recruiters := postgres.NewRecruiterRepository(db)
	accounts := postgres.NewAccountRepository(db)

	identity, err := firebase.New(ctx, firebase.Options{
		APIKey:          cfg.Firebase.APIKey,
		CredentialsFile: cfg.Firebase.CredentialsFile,
		Endpoint:        cfg.Firebase.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize identity provider: %w", err)
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	mailer, err := newMailer(ctx, cfg, log)
	if err != nil {
		return err
	}

	var sheets model.SheetReader
	if cfg.Sheets.CredentialsFile != "" {
		client, err := gsheet.NewClient(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		sheets = client
	}

	tokens := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	sessions := service.NewSessions(tokens, identity, log)
	notifier := service.NewNotifier(students, mailer, cfg.SES.PortalURL, cfg.SES.Concurrency, log)

	services := router.Services{
		Gate:            service.NewGate(tokens, identity, accounts, cfg.Auth.ResendVerification, log),
		StudentAuth:     service.NewStudentAuth(students, identity, sessions, emailPattern, log),
		CoordinatorAuth: service.NewCoordinatorAuth(coordinators, identity, sessions, log),
		Students:        service.NewStudents(students, apps, log),
		Resumes:         service.NewResumes(students, storage, cfg.ResumeURLTTL, log),
		Jobs:            service.NewJobs(jobs, apps, students, recruiters, storage, notifier, cfg.ResumeURLTTL, log),
		Recruiters:      service.NewRecruiters(recruiters, log),
		Dashboard:       service.NewDashboard(students, jobs, apps, recruiters, sheets, log),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := router.New(services, router.Options{
		Cookies: handler.Cookies{
			Name:   cfg.Cookie.Name,
			Secure: cfg.Cookie.Secure,
			Domain: cfg.Cookie.Domain,
			TTL:    cfg.JWT.TTL,
		},
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Registry:    registry,
	}, httpcontext.NewManager(), log)

	srv := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadHeaderTimeout)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	log.Info("starting server",
		"address", srv.Address(),
		"version", buildVersion,
		"commit", buildCommit)

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		errCh <- s.Start(sl)
	}(srv)

	select {
	case err := <-errCh:
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("received interruption signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("error during server shutdown", "error", err.Error(), "address", srv.Address())
	}

	wg.Wait()
	log.Info("shutdown complete")
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		client, err := s3storage.New(ctx, s3storage.Options{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		return client, nil
	case "minio":
		minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := miniostorage.NewClient(ctx, minioClient, cfg.Minio.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio storage: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newMailer(ctx context.Context, cfg *config.Config, log *logger.Logger) (model.Mailer, error) {
	if !cfg.SES.Enabled {
		return mail.NewLogMailer(log), nil
	}

	client, err := ses.New(ctx, ses.Options{
		Region:    cfg.SES.Region,
		Sender:    cfg.SES.Sender,
		Endpoint:  cfg.SES.Endpoint,
		AccessKey: cfg.SES.AccessKey,
		SecretKey: cfg.SES.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ses mailer: %w", err)
	}
	return client, nil
}
