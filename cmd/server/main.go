package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"coachsite/internal/adapters/broker"
	emailPkg "coachsite/internal/adapters/email"
	web "coachsite/internal/adapters/http"
	"coachsite/internal/adapters/http/middleware"
	"coachsite/internal/adapters/http/perf"
	"coachsite/internal/adapters/mirror"
	"coachsite/internal/adapters/objectstore"
	"coachsite/internal/adapters/storage"
	accountStore "coachsite/internal/adapters/storage/account"
	bookingStore "coachsite/internal/adapters/storage/booking"
	mediaStore "coachsite/internal/adapters/storage/media"
	memberStore "coachsite/internal/adapters/storage/member"
	outboxStore "coachsite/internal/adapters/storage/outbox"
	pushStore "coachsite/internal/adapters/storage/push"
	noteStore "coachsite/internal/adapters/storage/sessionnote"
	settingStore "coachsite/internal/adapters/storage/setting"
	taskStore "coachsite/internal/adapters/storage/task"
	"coachsite/internal/adapters/telemetry"
	"coachsite/internal/application/orchestrators"
	"coachsite/internal/config"
	"coachsite/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, version)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(ctx, db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := perf.NewCollector(cfg.Perf.RingSize, reg)
	timedDB := storage.NewTimedDB(db, collector, cfg.Perf.SlowQuery)

	outboxes := outboxStore.NewSQLiteStore(timedDB)

	// Remote mirror: failed writes are parked in the local outbox.
	var mirrorSink storage.Mirror = storage.NoopMirror{}
	executors := map[string]orchestrators.ActionExecutor{}
	if cfg.Remote.DatabaseURL != "" {
		remoteDB, err := mirror.Open(ctx, cfg.Remote.DatabaseURL, cfg.Remote.MaxOpenConns, cfg.Remote.Timeout)
		if err != nil {
			return err
		}
		defer remoteDB.Close()
		remote := mirror.NewRemote(remoteDB, cfg.Remote.TablePrefix)
		if err := remote.EnsureSchema(ctx); err != nil {
			return err
		}
		mirrorSink = mirror.NewSyncer(remote, outboxes, cfg.Remote.Timeout)
		executors[outbox.ActionTypeMirrorUpsert] = mirror.UpsertExecutor{Remote: remote}
		executors[outbox.ActionTypeMirrorDelete] = mirror.DeleteExecutor{Remote: remote}
	}
	slog.Info("mirror_configured", "mirror_enabled", cfg.Remote.DatabaseURL != "")

	stores := web.Stores{
		Accounts: accountStore.NewSQLiteStore(timedDB),
		Bookings: bookingStore.NewMirroredStore(bookingStore.NewSQLiteStore(timedDB), mirrorSink),
		Members:  memberStore.NewMirroredStore(memberStore.NewSQLiteStore(timedDB), mirrorSink),
		Tasks:    taskStore.NewMirroredStore(taskStore.NewSQLiteStore(timedDB), mirrorSink),
		Notes:    noteStore.NewMirroredStore(noteStore.NewSQLiteStore(timedDB), mirrorSink),
		Push:     pushStore.NewMirroredStore(pushStore.NewSQLiteStore(timedDB), mirrorSink),
		Media:    mediaStore.NewMirroredStore(mediaStore.NewSQLiteStore(timedDB), mirrorSink),
		Settings: settingStore.NewMirroredStore(settingStore.NewSQLiteStore(timedDB), mirrorSink),
		Outbox:   outboxes,
	}

	created, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
		Email: cfg.Admin.Email, Password: cfg.Admin.Password,
	}, orchestrators.SeedAdminDeps{AccountStore: stores.Accounts, GenerateID: newID, Now: time.Now})
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin_seeded", "email", cfg.Admin.Email)
	}

	var sender emailPkg.Sender
	if cfg.Email.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.ReplyTo)
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "reason", "COACH_RESEND_KEY is not set")
		}
	}
	executors[outbox.ActionTypeEmail] = orchestrators.EmailExecutor{Sender: sender}

	objects, uploadDir, err := openObjectStore(ctx, cfg.Objects)
	if err != nil {
		return err
	}

	var publisher broker.Publisher = broker.NewNoopPublisher()
	if cfg.Broker.URL != "" {
		amqpPub, err := broker.DialAMQP(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.RoutingKey)
		if err != nil {
			return err
		}
		publisher = amqpPub
	}
	defer publisher.Close()
	executors[outbox.ActionTypePushDelivery] = orchestrators.PushDeliveryExecutor{Publisher: publisher}

	processor := orchestrators.NewOutboxProcessor(outboxes, executors, orchestrators.OutboxConfig{
		BaseDelay: cfg.Outbox.BaseDelay,
		MaxDelay:  cfg.Outbox.MaxDelay,
		BatchSize: cfg.Outbox.BatchSize,
	}, reg)

	pushDeps := orchestrators.PushDeps{
		PushStore:   stores.Push,
		MemberStore: stores.Members,
		Publisher:   publisher,
		Email: orchestrators.EmailDeps{
			Sender: sender, OutboxStore: outboxes, GenerateID: newID, Now: time.Now,
		},
		GenerateID: newID,
		Now:        time.Now,
	}

	workerStop := make(chan struct{})
	outboxDone := orchestrators.StartBackgroundWorker("outbox", cfg.Outbox.Interval, workerStop, func(ctx context.Context) error {
		_, err := processor.ProcessPending(ctx)
		return err
	})
	pushDone := orchestrators.StartBackgroundWorker("push_due", time.Minute, workerStop, func(ctx context.Context) error {
		_, err := orchestrators.ExecuteSendDuePushes(ctx, pushDeps)
		return err
	})

	handler := web.NewMux(web.Deps{
		Stores:         stores,
		Email:          sender,
		Objects:        objects,
		Publisher:      publisher,
		Outbox:         processor,
		Tokens:         middleware.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		Perf:           collector,
		Metrics:        reg,
		Health:         db.PingContext,
		NotifyEmail:    cfg.Email.NotifyEmail,
		BaseURL:        cfg.BaseURL,
		CSRFKey:        []byte(cfg.Auth.CSRFKey),
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: trustedOrigins(cfg.BaseURL),
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
		SlowRequest:    cfg.Perf.SlowRequest,
		UploadDir:      uploadDir,
		GenerateID:     newID,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			close(workerStop)
			return err
		}
	case <-ctx.Done():
		slog.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	close(workerStop)
	<-outboxDone
	<-pushDone
	return err
}

// openObjectStore picks MinIO when an endpoint is configured, otherwise the
// local upload directory, which is then served under /uploads/.
func openObjectStore(ctx context.Context, cfg config.ObjectConfig) (objectstore.Store, string, error) {
	if cfg.S3Endpoint != "" {
		store, err := objectstore.NewMinIO(ctx, objectstore.MinIOConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		return store, "", err
	}
	store, err := objectstore.NewLocal(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return store, store.Root(), nil
}

// trustedOrigins lists the site's own host for CSRF origin checks.
func trustedOrigins(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

func newID() string {
	return uuid.NewString()
}
