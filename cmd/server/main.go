package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"event-management-system/backend/internal/audit"
	auditrepo "event-management-system/backend/internal/audit/repository"
	"event-management-system/backend/internal/auth"
	"event-management-system/backend/internal/authority"
	authorityrepo "event-management-system/backend/internal/authority/repository"
	"event-management-system/backend/internal/config"
	"event-management-system/backend/internal/db"
	"event-management-system/backend/internal/db/migrate"
	"event-management-system/backend/internal/registry"
	"event-management-system/backend/internal/security"
	"event-management-system/backend/internal/server"
	"event-management-system/backend/internal/telemetry"
	"event-management-system/backend/internal/telemetry/otel"
)

const serviceName = "ems-backend"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}
	if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	tokens := security.NewTokenProvider(
		[]byte(cfg.JWTSecret), cfg.PreviousSecret(), cfg.JWTIssuer, cfg.JWTAudience)

	sessions, sweeper, err := newSessionRegistry(ctx, cfg)
	if err != nil {
		log.Fatalf("session registry: %v", err)
	}
	if sweeper != nil {
		sweeper.Start()
		defer sweeper.Stop()
	}

	resolver := authority.NewResolver(authorityrepo.NewPostgresRoleStore(conn))
	recorder := audit.NewRecorder(auditrepo.NewPostgresRepository(conn))
	authenticator := auth.NewAuthenticator(tokens, sessions, resolver, recorder)

	metrics, err := telemetry.NewMetrics(providers.MeterProvider, sessions)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	srv, healthSrv := server.New(server.Deps{
		Authenticator: authenticator,
		Recorder:      recorder,
		Metrics:       metrics,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.GracefulStop()
	log.Println("gRPC server stopped")
}

// newSessionRegistry returns the Redis registry when REDIS_URL is set,
// otherwise the in-process registry plus a cron sweeper for expired entries
// (nil when SESSION_SWEEP_SCHEDULE is empty).
func newSessionRegistry(ctx context.Context, cfg *config.Config) (registry.Registry, *cron.Cron, error) {
	if cfg.RedisURL != "" {
		r, err := registry.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("session registry: redis")
		return r, nil, nil
	}

	mem := registry.NewMemory()
	if cfg.SessionSweepSchedule == "" {
		return mem, nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(cfg.SessionSweepSchedule, func() {
		if n := mem.Sweep(); n > 0 {
			log.Printf("session registry: swept %d expired entries", n)
		}
	}); err != nil {
		return nil, nil, err
	}
	log.Printf("session registry: in-memory, sweeping %q", cfg.SessionSweepSchedule)
	return mem, c, nil
}
