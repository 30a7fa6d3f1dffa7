package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"gorm.io/gorm"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/inboxpulse/inboxpulse/api"
	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/cron"
	"github.com/inboxpulse/inboxpulse/internal/listeners"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/repository"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/services"
	"github.com/inboxpulse/inboxpulse/services/events"
)

type Server struct {
	config       *config.Config
	logger       logger.Logger
	httpServer   *http.Server
	router       *gin.Engine
	services     *services.Services
	repositories *repository.Repositories
	cronManager  *cron.CronManager
	tracerCloser io.Closer
}

func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	// Initialize logger
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	// Initialize tracing
	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	// Initialize repositories; the engine runs without a database, only the
	// scan audit trail is skipped
	var repos *repository.Repositories
	if db != nil {
		repos = repository.InitRepositories(db)
	}

	// Initialize services
	svcs, err := services.InitServices(cfg, appLogger, repos)
	if err != nil {
		return nil, err
	}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	return &Server{
		config:       cfg,
		logger:       appLogger,
		router:       router,
		services:     svcs,
		repositories: repos,
		tracerCloser: closer,
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppConfig.APIPort,
			Handler: router,
		},
	}, nil
}

func (s *Server) Initialize(ctx context.Context) error {
	// Attach the label-change listener; it stays subscribed for the whole
	// process lifetime, independent of scan state
	if s.services.EventsService != nil {
		log.Println("Registering label change listener...")
		subscriber := s.services.EventsService.Subscriber
		subscriber.RegisterListener(listeners.NewLabelChangeListener(s.logger, s.services.UnreadCounterService))
		if err := subscriber.ListenQueue(events.QueueLabelChange); err != nil {
			return err
		}
	}

	// Setup API routes
	api.RegisterRoutes(ctx, s.router, s.services, s.logger, s.config.AppConfig.APIKey)

	return nil
}

func (s *Server) recoverWithJaeger(name string) {
	if r := recover(); r != nil {
		// Create a new span for the panic
		span := opentracing.GlobalTracer().StartSpan(
			fmt.Sprintf("panic.%s", name),
		)
		defer span.Finish()

		// Mark span as failed
		ext.Error.Set(span, true)

		// Log panic details
		span.LogKV(
			"event", "panic",
			"process", name,
			"error", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)

		log.Printf("❌ Panic in %s: %v\n%s", name, r, debug.Stack())
	}
}

func (s *Server) wrapGoroutine(name string, fn func()) {
	defer s.recoverWithJaeger(name)
	fn()
}

func (s *Server) Run() error {
	// Create root context for the application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize server components
	if err := s.Initialize(ctx); err != nil {
		return err
	}

	// Run the initial scan without blocking startup
	log.Println("Starting unread counter...")
	go s.wrapGoroutine("unread_counter", func() {
		s.services.UnreadCounterService.Start(ctx)
	})
	log.Println("✅ Unread counter started successfully")

	// Start the cron manager with leader election when running in a cluster
	var scanRecords interfaces.ScanRecordRepository
	if s.repositories != nil {
		scanRecords = s.repositories.ScanRecordRepository
	}
	s.cronManager = cron.NewCronManager(s.config, s.logger, clusterClient(), s.services.UnreadCounterService, scanRecords)
	if err := s.cronManager.Start(os.Getenv("POD_NAME"), os.Getenv("POD_NAMESPACE")); err != nil {
		return err
	}
	log.Println("✅ Cron manager started successfully")

	// Start HTTP server in a goroutine with panic recovery
	go s.wrapGoroutine("http_server", func() {
		log.Println("Starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ HTTP server error: %v", err)
		}
	})
	log.Println("✅ HTTP server started successfully")
	log.Println("Inboxpulse is now running. Press Ctrl+C to exit.")

	return s.waitForShutdown()
}

func (s *Server) waitForShutdown() error {
	defer s.recoverWithJaeger("shutdown")

	// Set up signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Wait for termination signal
	<-stop
	log.Println("Shutting down...")

	// Create a context with timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	// Stop scheduled jobs first so no new scans begin
	if s.cronManager != nil {
		s.cronManager.Stop()
	}

	if s.tracerCloser != nil {
		s.tracerCloser.Close()
	}

	// Shut down HTTP server
	log.Println("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ HTTP server shutdown error: %v", err)
	} else {
		log.Println("✅ HTTP server shut down successfully")
	}

	// Close the broker connections
	if s.services.EventsService != nil {
		log.Println("Closing events service...")
		if err := s.services.EventsService.Close(); err != nil {
			log.Printf("❌ Events service shutdown error: %v", err)
		} else {
			log.Println("✅ Events service shut down successfully")
		}
	}

	return nil
}

// clusterClient returns a Kubernetes client when running in a pod, nil for
// local mode.
func clusterClient() kubernetes.Interface {
	if os.Getenv("POD_NAME") == "" {
		return nil
	}
	cfg, err := rest.InClusterConfig()
	if err != nil {
		log.Printf("Not running in cluster, cron runs in local mode: %v", err)
		return nil
	}
	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		log.Printf("Failed to build cluster client, cron runs in local mode: %v", err)
		return nil
	}
	return client
}
