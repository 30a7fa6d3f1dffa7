package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/internal/database"
	"github.com/inboxpulse/inboxpulse/internal/repository"
	"github.com/inboxpulse/inboxpulse/server"
)

func main() {
	app := &cli.App{
		Name:  "inboxpulse",
		Usage: "unread thread count engine",
		Commands: []*cli.Command{
			{
				Name:   "server",
				Usage:  "Start the application server",
				Action: runServer,
			},
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initDatabase(cfg *config.Config) *gorm.DB {
	if !cfg.DatabaseConfig.Enabled() {
		log.Println("Database not configured, scan audit trail disabled")
		return nil
	}

	db, err := database.InitInboxpulseDatabase(&database.DatabaseConfig{
		DBName:          cfg.DatabaseConfig.DBName,
		Host:            cfg.DatabaseConfig.Host,
		Port:            cfg.DatabaseConfig.Port,
		User:            cfg.DatabaseConfig.User,
		Password:        cfg.DatabaseConfig.Password,
		MaxConn:         cfg.DatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.DatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.DatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.DatabaseConfig.LogLevel,
		SSLMode:         cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	return db
}

func runServer(c *cli.Context) error {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}

	db := initDatabase(cfg)

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Inboxpulse starting up...")

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server startup failed: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}

	db := initDatabase(cfg)
	if db == nil {
		log.Fatalf("Database must be configured for migrations")
	}

	if err := repository.MigrateDB(cfg.DatabaseConfig, db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")
	return nil
}
