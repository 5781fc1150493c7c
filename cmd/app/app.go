package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/api"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/config"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/db"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/logger"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/worker"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	sched, err := worker.NewScheduler(postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler -> %w", err)
	}
	if err = sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler -> %w", err)
	}
	defer sched.Shutdown()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
