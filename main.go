package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-import/api"
	"github.com/carson-networks/ledger-import/internal/config"
	"github.com/carson-networks/ledger-import/internal/logging"
	"github.com/carson-networks/ledger-import/internal/metrics"
	"github.com/carson-networks/ledger-import/internal/operator"
	"github.com/carson-networks/ledger-import/internal/service"
	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/migrations"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("ledger-import starting")

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	status, err := migrations.Up(dbStorage.DB)
	if err != nil {
		logger.WithError(err).Fatal("migrations.Up")
		return
	}
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  status.PreMigrationVersion,
		"postMigrationVersion": status.PostMigrationVersion,
	}).Info("Migration status")

	m := metrics.New()

	op := operator.NewOperatorDelegator(dbStorage, envConfig.NumWorkers, logger)
	op.Start()
	defer op.Stop()

	svc := service.NewService(dbStorage, op, envConfig, m, logger)

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.HTTPPort,
			Storage: dbStorage,
			Service: svc,
			Metrics: m,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
