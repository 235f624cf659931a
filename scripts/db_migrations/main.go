package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/ledger-import/internal/config"
	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/migrations"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	logrus.WithField("databasePath", env.DatabasePath).Info("Migrating")

	db, err := storage.Open(env.DatabasePath)
	if err != nil {
		logrus.WithError(err).Fatal("storage.Open")
		return
	}
	defer db.Close()

	status, err := migrations.Up(db.DB)
	if err != nil {
		logrus.WithError(err).Fatal("migrations.Up")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  status.PreMigrationVersion,
		"postMigrationVersion": status.PostMigrationVersion,
	}).Info("Migration status")
}
