package service

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-import/internal/config"
	"github.com/carson-networks/ledger-import/internal/logging"
	"github.com/carson-networks/ledger-import/internal/metrics"
	"github.com/carson-networks/ledger-import/internal/operator/actions"
	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/csvfile"
)

// actionProcessor runs an action inside one write transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Import  *ImportService
	CsvFile *CsvFileService
}

// NewService creates a new Service with the given storage and write queue.
func NewService(
	store *storage.Storage,
	op actionProcessor,
	env *config.Config,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *Service {
	return &Service{
		Import:  NewImportService(store, op, env, m, logger),
		CsvFile: NewCsvFileService(store, op, env.CsvRoot),
	}
}

// resolvePath places a relative csv file name under root.
func resolvePath(root string, name string) string {
	if root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}

func csvFileFromStorage(row *csvfile.CsvFile) CsvFile {
	return CsvFile{
		ID:         row.ID,
		Name:       row.Name,
		AgentID:    row.AgentID.Ptr(),
		OrgName:    row.OrgName.Ptr(),
		LoadedDate: row.LoadedDate.Ptr(),
	}
}

func logDataFrom(ctx context.Context, logger *logrus.Logger) *logging.LogData {
	if logData := logging.GetLogData(ctx); logData != nil {
		return logData
	}
	return logging.NewLogData(logger)
}
