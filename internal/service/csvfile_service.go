package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/aarondl/opt/null"

	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/operator/actions"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// CsvFileService handles csv file registration.
type CsvFileService struct {
	storage  *storage.Storage
	operator actionProcessor
	csvRoot  string
}

func NewCsvFileService(store *storage.Storage, op actionProcessor, csvRoot string) *CsvFileService {
	return &CsvFileService{
		storage:  store,
		operator: op,
		csvRoot:  csvRoot,
	}
}

// RegisterCsvFile registers filename under agentName and returns its id.
// existing is true when an unloaded registration was reused.
func (s *CsvFileService) RegisterCsvFile(ctx context.Context, filename string, agentName string, orgName string) (id int64, existing bool, err error) {
	if _, err = os.Stat(resolvePath(s.csvRoot, filename)); err != nil {
		return 0, false, fmt.Errorf("%w: %w", importer.ErrFileIO, err)
	}

	action := &actions.RegisterCsvFile{
		Filename:  filename,
		AgentName: agentName,
	}
	if orgName != "" {
		action.OrgName = null.From(orgName)
	}

	if err = s.operator.Process(ctx, action); err != nil {
		return 0, false, err
	}
	return action.CsvFileID, action.Existing, nil
}

func (s *CsvFileService) GetCsvFile(ctx context.Context, id int64) (*CsvFile, error) {
	row, err := s.storage.Read().CsvFiles.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: csv file %d", importer.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}
	file := csvFileFromStorage(row)
	return &file, nil
}

func (s *CsvFileService) ListCsvFiles(ctx context.Context) ([]CsvFile, error) {
	rows, err := s.storage.Read().CsvFiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list csv files: %w", importer.ErrStore, err)
	}
	files := make([]CsvFile, len(rows))
	for i, row := range rows {
		files[i] = csvFileFromStorage(row)
	}
	return files, nil
}
