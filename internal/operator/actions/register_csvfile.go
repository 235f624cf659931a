package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aarondl/opt/null"

	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// RegisterCsvFile records a csv file so it can be loaded. Registering a name
// again returns the existing id while the file is unloaded and is refused
// once it has been loaded.
type RegisterCsvFile struct {
	Filename  string
	AgentName string
	OrgName   null.Val[string]

	CsvFileID int64
	Existing  bool

	IAction
}

func (r *RegisterCsvFile) Perform(ctx context.Context, writer *storage.Writer) error {
	var agentID null.Val[int64]
	if r.AgentName != "" {
		id, err := writer.CsvFile.GetOrCreateAgent(ctx, r.AgentName)
		if err != nil {
			return fmt.Errorf("%w: resolve agent: %w", importer.ErrStore, err)
		}
		agentID = null.From(id)
	}

	existing, err := writer.CsvFile.FindByName(ctx, r.Filename)
	switch {
	case err == nil:
		if existing.IsLoaded() {
			return fmt.Errorf("%w: %s", importer.ErrAlreadyLoaded, r.Filename)
		}
		r.CsvFileID = existing.ID
		r.Existing = true
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}

	r.CsvFileID, err = writer.CsvFile.Insert(ctx, r.Filename, agentID, r.OrgName)
	if err != nil {
		return fmt.Errorf("%w: insert csv file: %w", importer.ErrStore, err)
	}
	return nil
}
