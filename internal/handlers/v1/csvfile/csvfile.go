package csvfile

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/service"
)

// CsvFile is the API response model for a registered csv file.
type CsvFile struct {
	ID         int64   `json:"id" doc:"Csv file id"`
	Name       string  `json:"name" doc:"Stored file name"`
	AgentID    *int64  `json:"agentID,omitempty" doc:"Id of the agent that produced the file"`
	OrgName    *string `json:"orgName,omitempty" doc:"Organisation the statement came from"`
	LoadedDate *string `json:"loadedDate,omitempty" doc:"When the file was loaded, absent when not loaded"`
}

// CsvFileIDInput is the path input shared by the per-file endpoints.
type CsvFileIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Csv file id"`
}

func csvFileFromService(f service.CsvFile) CsvFile {
	return CsvFile{
		ID:         f.ID,
		Name:       f.Name,
		AgentID:    f.AgentID,
		OrgName:    f.OrgName,
		LoadedDate: f.LoadedDate,
	}
}

// statusFor maps an importer error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, importer.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrAlreadyLoaded):
		return http.StatusConflict
	case errors.Is(err, importer.ErrMalformedRow), errors.Is(err, importer.ErrFileIO):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorFor(msg string, err error) error {
	return huma.NewError(statusFor(err), msg, err)
}
