package csvfile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-import/internal/service"
)

// RollbackResponse mirrors service.RollbackResult.
type RollbackResponse struct {
	OperationID         string   `json:"operationID"`
	Lines               []string `json:"lines" doc:"Progress report"`
	ReversedLogCount    *int     `json:"reversedLogCount" doc:"Number of loads reversed, null when nothing was reversed"`
	TransactionsDeleted int64    `json:"transactionsDeleted"`
	LogsDeleted         int64    `json:"logsDeleted"`
	CsvFilesUpdated     int64    `json:"csvFilesUpdated"`
}

type RollbackOutput struct {
	Body RollbackResponse
}

// RollbackFailedError carries the progress report of a failed rollback.
type RollbackFailedError struct {
	status  int
	Message string           `json:"message"`
	Result  RollbackResponse `json:"result"`
}

func (e *RollbackFailedError) Error() string {
	return e.Message
}

func (e *RollbackFailedError) GetStatus() int {
	return e.status
}

type csvFileRollbacker interface {
	RollbackCsvFile(ctx context.Context, id int64) (service.RollbackResult, error)
}

// RollbackCsvFileHandler handles POST /v1/csvfile/{id}/rollback.
type RollbackCsvFileHandler struct {
	ImportService csvFileRollbacker
}

func NewRollbackCsvFileHandler(svc csvFileRollbacker) *RollbackCsvFileHandler {
	return &RollbackCsvFileHandler{ImportService: svc}
}

func (h *RollbackCsvFileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "rollback-csvfile",
		Method:      http.MethodPost,
		Path:        "/v1/csvfile/{id}/rollback",
		Summary:     "Roll back a csv file load",
		Description: "Deletes the ledger rows and data logs of the file's load and clears its loaded date. Rolling back a file that is not loaded is a no-op.",
		Tags:        []string{"CsvFiles"},
	}, h.handle)
}

func (h *RollbackCsvFileHandler) handle(ctx context.Context, input *CsvFileIDInput) (*RollbackOutput, error) {
	result, err := h.ImportService.RollbackCsvFile(ctx, input.ID)

	lines := result.Lines
	if lines == nil {
		lines = []string{}
	}
	body := RollbackResponse{
		OperationID:         result.OperationID.String(),
		Lines:               lines,
		ReversedLogCount:    result.ReversedLogCount,
		TransactionsDeleted: result.TransactionsDeleted,
		LogsDeleted:         result.LogsDeleted,
		CsvFilesUpdated:     result.CsvFilesUpdated,
	}
	if err != nil {
		return nil, &RollbackFailedError{
			status:  statusFor(err),
			Message: "failed to roll back csv file",
			Result:  body,
		}
	}
	return &RollbackOutput{Body: body}, nil
}
