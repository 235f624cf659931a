package csvfile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-import/internal/service"
)

// LoadResponse mirrors service.LoadResult.
type LoadResponse struct {
	OperationID          string `json:"operationID" doc:"Correlation id of this attempt"`
	Success              bool   `json:"success"`
	TransactionsInserted int    `json:"transactionsInserted,omitempty"`
	TagsInserted         int    `json:"tagsInserted,omitempty"`
	LogID                int64  `json:"logId,omitempty"`
	Filename             string `json:"filename,omitempty"`
	Error                string `json:"error,omitempty"`
	RowsProcessed        int    `json:"rowsProcessed" doc:"Records handled, on failure those before the failing record"`
}

// LoadOutput is the Huma output for a successful load.
type LoadOutput struct {
	Body LoadResponse
}

// LoadFailedError is returned for a failed load so the client still gets the
// structured result.
type LoadFailedError struct {
	status  int
	Message string       `json:"message"`
	Result  LoadResponse `json:"result"`
}

func (e *LoadFailedError) Error() string {
	return e.Message
}

func (e *LoadFailedError) GetStatus() int {
	return e.status
}

type csvFileLoader interface {
	LoadCsvFile(ctx context.Context, id int64) (service.LoadResult, error)
}

// LoadCsvFileHandler handles POST /v1/csvfile/{id}/load.
type LoadCsvFileHandler struct {
	ImportService csvFileLoader
}

func NewLoadCsvFileHandler(svc csvFileLoader) *LoadCsvFileHandler {
	return &LoadCsvFileHandler{ImportService: svc}
}

func (h *LoadCsvFileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "load-csvfile",
		Method:      http.MethodPost,
		Path:        "/v1/csvfile/{id}/load",
		Summary:     "Load a csv file",
		Description: "Applies every record of the file to the ledger in one transaction. A single bad record fails the whole file.",
		Tags:        []string{"CsvFiles"},
	}, h.handle)
}

func (h *LoadCsvFileHandler) handle(ctx context.Context, input *CsvFileIDInput) (*LoadOutput, error) {
	result, err := h.ImportService.LoadCsvFile(ctx, input.ID)
	body := LoadResponse{
		OperationID:          result.OperationID.String(),
		Success:              result.Success,
		TransactionsInserted: result.TransactionsInserted,
		TagsInserted:         result.TagsInserted,
		LogID:                result.LogID,
		Filename:             result.Filename,
		Error:                result.Error,
		RowsProcessed:        result.RowsProcessed,
	}
	if err != nil {
		return nil, &LoadFailedError{
			status:  statusFor(err),
			Message: "failed to load csv file",
			Result:  body,
		}
	}
	return &LoadOutput{Body: body}, nil
}
