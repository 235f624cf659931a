package csvfile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-import/internal/service"
)

type GetCsvFileOutput struct {
	Body CsvFile
}

type ListCsvFilesOutput struct {
	Body struct {
		CsvFiles []CsvFile `json:"csvFiles"`
	}
}

// SummaryResponse totals the ledger rows written by a file's loads.
type SummaryResponse struct {
	CsvFile          CsvFile `json:"csvFile"`
	LogIDs           []int64 `json:"logIds"`
	TransactionCount int64   `json:"transactionCount"`
	Expenses         string  `json:"expenses" doc:"Sum of negative non-transfer amounts"`
	Income           string  `json:"income" doc:"Sum of positive non-transfer amounts"`
	Net              string  `json:"net"`
	TransferCount    int64   `json:"transferCount"`
	TransferTotal    string  `json:"transferTotal" doc:"Money moved by transfers"`
}

type SummaryOutput struct {
	Body SummaryResponse
}

type csvFileReader interface {
	GetCsvFile(ctx context.Context, id int64) (*service.CsvFile, error)
	ListCsvFiles(ctx context.Context) ([]service.CsvFile, error)
}

type csvFileSummarizer interface {
	SummarizeCsvFile(ctx context.Context, id int64) (*service.CsvFileSummary, error)
}

// ReadCsvFileHandler serves the read-only csv file endpoints.
type ReadCsvFileHandler struct {
	CsvFileService csvFileReader
	ImportService  csvFileSummarizer
}

func NewReadCsvFileHandler(files csvFileReader, summaries csvFileSummarizer) *ReadCsvFileHandler {
	return &ReadCsvFileHandler{CsvFileService: files, ImportService: summaries}
}

func (h *ReadCsvFileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-csvfile",
		Method:      http.MethodGet,
		Path:        "/v1/csvfile/{id}",
		Summary:     "Get a csv file",
		Tags:        []string{"CsvFiles"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "list-csvfiles",
		Method:      http.MethodGet,
		Path:        "/v1/csvfiles",
		Summary:     "List csv files",
		Tags:        []string{"CsvFiles"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "summarize-csvfile",
		Method:      http.MethodGet,
		Path:        "/v1/csvfile/{id}/summary",
		Summary:     "Summarize a csv file load",
		Description: "Counts and totals the ledger rows written by the file's loads.",
		Tags:        []string{"CsvFiles"},
	}, h.summary)
}

func (h *ReadCsvFileHandler) get(ctx context.Context, input *CsvFileIDInput) (*GetCsvFileOutput, error) {
	file, err := h.CsvFileService.GetCsvFile(ctx, input.ID)
	if err != nil {
		return nil, errorFor("failed to get csv file", err)
	}
	return &GetCsvFileOutput{Body: csvFileFromService(*file)}, nil
}

func (h *ReadCsvFileHandler) list(ctx context.Context, _ *struct{}) (*ListCsvFilesOutput, error) {
	files, err := h.CsvFileService.ListCsvFiles(ctx)
	if err != nil {
		return nil, errorFor("failed to list csv files", err)
	}

	out := &ListCsvFilesOutput{}
	out.Body.CsvFiles = make([]CsvFile, len(files))
	for i, f := range files {
		out.Body.CsvFiles[i] = csvFileFromService(f)
	}
	return out, nil
}

func (h *ReadCsvFileHandler) summary(ctx context.Context, input *CsvFileIDInput) (*SummaryOutput, error) {
	s, err := h.ImportService.SummarizeCsvFile(ctx, input.ID)
	if err != nil {
		return nil, errorFor("failed to summarize csv file", err)
	}

	logIDs := s.LogIDs
	if logIDs == nil {
		logIDs = []int64{}
	}
	return &SummaryOutput{Body: SummaryResponse{
		CsvFile:          csvFileFromService(s.CsvFile),
		LogIDs:           logIDs,
		TransactionCount: s.TransactionCount,
		Expenses:         s.Expenses.String(),
		Income:           s.Income.String(),
		Net:              s.Net.String(),
		TransferCount:    s.TransferCount,
		TransferTotal:    s.TransferTotal.String(),
	}}, nil
}
