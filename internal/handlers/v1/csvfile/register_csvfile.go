package csvfile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-import/internal/logging"
)

// RegisterCsvFileBody is the request body for registering a csv file.
type RegisterCsvFileBody struct {
	Filename  string `json:"filename" minLength:"1" doc:"File name, relative to the csv root or absolute"`
	AgentName string `json:"agentName,omitempty" doc:"Producer of the file"`
	OrgName   string `json:"orgName,omitempty" doc:"Organisation the statement came from"`
}

// RegisterCsvFileInput is the Huma input for registering a csv file.
type RegisterCsvFileInput struct {
	Body RegisterCsvFileBody
}

// RegisterCsvFileResponse is the response body for registering a csv file.
type RegisterCsvFileResponse struct {
	ID       int64 `json:"id" doc:"Csv file id"`
	Existing bool  `json:"existing" doc:"True when an unloaded registration was reused"`
}

// RegisterCsvFileOutput is the Huma output for registering a csv file.
type RegisterCsvFileOutput struct {
	Status int
	Body   RegisterCsvFileResponse
}

type csvFileRegistrar interface {
	RegisterCsvFile(ctx context.Context, filename string, agentName string, orgName string) (int64, bool, error)
}

// RegisterCsvFileHandler handles POST /v1/csvfile.
type RegisterCsvFileHandler struct {
	CsvFileService csvFileRegistrar
}

func NewRegisterCsvFileHandler(svc csvFileRegistrar) *RegisterCsvFileHandler {
	return &RegisterCsvFileHandler{CsvFileService: svc}
}

// Register registers the endpoint with the Huma API.
func (h *RegisterCsvFileHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "register-csvfile",
		Method:      http.MethodPost,
		Path:        "/v1/csvfile",
		Summary:     "Register a csv file",
		Description: "Registers a csv file so it can be loaded. Re-registering an unloaded file returns its id; a loaded file is refused.",
		Tags:        []string{"CsvFiles"},
	}, h.handle)
}

func (h *RegisterCsvFileHandler) handle(ctx context.Context, input *RegisterCsvFileInput) (*RegisterCsvFileOutput, error) {
	id, existing, err := h.CsvFileService.RegisterCsvFile(ctx, input.Body.Filename, input.Body.AgentName, input.Body.OrgName)
	if err != nil {
		return nil, errorFor("failed to register csv file", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("csvFileID", id)
		logData.AddData("existing", existing)
	}

	status := http.StatusCreated
	if existing {
		status = http.StatusOK
	}
	return &RegisterCsvFileOutput{
		Status: status,
		Body:   RegisterCsvFileResponse{ID: id, Existing: existing},
	}, nil
}
