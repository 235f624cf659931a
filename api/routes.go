package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-import/internal/handlers/v1/csvfile"
	"github.com/carson-networks/ledger-import/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-import/internal/logging"
	"github.com/carson-networks/ledger-import/internal/metrics"
	"github.com/carson-networks/ledger-import/internal/service"
	"github.com/carson-networks/ledger-import/internal/storage"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Service *service.Service
	Metrics *metrics.Metrics
}

// Routes builds the mux serving the whole HTTP surface.
func (r *Rest) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage.DB)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))
	mux.Handle("/metrics", r.Metrics.Handler())

	api := humago.New(mux, huma.DefaultConfig("Ledger Import API", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	csvfile.NewRegisterCsvFileHandler(r.Service.CsvFile).Register(api)
	csvfile.NewLoadCsvFileHandler(r.Service.Import).Register(api)
	csvfile.NewRollbackCsvFileHandler(r.Service.Import).Register(api)
	csvfile.NewReadCsvFileHandler(r.Service.CsvFile, r.Service.Import).Register(api)

	return mux
}

func (r *Rest) Serve() {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(5) * time.Minute,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
