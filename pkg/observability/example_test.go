package observability_test

import (
	"io"
	"net/http/httptest"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidechart/internal/server"
	"github.com/matzehuels/slidechart/pkg/config"
	"github.com/matzehuels/slidechart/pkg/observability"
	"github.com/matzehuels/slidechart/pkg/pipeline"
)

func Example() {
	logger := log.New(io.Discard)
	hooks := observability.NewLogHooks(logger)
	runner := pipeline.NewRunner(logger, hooks)

	cfg := config.Default()
	srv := server.New(runner, &cfg, logger, hooks)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
}
