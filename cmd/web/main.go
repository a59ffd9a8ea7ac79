package main

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reaction/internal/config"
	"github.com/tomz197/reaction/internal/leaderboard"
	"github.com/tomz197/reaction/internal/logging"
	"github.com/tomz197/reaction/internal/storage/sqlite"
)

//go:embed index.html
var htmlPage string

func main() {
	var cfg config.Web
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Logging.Level, "web")

	var scorer leaderboard.TopScorer
	// The web server only reads scores; a missing database just means an empty board.
	if _, statErr := os.Stat(cfg.DBPath); statErr == nil {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("best score database unavailable", "path", cfg.DBPath, "err", err)
		} else {
			defer store.Close()
			scorer = store
		}
	}
	src := leaderboard.Select(cfg.Leaderboard.URL, cfg.Leaderboard.File, scorer)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg.SSHDisplayHost, src, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

// newHandler serves the landing page and the leaderboard feed.
func newHandler(sshHost string, src leaderboard.Source, logger *log.Logger) http.Handler {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("GET /leaderboard.json", leaderboard.Handler(src, logger))
	return mux
}
