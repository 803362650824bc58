package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/lychee-technology/reaper"
	"go.uber.org/zap"
)

// Server represents the HTTP server exposing the synthesis engine.
type Server struct {
	cfg *reaper.SynthesisConfig
	mux *http.ServeMux
}

// NewServer creates a new Server instance.
func NewServer(cfg *reaper.SynthesisConfig) *Server {
	return &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/synth", s.handleSynth)
}

// Start starts the HTTP server on the given port.
func (s *Server) Start(port string) error {
	zap.S().Infow("starting server", "port", port)
	return http.ListenAndServe(":"+port, s.mux)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	cfg := reaper.DefaultSynthesisConfig()
	if d := getEnvInt("SKELETON_DEPTH", 0); d > 0 {
		cfg.SkeletonDepth = d
	}
	if d := getEnvInt("PREDICATE_DEPTH", 0); d > 0 {
		cfg.PredicateDepth = d
		cfg.MaxPredicateDepth = d
	}
	if t := getEnvInt("SYNTHESIS_TIMEOUT_SECONDS", 0); t > 0 {
		cfg.Timeout = time.Duration(t) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		sugar.Fatalf("invalid synthesis config: %v", err)
	}

	server := NewServer(cfg)
	server.RegisterRoutes()

	port := getEnv("PORT", "8080")
	if err := server.Start(port); err != nil {
		sugar.Fatalf("server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
