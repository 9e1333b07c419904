package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/kimahnho/worksheet/editor-go/internal/asset"
	"github.com/kimahnho/worksheet/editor-go/internal/collab"
	"github.com/kimahnho/worksheet/editor-go/internal/config"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	mw "github.com/kimahnho/worksheet/editor-go/internal/middleware"
	"github.com/kimahnho/worksheet/editor-go/internal/project"
	"github.com/kimahnho/worksheet/editor-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	editorCfg, err := config.LoadEditor(cfg.EditorConfig)
	if err != nil {
		slog.Error("load editor config", "error", err)
		os.Exit(1)
	}
	defaults := document.PageDefaults{
		Width:      editorCfg.PageWidth,
		Height:     editorCfg.PageHeight,
		Background: editorCfg.PageBackground,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	hub := collab.NewHub(st, cfg.Autosave, defaults)
	go hub.Run()

	projectHandler := project.NewHandler(project.NewService(st, hub, defaults))
	assetHandler := asset.NewHandler(cfg.AssetDir)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{assetId}", assetHandler.Remove).Methods("DELETE")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}/snapshots/latest", projectHandler.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/projects/{projectId}/snapshots", projectHandler.SaveSnapshot).Methods("POST")

	r.Handle("/ws/project/{projectId}", collab.NewHandler(hub, cfg.OriginHosts()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty documents
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
