package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated CMDI records",
		Long: `Serves the output directory of generate over HTTP so the self links
written into the records (CMDI_RECORDS_BASE_URL) resolve.`,
		Example: `  # Serve ./cmdi on the default port 8888
  edm2cmdi serve --dir ./cmdi

  # Serve on a custom port
  edm2cmdi serve --dir ./cmdi --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mux := newRecordsMux(dir)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("CMDI records available", "dir", dir, "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&dir, "dir", "cmdi", "Directory with generated records")

	return cmd
}

func newRecordsMux(dir string) *http.ServeMux {
	mux := http.NewServeMux()
	files := http.FileServer(http.Dir(dir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".xml") {
			w.Header().Set("Content-Type", "application/x-cmdi+xml")
		}
		files.ServeHTTP(w, r)
	})
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}
