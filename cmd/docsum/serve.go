package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docsum/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload page, JSON API and websocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(false)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := web.NewServer(web.Config{
			Addr:           addr,
			MaxUploadBytes: a.cfg.MaxFileBytes(),
			ReadTimeout:    time.Duration(a.cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout:   time.Duration(a.cfg.Server.WriteTimeoutSecs) * time.Second,
			AllowedOrigins: a.cfg.Server.AllowedOrigins,
		}, a.service, a.log.WithField("component", "web"))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to server.addr from the config)")
	rootCmd.AddCommand(serveCmd)
}
