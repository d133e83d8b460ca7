// Command vncd runs a standalone RFB (VNC) framebuffer server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/algofoogle/vncd/internal/config"
	"github.com/algofoogle/vncd/internal/rfblog"
	"github.com/algofoogle/vncd/internal/rfbserver"
	"github.com/algofoogle/vncd/internal/wsbridge"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "vncd",
	Short: "A minimal RFB (VNC) framebuffer server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(config.Load(v))
	},
	SilenceUsage: true,
}

func init() {
	config.BindFlags(rootCmd.Flags(), v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	level := map[string]int{"debug": rfblog.DEBUG, "info": rfblog.INFO, "warn": rfblog.WARN, "error": rfblog.ERROR}[cfg.LogLevel]
	rfblog.AddLogger("stderr", os.Stderr, level)

	acceptor, err := rfbserver.Listen(cfg.ListenAddr, rfbserver.Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Name:          cfg.Name,
		RefreshPeriod: cfg.RefreshPeriod,
	})
	if err != nil {
		return err
	}
	defer acceptor.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- acceptor.Serve(ctx) }()
	rfblog.Info("vncd: listening for RFB clients on %s", acceptor.Addr())

	if cfg.WSBridgeAddr != "" {
		bridge := wsbridge.New(cfg.ListenAddr)
		server := &http.Server{Addr: cfg.WSBridgeAddr, Handler: bridge}
		go func() {
			rfblog.Info("vncd: listening for WebSocket-tunneled clients on %s", cfg.WSBridgeAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				rfblog.Error("vncd: wsbridge server failed: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			server.Close()
		}()
	}

	<-ctx.Done()
	return <-serveErr
}
