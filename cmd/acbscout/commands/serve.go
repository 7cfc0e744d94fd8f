package commands

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fortuna/acbscout/internal/api/web"
	"github.com/fortuna/acbscout/internal/api/websocket"
	"github.com/fortuna/acbscout/internal/publisher"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default HTTP_ADDR).")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--addr host:port]",
	Short: "Serves the player dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		handler, err := web.NewHandler(a.store, a.logger)
		if err != nil {
			return errors.Wrap(err, "build dashboard")
		}

		hub := websocket.NewHub(a.logger)
		srv := web.NewServer(addr, handler, websocket.Handler(hub, a.logger), a.logger)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		if a.redis != nil {
			sub := publisher.NewSubscriber(a.redis.Client(), 5*time.Second, a.logger)
			g.Go(func() error {
				if err := websocket.Bridge(gctx, sub, hub, a.logger); err != nil && gctx.Err() == nil {
					a.logger.Error("snapshot bridge stopped", zap.Error(err))
				}
				return nil
			})
		}
		g.Go(func() error {
			return srv.Start()
		})
		g.Go(func() error {
			<-gctx.Done()
			a.logger.Info("shutting down dashboard")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			a.logger.Error("dashboard stopped", zap.Error(err))
		}
		return nil
	},
}
