package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/api"
	"github.com/99minutos/ims-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(rt *runtime) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console screens over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = rt.cfg.Port
			}
			e := api.NewRouter(api.Deps{
				Views:      rt.app.Views,
				Session:    rt.app.Session,
				Navigation: rt.app.Navigation,
				Checks:     rt.app.Checks,
				Logger:     logger.Component("http"),
			})

			errCh := make(chan error, 1)
			go func() {
				rt.log.Info().Str("addr", ":"+port).Str("route", rt.app.Navigation.Route()).Msg("console listening")
				errCh <- e.Start(":" + port)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			rt.log.Info().Msg("shutting down console")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT)")
	return cmd
}
