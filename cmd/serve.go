package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/checkout"
	"github.com/Alturino/florist/internal/common/constants"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/server"
)

// logNavigator is used by the return server, which never redirects on its
// own behalf.
func logNavigator(cfg *config.Config) checkout.Navigator {
	return checkout.NavigatorFunc(func(c context.Context, target string) error {
		zerolog.Ctx(c).Info().Str(log.KeyNavigationTarget, target).Msg("navigation requested")
		return nil
	})
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the payment provider return endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyAppName, constants.AppReturnServer).
				Str(log.KeyTag, "main runServe").
				Logger()
			c = logger.WithContext(c)

			a, err := newApp(c, configName, logNavigator)
			if err != nil {
				return err
			}
			defer a.Close(c)

			logger.Info().Str("env", a.cfg.Env).Msg("starting return server")
			return server.Run(c, a.cfg.Application, server.NewRouter(a.flow))
		},
	}
}
