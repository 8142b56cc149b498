package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/common/constants"
	"github.com/Alturino/florist/internal/log"
)

const (
	envLogFile = "FLORIST_APPLICATION_LOG_FILE"
	envAppEnv  = "FLORIST_APPLICATION_ENV"
)

var configName string

func Start() {
	logger := log.InitLogger(os.Getenv(envLogFile), os.Getenv(envAppEnv)).
		With().
		Str(log.KeyAppName, constants.AppName).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Flower shop storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().
		StringVar(&configName, "config", constants.AppName, "config file name under ./env without extension")
	rootCmd.AddCommand(
		newCartCommand(),
		newPriceCommand(),
		newCheckoutCommand(),
		newServeCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
