package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/common/constants"
	"github.com/Alturino/florist/internal/log"
)

func newPriceCommand() *cobra.Command {
	var at string
	priceCmd := &cobra.Command{
		Use:   "price <productId>",
		Short: "Show the dynamic price of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("failed parsing productId=%s with error=%w", args[0], err)
			}

			var requestTime *time.Time
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("failed parsing at=%s with error=%w", at, err)
				}
				requestTime = &t
			}

			c := cmd.Context()
			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyAppName, constants.AppPricing).
				Str(log.KeyTag, "main runPrice").
				Logger()
			c = logger.WithContext(c)

			a, err := newApp(c, configName, printNavigator(cmd))
			if err != nil {
				return err
			}
			defer a.Close(c)

			printQuote(cmd.OutOrStdout(), a.quoter.Quote(c, productID, requestTime))
			return nil
		},
	}
	priceCmd.Flags().StringVar(&at, "at", "", "evaluate the price at this RFC3339 time instead of now")
	return priceCmd
}
