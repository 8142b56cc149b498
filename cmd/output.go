package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/cart"
	"github.com/Alturino/florist/internal/checkout"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/pricing"
)

const currencyVND = "VND"

func printSnapshot(out io.Writer, snapshot cart.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE ITEM\tPRODUCT\tQTY\tUNIT PRICE\tADJ\tSUBTOTAL")
	for _, item := range snapshot.Items {
		badge := ""
		if item.Quote != nil {
			badge = item.Quote.Badge()
		}
		fmt.Fprintf(
			w,
			"%s\t%s\t%d\t%s\t%s\t%s\n",
			item.ID,
			item.Name,
			item.Quantity,
			pricing.FormatMoney(item.UnitPrice(), currencyVND),
			badge,
			pricing.FormatMoney(item.Subtotal, currencyVND),
		)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d item(s), total %s\n", snapshot.ItemCount, pricing.FormatMoney(snapshot.Total, currencyVND))
}

func printQuote(out io.Writer, quote pricing.Quote) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "product\t%s\n", quote.ProductID)
	if !quote.Resolved() {
		fmt.Fprintln(w, "price\tno dynamic price, base price applies")
		w.Flush()
		return
	}
	fmt.Fprintf(w, "base price\t%s\n", pricing.FormatMoney(quote.BasePrice, currencyVND))
	fmt.Fprintf(w, "dynamic price\t%s\n", pricing.FormatMoney(quote.DynamicPrice.Decimal, currencyVND))
	if badge := quote.Badge(); badge != "" {
		fmt.Fprintf(w, "adjustment\t%s\n", badge)
	}
	if quote.AppliedRule != "" {
		fmt.Fprintf(w, "rule\t%s\n", quote.AppliedRule)
	}
	w.Flush()
}

func printSession(out io.Writer, s *checkout.Session) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "session\t%s\n", s.ID)
	fmt.Fprintf(w, "step\t%s\n", s.Step)
	fmt.Fprintf(w, "payment method\t%s\n", s.Method)
	if s.Order != nil {
		fmt.Fprintf(w, "order\t%s\n", s.Order.ID)
		fmt.Fprintf(w, "amount\t%s\n", pricing.FormatMoney(s.Order.Sum, currencyVND))
	}
	if s.Payment != nil {
		fmt.Fprintf(w, "payment\t%s\n", s.Payment.PaymentID)
	}
	w.Flush()
}

// printNavigator shows navigation targets to the user instead of opening
// a browser.
func printNavigator(cmd *cobra.Command) func(cfg *config.Config) checkout.Navigator {
	return func(cfg *config.Config) checkout.Navigator {
		return checkout.NavigatorFunc(func(c context.Context, target string) error {
			if target == checkout.TargetCatalogHome {
				_, err := fmt.Fprintf(
					cmd.OutOrStdout(),
					"your cart is empty, continue shopping at %s%s\n",
					strings.TrimSuffix(cfg.Api.BaseURL, "/"),
					target,
				)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "open %s to pay\n", target)
			return err
		})
	}
}
