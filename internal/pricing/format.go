package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	vietnamese = message.NewPrinter(language.Vietnamese)
	english    = message.NewPrinter(language.AmericanEnglish)
)

// FormatVND renders amount as whole dong, e.g. "150.000 ₫".
func FormatVND(amount decimal.Decimal) string {
	return vietnamese.Sprintf("%d ₫", amount.Round(0).IntPart())
}

// FormatUSD renders amount with cents, e.g. "$1,250.50". Rounding happens on
// the decimal; only the whole dollars go through the printer for grouping.
func FormatUSD(amount decimal.Decimal) string {
	fixed := amount.Round(2)
	sign := ""
	if fixed.IsNegative() {
		sign = "-"
		fixed = fixed.Abs()
	}
	dollars, cents, _ := strings.Cut(fixed.StringFixed(2), ".")
	whole, err := strconv.ParseInt(dollars, 10, 64)
	if err != nil {
		return sign + "$" + dollars + "." + cents
	}
	return sign + english.Sprintf("$%d.", whole) + cents
}

// FormatMoney picks the rendering for a currency code; unknown codes fall
// back to the plain decimal followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	switch currency {
	case "VND":
		return FormatVND(amount)
	case "USD":
		return FormatUSD(amount)
	default:
		return amount.StringFixed(2) + " " + currency
	}
}

// Badge describes the adjustment of a quote, "-25%" for a discount and
// "+10%" for a surcharge. It is empty when nothing applies.
func (q Quote) Badge() string {
	if !q.Resolved() || q.DiscountPercentage.IsZero() {
		return ""
	}
	pct := q.DiscountPercentage.Abs().Round(0).String() + "%"
	switch {
	case q.HasDiscount:
		return "-" + pct
	case q.HasSurcharge:
		return "+" + pct
	default:
		return ""
	}
}
