package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"priceScope/internal/model"
)

// FormatPrice rounds to places fractional digits, padding with zeros.
func FormatPrice(value decimal.Decimal, places int) string {
	if places < 0 {
		places = 0
	}
	return value.StringFixed(int32(places))
}

// PrintPoolInfo writes an inspect summary followed by a ready-to-paste pool
// entry.
func PrintPoolInfo(out io.Writer, info model.PoolInfo) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "address\t%s\n", info.Address)
	fmt.Fprintf(w, "model\t%s\n", info.Model)
	fmt.Fprintf(w, "token0\t%s (%s, %d decimals)\n", info.Token0.DisplaySymbol(), info.Token0.Address, info.Token0.Decimals)
	fmt.Fprintf(w, "token1\t%s (%s, %d decimals)\n", info.Token1.DisplaySymbol(), info.Token1.Address, info.Token1.Decimals)
	if info.Fee > 0 {
		fmt.Fprintf(w, "fee\t%d\n", info.Fee)
	}
	if info.State.Slot0 != nil {
		fmt.Fprintf(w, "tick\t%d\n", info.State.Slot0.Tick)
	}
	if r := info.State.Reserves; r != nil {
		fmt.Fprintf(w, "reserve0\t%s\n", formatTokenAmount(r.Reserve0, info.Token0.Decimals))
		fmt.Fprintf(w, "reserve1\t%s\n", formatTokenAmount(r.Reserve1, info.Token1.Decimals))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	desc := info.Descriptor("", info.Token0.DisplaySymbol())
	fmt.Fprintln(out, "\npools:")
	fmt.Fprintf(out, "  - label: %s\n", desc.Label)
	fmt.Fprintf(out, "    address: %q\n", desc.Address)
	fmt.Fprintf(out, "    model: %s\n", desc.Model)
	if desc.Model == model.ModelReserveRatio {
		fmt.Fprintf(out, "    base-asset: %q\n", desc.BaseAsset)
		fmt.Fprintf(out, "    base-decimals: %d\n", desc.BaseDecimals)
		fmt.Fprintf(out, "    quote-decimals: %d\n", desc.QuoteDecimals)
	} else {
		fmt.Fprintf(out, "    decimal-adjustment: %d\n", desc.DecimalAdjustment)
	}
	_, err := fmt.Fprintf(out, "    display-decimals: %d\n", desc.DisplayDecimals)
	return err
}
