// Package report renders cycle results for a terminal.
package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/fatih/color"

	"priceScope/internal/model"
	"priceScope/internal/oracle"
	"priceScope/internal/price"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	header      = "=== DEX Price Monitor ==="
)

// Console writes either one-shot price lines or the full watch block.
type Console struct {
	out   io.Writer
	watch bool
	up    *color.Color
	down  *color.Color
	muted *color.Color
	title *color.Color
}

// NewOnce renders `LABEL: $price` lines.
func NewOnce(out io.Writer, noColor bool) *Console {
	return newConsole(out, false, noColor)
}

// NewWatch clears the screen and renders the monitor block on every cycle.
func NewWatch(out io.Writer, noColor bool) *Console {
	return newConsole(out, true, noColor)
}

func newConsole(out io.Writer, watch, noColor bool) *Console {
	c := &Console{
		out:   out,
		watch: watch,
		up:    color.New(color.FgGreen),
		down:  color.New(color.FgRed),
		muted: color.New(color.Faint),
		title: color.New(color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.up, c.down, c.muted, c.title} {
			col.DisableColor()
		}
	}
	return c
}

// Report implements oracle.Reporter.
func (c *Console) Report(result oracle.CycleResult) error {
	var b strings.Builder
	if c.watch {
		c.writeWatch(&b, result)
	} else {
		for _, quote := range result.Quotes {
			b.WriteString(priceLine(quote))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) writeWatch(b *strings.Builder, result oracle.CycleResult) {
	b.WriteString(clearScreen)
	b.WriteString(c.title.Sprint(header))
	b.WriteString("\n\n")
	for _, quote := range result.Quotes {
		b.WriteString(priceLine(quote))
		b.WriteByte(' ')
		b.WriteString(c.changeText(quote.Change))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, quote := range result.Quotes {
		b.WriteString(c.muted.Sprint(StateLine(quote.Pool, quote.Sample.State)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	fmt.Fprintf(b, "Last update: %s\n", result.At.UTC().Format(time.DateTime+" MST"))
}

func priceLine(quote oracle.Quote) string {
	return fmt.Sprintf("%s: $%s", quote.Pool.Label, FormatPrice(quote.Sample.Value, quote.Pool.DisplayDecimals))
}

func (c *Console) changeText(change price.Change) string {
	switch change.Direction {
	case price.Up:
		return c.up.Sprintf("▲ +%s%%", change.Magnitude().StringFixed(2))
	case price.Down:
		return c.down.Sprintf("▼ -%s%%", change.Magnitude().StringFixed(2))
	case price.Unchanged:
		return "= 0.00%"
	default:
		return c.muted.Sprint("(" + change.Direction.String() + ")")
	}
}

// StateLine summarizes the raw pool read behind a sample.
func StateLine(pool model.PoolDescriptor, state model.PoolState) string {
	switch {
	case state.Slot0 != nil:
		sqrt := "0"
		if state.Slot0.SqrtPriceX96 != nil {
			sqrt = state.Slot0.SqrtPriceX96.String()
		}
		return fmt.Sprintf("%s tick: %d (sqrtPriceX96 %s)", pool.Label, state.Slot0.Tick, sqrt)
	case state.Reserves != nil:
		base, quote := state.Reserves.BaseQuote()
		return fmt.Sprintf("%s reserves: base %s / quote %s",
			pool.Label,
			formatTokenAmount(base, pool.BaseDecimals),
			formatTokenAmount(quote, pool.QuoteDecimals),
		)
	default:
		return pool.Label + ": no state"
	}
}

func formatTokenAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if sign < 0 {
		return "-" + text
	}
	return text
}
