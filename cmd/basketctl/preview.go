package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"smallcase/internal/allocation"
)

type previewCmd struct {
	amount   string
	currency string
	raw      bool
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "preview the equal-weight allocation of a new basket" }
func (*previewCmd) Usage() string {
	return `preview -amount <amount> [-currency <code>] [-raw] SYMBOL=PRICE...

  Splits the amount equally across the listed instruments and buys whole shares.
  A symbol given without a price is counted but skipped, the same way the API
  treats instruments that have no price yet.

  Example:
    basketctl preview -amount 10000 RELIANCE.NS=2456.75 TCS.NS=3456.70 INFY.NS
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Investment amount (required)")
	f.StringVar(&c.currency, "currency", "INR", "Currency code used to display amounts")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it for the terminal")
}

func (c *previewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: -amount must be a number")
		return subcommands.ExitUsageError
	}

	quotes, err := parseQuotes(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	alloc, err := allocation.Allocate(quotes, amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	doc := previewMarkdown(alloc, amount, strings.ToUpper(c.currency))
	if err := render(os.Stdout, doc, c.raw); err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering preview:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseQuotes reads SYMBOL=PRICE arguments. A bare SYMBOL is unpriced.
func parseQuotes(args []string) ([]allocation.Quote, error) {
	quotes := make([]allocation.Quote, 0, len(args))
	for _, arg := range args {
		symbol, rawPrice, hasPrice := strings.Cut(arg, "=")
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			return nil, fmt.Errorf("invalid argument %q: expected SYMBOL=PRICE", arg)
		}
		q := allocation.Quote{Symbol: symbol}
		if hasPrice {
			price, err := decimal.NewFromString(rawPrice)
			if err != nil {
				return nil, fmt.Errorf("invalid price for %s: %q", symbol, rawPrice)
			}
			q.Price = decimal.NewNullDecimal(price)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// previewMarkdown lays the allocation out as a markdown document.
func previewMarkdown(alloc *allocation.Allocation, requested decimal.Decimal, currency string) string {
	var b strings.Builder
	invested := alloc.InvestmentAmount
	fmt.Fprintf(&b, "# Allocation preview\n\n")
	fmt.Fprintf(&b, "Requested **%s**, invested **%s**, uninvested **%s**.\n\n",
		formatAmount(requested, currency), formatAmount(invested, currency),
		formatAmount(requested.Sub(invested), currency))

	b.WriteString("| Symbol | Price | Quantity | Amount | Weight % |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, it := range alloc.Items {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			it.Symbol, formatAmount(it.PurchasePrice, currency), it.Quantity,
			formatAmount(it.AllocatedAmount, currency), it.WeightPercent.StringFixed(2))
	}

	if len(alloc.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped without a price: %s\n", strings.Join(alloc.Skipped, ", "))
	}
	return b.String()
}

func render(w io.Writer, doc string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, doc)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func formatAmount(amount decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).Round(0).IntPart())
}
