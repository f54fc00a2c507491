package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"exchange-rates/pkg/exchangerate"
)

const usage = `usage: exchangerates <command> [flags]

commands:
  currencies                                  list currencies offered by the provider
  rate        -from -to[,to...] [-date]       exchange rate(s), latest when -date is empty
  convert     -value -from -to [-date]        convert value at the rate
  history     -from -to -start -end           daily rates in a date range
  conversions -value -from -to -start -end    convert value (minor units of -from) for each day
  serve                                       HTTP API on $PORT

add -watch to repeat a command on $CRON_SPEC`

// maxConcurrentRates bounds the fan-out of "rate -to A,B,C".
const maxConcurrentRates = 4

type command struct {
	name  string
	from  string
	to    string
	date  string
	start string
	end   string
	value int64
	watch bool
}

func parseCommand(name string, args []string) (command, error) {
	switch name {
	case "currencies", "rate", "convert", "history", "conversions":
	default:
		return command{}, fmt.Errorf("unknown command %q\n\n%s", name, usage)
	}

	c := command{name: name}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.from, "from", "EUR", "source currency")
	fs.StringVar(&c.to, "to", "", "target currency; rate accepts a comma separated list")
	fs.StringVar(&c.date, "date", "", "day as YYYY-MM-DD, latest when empty")
	fs.StringVar(&c.start, "start", "", "first day of the range")
	fs.StringVar(&c.end, "end", "", "last day of the range")
	fs.Int64Var(&c.value, "value", 0, "amount to convert")
	fs.BoolVar(&c.watch, "watch", false, "repeat on CRON_SPEC until interrupted")

	if err := fs.Parse(args); err != nil {
		return command{}, fmt.Errorf("%s: %w\n\n%s", name, err, usage)
	}
	if name != "currencies" && strings.TrimSpace(c.to) == "" {
		return command{}, fmt.Errorf("%s: -to is required", name)
	}
	return c, nil
}

func (c command) run(ctx context.Context, client *exchangerate.Client, out io.Writer) error {
	switch c.name {
	case "currencies":
		codes, err := client.Currencies(ctx, nil)
		if err != nil {
			return err
		}
		for _, code := range codes {
			fmt.Fprintln(out, code)
		}
		return nil

	case "rate":
		return c.rates(ctx, client, out)

	case "convert":
		date, err := c.optionalDate()
		if err != nil {
			return err
		}
		result, err := client.Convert(ctx, c.value, c.from, c.to, date)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d %s = %s %s\n", c.value, upper(c.from), strconv.FormatFloat(result, 'f', -1, 64), upper(c.to))
		return nil

	case "history":
		start, end, err := c.dateRange()
		if err != nil {
			return err
		}
		series, err := client.ExchangeRateBetweenDateRange(ctx, c.from, c.to, start, end, nil)
		if err != nil {
			return err
		}
		for _, r := range series {
			fmt.Fprintf(out, "%s\t%s\n", r.Date, r.Rate)
		}
		return nil

	case "conversions":
		start, end, err := c.dateRange()
		if err != nil {
			return err
		}
		series, err := client.ConvertBetweenDateRange(ctx, c.value, c.from, c.to, start, end, nil)
		if err != nil {
			return err
		}
		for _, a := range series {
			fmt.Fprintf(out, "%s\t%s\n", a.Date, a.Amount)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", c.name)
}

// rates looks up every -to target concurrently and prints them in argument order.
func (c command) rates(ctx context.Context, client *exchangerate.Client, out io.Writer) error {
	date, err := c.optionalDate()
	if err != nil {
		return err
	}

	targets := strings.Split(c.to, ",")
	results := make([]decimal.Decimal, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRates)
	for i, target := range targets {
		i, target := i, target
		target = strings.TrimSpace(target)
		targets[i] = target
		g.Go(func() error {
			rate, err := client.ExchangeRate(gctx, c.from, target, date)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", upper(c.from), upper(target), err)
			}
			results[i] = rate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, target := range targets {
		fmt.Fprintf(out, "%s/%s\t%s\n", upper(c.from), upper(target), results[i])
	}
	return nil
}

func (c command) optionalDate() (*exchangerate.Date, error) {
	if strings.TrimSpace(c.date) == "" {
		return nil, nil
	}
	d, err := exchangerate.ParseDate(c.date)
	if err != nil {
		return nil, fmt.Errorf("-date: %w", err)
	}
	return &d, nil
}

func (c command) dateRange() (exchangerate.Date, exchangerate.Date, error) {
	start, err := exchangerate.ParseDate(c.start)
	if err != nil {
		return exchangerate.Date{}, exchangerate.Date{}, fmt.Errorf("-start: %w", err)
	}
	end, err := exchangerate.ParseDate(c.end)
	if err != nil {
		return exchangerate.Date{}, exchangerate.Date{}, fmt.Errorf("-end: %w", err)
	}
	return start, end, nil
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
