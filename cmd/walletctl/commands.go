package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"wallet/internal/amortization"
	"wallet/internal/client"
	"wallet/internal/ledger"
	"wallet/internal/money"
	"wallet/internal/period"
)

const (
	maxSummaryMonths = 24
	summaryFanOut    = 4
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parsePeriodFlag(value string) (period.Period, error) {
	p, err := period.Parse(value)
	if err != nil {
		return period.Period{}, fmt.Errorf("invalid period %q: %w", value, err)
	}
	return p, nil
}

// load fills feed with its first page, or every page when all is set.
func load(ctx context.Context, feed *ledger.Feed, all bool) error {
	for {
		if _, err := feed.FetchNext(ctx); err != nil {
			return err
		}
		if !all || !feed.HasMore() {
			return nil
		}
	}
}

func (a *app) entries(ctx context.Context, args []string) error {
	fs := newFlagSet("entries", a.out)
	periodFlag := fs.String("period", period.Current().String(), "period to list (YYYYMM)")
	all := fs.Bool("all", false, "fetch every page")
	perPage := fs.Int("per-page", ledger.DefaultPerPage, "entries per page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		return err
	}

	feed := ledger.NewFeed(a.client.PageFetcher(), p, ledger.WithPerPage(*perPage))
	if err := load(ctx, feed, *all); err != nil {
		return err
	}

	printBuckets(a.out, p, feed.Buckets())
	if feed.HasMore() {
		_, _ = fmt.Fprintln(a.out, "more entries available, pass -all to list them")
	}
	return nil
}

func printBuckets(out io.Writer, p period.Period, buckets ledger.Buckets) {
	_, _ = fmt.Fprintln(out, p.Label())
	if len(buckets) == 0 {
		_, _ = fmt.Fprintln(out, "no entries")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, b := range buckets {
		_, _ = fmt.Fprintf(w, "%s\t\t%s\t\n", b.Date, b.Total().Format())
		for _, e := range b.Entries {
			category := e.CategoryName
			if category == "" {
				category = "-"
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t\n", e.Name, category, e.Amount.Format())
		}
	}
	_ = w.Flush()
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", a.out)
	periodFlag := fs.String("period", period.Current().String(), "period the transaction appears in (YYYYMM)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: walletctl delete [-period YYYYMM] <transaction-id>")
	}
	transactionID := fs.Arg(0)
	p, err := parsePeriodFlag(*periodFlag)
	if err != nil {
		return err
	}

	feed := ledger.NewFeed(a.client.PageFetcher(), p)
	if err := load(ctx, feed, true); err != nil {
		return err
	}

	del := a.client.Deleter()
	coord := ledger.NewDeleteCoordinator(feed.Aggregator(), del, logObserver{log: a.log})
	pending := coord.Begin(transactionID)
	if err := pending.Resolve(del(ctx, transactionID)); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(a.out, "deleted %s, %d entries removed from %s\n", transactionID, pending.Removed(), p.Display())
	printBuckets(a.out, p, feed.Buckets())
	return nil
}

func (a *app) simulate(args []string) error {
	fs := newFlagSet("simulate", a.out)
	amount := fs.String("amount", "", "total amount, e.g. 1200.00")
	count := fs.Int("count", 12, "number of installments")
	start := fs.String("start", time.Now().Format(time.DateOnly), "first installment date (YYYY-MM-DD)")
	name := fs.String("name", "Purchase", "plan name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	total, err := money.Parse(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}
	startDate, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", *start, err)
	}

	items, err := amortization.Compute(total, *count, startDate, *name)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tDATE\tPERIOD\tNAME\tAMOUNT")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", it.Index, it.Date.Format(time.DateOnly), it.Period.Display(), it.Name, it.Amount.Format())
	}
	_, _ = fmt.Fprintf(w, "\t\t\tTOTAL\t%s\n", amortization.Total(items).Format())
	return w.Flush()
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := newFlagSet("summary", a.out)
	from := fs.String("from", period.Current().String(), "first period (YYYYMM)")
	months := fs.Int("months", 3, "number of periods")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *months < 1 || *months > maxSummaryMonths {
		return fmt.Errorf("months must be between 1 and %d", maxSummaryMonths)
	}
	first, err := parsePeriodFlag(*from)
	if err != nil {
		return err
	}

	results := make([]*client.Summary, *months)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryFanOut)
	for i := range results {
		p := first.AddMonths(i)
		g.Go(func() error {
			s, err := a.client.Summary(gctx, p)
			if err != nil {
				return fmt.Errorf("summary %s: %w", p, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var income, expenses money.Cents
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSES\tBALANCE\tENTRIES")
	for i, s := range results {
		income += s.Income
		expenses += s.Expenses
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", first.AddMonths(i).Display(), s.Income.Format(), s.Expenses.Format(), s.Balance.Format(), s.Count)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t%s\t%s\t%s\t\n", income.Format(), expenses.Format(), (income - expenses).Format())
	return w.Flush()
}
