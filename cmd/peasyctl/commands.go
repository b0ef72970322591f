package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/version"
)

// stdout is where command results are printed; tests capture it.
var stdout io.Writer = os.Stdout

var commands = []subcommands.Command{
	&migrateCmd{},
	&snapshotCmd{},
	&snapshotMonthCmd{},
	&refreshTickersCmd{},
	&versionCmd{},
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `peasyctl migrate

  Applies every pending migration to DB_PATH and prints the schema version.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	fmt.Fprintf(stdout, "schema version %d\n", a.schema)
	return subcommands.ExitSuccess
}

type snapshotCmd struct {
	date string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "write the portfolio history for one day" }
func (*snapshotCmd) Usage() string {
	return `peasyctl snapshot [-date YYYY-MM-DD]

  Values every user's portfolio on the date (yesterday by default) and stores it.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "day to snapshot (defaults to yesterday)")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := request.ParseOptionalDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	users, err := a.snapshots.RunDailySnapshot(ctx, date)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%d users written\n", users)
	return subcommands.ExitSuccess
}

type snapshotMonthCmd struct {
	year  int
	month int
}

func (*snapshotMonthCmd) Name() string     { return "snapshot-month" }
func (*snapshotMonthCmd) Synopsis() string { return "write the portfolio history for every past day of a month" }
func (*snapshotMonthCmd) Usage() string {
	return `peasyctl snapshot-month -year YYYY -month M

  Snapshots each day of the month up to yesterday.
`
}

func (c *snapshotMonthCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "year")
	f.IntVar(&c.month, "month", 0, "month, 1 to 12")
}

func (c *snapshotMonthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.year == 0 || c.month < 1 || c.month > 12 {
		fmt.Fprintln(os.Stderr, "Error: -year and -month (1-12) are required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	counts, err := a.snapshots.RunMonthlySnapshot(ctx, c.year, time.Month(c.month))
	if err != nil {
		return fail(err)
	}
	for _, count := range counts {
		fmt.Fprintf(stdout, "%s %d\n", count.Date.Format("2006-01-02"), count.Users)
	}
	return subcommands.ExitSuccess
}

type refreshTickersCmd struct{}

func (*refreshTickersCmd) Name() string     { return "refresh-tickers" }
func (*refreshTickersCmd) Synopsis() string { return "refresh the display name of every traded ticker" }
func (*refreshTickersCmd) Usage() string {
	return `peasyctl refresh-tickers
`
}
func (*refreshTickersCmd) SetFlags(*flag.FlagSet) {}

func (*refreshTickersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	updated, err := a.tickers.RefreshTickers(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%d tickers updated\n", updated)
	return subcommands.ExitSuccess
}

type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print the application version" }
func (*versionCmd) Usage() string          { return "peasyctl version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintln(stdout, version.Version)
	return subcommands.ExitSuccess
}
