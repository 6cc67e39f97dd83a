package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/cache"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

type Globals struct {
	BackendURL string        `name:"backend-url" env:"BACKEND_URL" default:"http://localhost:5000" help:"Analytics backend base URL."`
	Token      string        `env:"PLUNGE_TOKEN" help:"Bearer token from 'plungectl login'."`
	Timeout    time.Duration `default:"15s" help:"Backend request timeout."`

	out io.Writer
}

type cli struct {
	Globals

	Login     loginCmd     `cmd:"" help:"Log in and print a bearer token."`
	Report    reportCmd    `cmd:"" help:"Print the daily performance series and summary for a date range."`
	Insights  insightsCmd  `cmd:"" help:"Print the insights for a date range."`
	Sources   sourcesCmd   `cmd:"" help:"Manage connected data sources."`
	Providers providersCmd `cmd:"" help:"List the providers with a connect wizard."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("plungectl"),
		kong.Description("Command line access to the Data Plunge analytics backend."),
		kong.UsageOnError(),
	)
	app.Globals.out = os.Stdout
	err := ctx.Run(&app.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) client() (*backend.Client, error) {
	c, err := backend.New(backend.Config{BaseURL: g.BackendURL, Timeout: g.Timeout})
	if err != nil {
		return nil, fmt.Errorf("plungectl: %w", err)
	}
	return c.WithToken(g.Token), nil
}

func (g *Globals) authed() (*backend.Client, error) {
	if g.Token == "" {
		return nil, fmt.Errorf("plungectl: no token, run 'plungectl login' and export PLUNGE_TOKEN")
	}
	return g.client()
}

// RangeFlags defaults to the current month like the dashboard does.
type RangeFlags struct {
	Start string `help:"First day (YYYY-MM-DD)."`
	End   string `help:"Last day (YYYY-MM-DD)."`
}

func (f RangeFlags) resolve(now time.Time) (daterange.Range, error) {
	if f.Start == "" && f.End == "" {
		return daterange.DefaultFor(now), nil
	}
	return daterange.Parse(f.Start, f.End)
}

type loginCmd struct {
	Email    string `required:"" help:"Account email."`
	Password string `required:"" help:"Account password."`
}

func (cmd *loginCmd) Run(g *Globals) error {
	client, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	res, err := client.Login(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("plungectl: login: %w", err)
	}
	fmt.Fprintf(g.out, "export PLUNGE_TOKEN=%s\n", res.Token)
	return nil
}

type reportCmd struct {
	RangeFlags
	Format string `enum:"table,json,yaml" default:"table" help:"Output format (table, json, yaml)."`
}

type reportDay struct {
	Date        string  `json:"date" yaml:"date"`
	Costs       float64 `json:"costs" yaml:"costs"`
	Impressions int64   `json:"impressions" yaml:"impressions"`
	Clicks      int64   `json:"clicks" yaml:"clicks"`
	Sessions    int64   `json:"sessions" yaml:"sessions"`
	Conversions int64   `json:"conversions" yaml:"conversions"`
}

type reportSummary struct {
	Costs             float64 `json:"costs" yaml:"costs"`
	Sessions          int64   `json:"sessions" yaml:"sessions"`
	Conversions       int64   `json:"conversions" yaml:"conversions"`
	CostPerConversion float64 `json:"cost_per_conversion" yaml:"cost_per_conversion"`
	Impressions       int64   `json:"impressions" yaml:"impressions"`
	Clicks            int64   `json:"clicks" yaml:"clicks"`
	CostPerClick      float64 `json:"cost_per_click" yaml:"cost_per_click"`
}

type report struct {
	Start   string        `json:"start" yaml:"start"`
	End     string        `json:"end" yaml:"end"`
	Days    []reportDay   `json:"days" yaml:"days"`
	Summary reportSummary `json:"summary" yaml:"summary"`
}

func newReport(r daterange.Range, days []aggregate.DayRow) report {
	rep := report{Start: r.StartString(), End: r.EndString(), Days: make([]reportDay, 0, len(days))}
	for _, d := range days {
		rep.Days = append(rep.Days, reportDay{
			Date:        d.Day(),
			Costs:       aggregate.Round2(d.Costs),
			Impressions: d.Impressions,
			Clicks:      d.Clicks,
			Sessions:    d.Sessions,
			Conversions: d.Conversions,
		})
	}
	t := aggregate.Sum(days)
	rep.Summary = reportSummary{
		Costs:             aggregate.Round2(t.Costs),
		Sessions:          t.Sessions,
		Conversions:       t.Conversions,
		CostPerConversion: aggregate.Round2(t.CostPerConversion()),
		Impressions:       t.Impressions,
		Clicks:            t.Clicks,
		CostPerClick:      aggregate.Round2(t.CostPerClick()),
	}
	return rep
}

func (cmd *reportCmd) Run(g *Globals) error {
	r, err := cmd.resolve(time.Now())
	if err != nil {
		return err
	}
	client, err := g.authed()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	rows, err := client.FilterPerformance(ctx, r)
	if err != nil {
		return fmt.Errorf("plungectl: performance: %w", err)
	}
	days, err := aggregate.Daily(rows, r)
	if err != nil {
		return err
	}
	return writeReport(g.out, cmd.Format, newReport(r, days))
}

func writeReport(w io.Writer, format string, rep report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rep)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tCosts\tImpressions\tClicks\tSessions\tConversions\t")
	for _, d := range rep.Days {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			d.Date, viewmodel.Decimal(d.Costs), viewmodel.Number(d.Impressions),
			viewmodel.Number(d.Clicks), viewmodel.Number(d.Sessions), viewmodel.Number(d.Conversions))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := rep.Summary
	fmt.Fprintf(w, "\n%s to %s\n", rep.Start, rep.End)
	fmt.Fprintf(w, "Costs: %s  Conversions: %s  Cost/Conv: %s  Clicks: %s  CPC: %s\n",
		viewmodel.Money(s.Costs), viewmodel.Number(s.Conversions), viewmodel.Money(s.CostPerConversion),
		viewmodel.Number(s.Clicks), viewmodel.Money(s.CostPerClick))
	return nil
}

type insightsCmd struct {
	RangeFlags
}

func (cmd *insightsCmd) Run(g *Globals) error {
	r, err := cmd.resolve(time.Now())
	if err != nil {
		return err
	}
	client, err := g.authed()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	items, err := client.Insights(ctx, r)
	if err != nil {
		return fmt.Errorf("plungectl: insights: %w", err)
	}
	msgs := insights.NewService(cache.NewMemoryStore(), 0).Clean(items)
	if len(msgs) == 0 {
		fmt.Fprintln(g.out, insights.MsgEmpty)
		return nil
	}
	for i, m := range msgs {
		fmt.Fprintf(g.out, "%d. %s\n", i+1, m)
	}
	return nil
}

type sourcesCmd struct {
	List   sourcesListCmd   `cmd:"" default:"1" help:"List connected data sources."`
	Delete sourcesDeleteCmd `cmd:"" help:"Disconnect a data source."`
}

type sourcesListCmd struct{}

func (cmd *sourcesListCmd) Run(g *Globals) error {
	client, err := g.authed()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	sources, err := client.DataSources(ctx)
	if err != nil {
		return fmt.Errorf("plungectl: data sources: %w", err)
	}
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSTATUS\tCONNECTED\tLAST SYNC")
	for _, s := range sources {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.SourceName, s.NormalizedStatus(),
			viewmodel.Timestamp(s.CreatedAt), viewmodel.Timestamp(s.LastSync))
	}
	return tw.Flush()
}

type sourcesDeleteCmd struct {
	ID int64 `arg:"" help:"Data source id."`
}

func (cmd *sourcesDeleteCmd) Run(g *Globals) error {
	client, err := g.authed()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	if err := client.DeleteDataSource(ctx, cmd.ID); err != nil {
		return fmt.Errorf("plungectl: delete %d: %w", cmd.ID, err)
	}
	fmt.Fprintf(g.out, "✓ Disconnected data source %d\n", cmd.ID)
	return nil
}

type providersCmd struct{}

func (cmd *providersCmd) Run(g *Globals) error {
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSELECTION\tCONNECT")
	for _, p := range connector.Default().Providers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Selection, p.ConnectPath())
	}
	return tw.Flush()
}
