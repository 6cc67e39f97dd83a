package controllers

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

// GET /channels
func HandleChannels(c *fiber.Ctx) error {
	r := ranges().Load(c)
	vm := viewmodel.Channels{Layout: layout(c, "Channels", "channels")}
	client := api(c)

	rows, stale, err := tagged(c, r, func(ctx context.Context) ([]backend.ChannelRow, error) {
		return client.AggregatedPerformance(ctx, r)
	})
	if stale {
		return c.Redirect(c.OriginalURL(), fiber.StatusSeeOther)
	}
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[Reports] channels for %s: %v", r, err)
		showError(&vm.Layout, "load channel performance", err)
		rows = nil
	}

	vm.Rows = rows
	vm.Total = aggregate.ChannelTotals(rows)
	return c.Render("channels", vm, mainLayout)
}

// GET /campaigns?q=
func HandleCampaigns(c *fiber.Ctx) error {
	r := ranges().Load(c)
	query := strings.TrimSpace(c.Query("q"))
	vm := viewmodel.Campaigns{Layout: layout(c, "Campaigns", "campaigns"), Query: query}
	client := api(c)

	rows, stale, err := tagged(c, r, func(ctx context.Context) ([]backend.CampaignRow, error) {
		return client.Campaigns(ctx, r)
	})
	if stale {
		return c.Redirect(c.OriginalURL(), fiber.StatusSeeOther)
	}
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[Reports] campaigns for %s: %v", r, err)
		showError(&vm.Layout, "load campaigns", err)
		rows = nil
	}

	vm.Unfiltered = len(rows)
	vm.Rows = aggregate.FilterCampaigns(rows, query)
	vm.Total = aggregate.CampaignTotals(vm.Rows)
	return c.Render("campaigns", vm, mainLayout)
}

// GET /channels/export.csv
func HandleChannelsExport(c *fiber.Ctx) error {
	r := ranges().Load(c)
	rows, err := api(c).AggregatedPerformance(c.UserContext(), r)
	if err != nil {
		return exportFailed(c, "/channels", err)
	}

	total := aggregate.ChannelTotals(rows)
	records := [][]string{{"Source", "Costs", "Impressions", "Clicks", "CPC", "Sessions", "Conversions", "Cost/Conv"}}
	for _, row := range rows {
		records = append(records, []string{
			row.Source,
			money(float64(row.Costs)),
			count(int64(row.Impressions)),
			count(int64(row.Clicks)),
			money(float64(row.CostPerClick)),
			count(int64(row.Sessions)),
			count(int64(row.Conversions)),
			money(float64(row.CostPerConversion)),
		})
	}
	records = append(records, totalRecord("Total", 0, total))
	return writeCSV(c, "channels", r, records)
}

// GET /campaigns/export.csv?q=
func HandleCampaignsExport(c *fiber.Ctx) error {
	r := ranges().Load(c)
	rows, err := api(c).Campaigns(c.UserContext(), r)
	if err != nil {
		return exportFailed(c, "/campaigns", err)
	}

	rows = aggregate.FilterCampaigns(rows, strings.TrimSpace(c.Query("q")))
	total := aggregate.CampaignTotals(rows)
	records := [][]string{{"Traffic source", "Campaign", "Costs", "Impressions", "Clicks", "CPC", "Sessions", "Conversions", "Cost/Conv"}}
	for _, row := range rows {
		records = append(records, []string{
			row.TrafficSource,
			row.CampaignName,
			money(float64(row.Costs)),
			count(int64(row.Impressions)),
			count(int64(row.Clicks)),
			money(float64(row.CostPerClick)),
			count(int64(row.Sessions)),
			count(int64(row.Conversions)),
			money(float64(row.CostPerConversion)),
		})
	}
	records = append(records, totalRecord("Total", 1, total))
	return writeCSV(c, "campaigns", r, records)
}

func exportFailed(c *fiber.Ctx, page string, err error) error {
	if unauthorized(err) {
		return middleware.HandleUnauthorized(c)
	}
	log.Errorf("[Reports] export %s: %v", page, err)
	return redirectWithError(c, page, fmt.Sprintf("Failed to export the report: %v", err))
}

// totalRecord renders the total row; pad inserts empty cells after the label.
func totalRecord(label string, pad int, t aggregate.TableTotal) []string {
	record := []string{label}
	for i := 0; i < pad; i++ {
		record = append(record, "")
	}
	return append(record,
		money(t.Costs),
		count(t.Impressions),
		count(t.Clicks),
		money(t.CostPerClickValue),
		count(t.Sessions),
		count(t.Conversions),
		money(t.CostPerConversionValue),
	)
}

func writeCSV(c *fiber.Ctx, name string, r daterange.Range, records [][]string) error {
	c.Attachment(fmt.Sprintf("%s_%s_%s.csv", name, r.StartString(), r.EndString()))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	w := csv.NewWriter(c)
	if err := w.WriteAll(records); err != nil {
		log.Errorf("[Reports] write %s csv: %v", name, err)
		return err
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(aggregate.Round2(v), 'f', 2, 64)
}

func count(v int64) string {
	return strconv.FormatInt(v, 10)
}
