package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

const (
	dataSourcesPath   = "/data-sources"
	addDataSourcePath = "/add-data-source"

	msgDisconnectFailed = "Failed to disconnect data source. Please try again."
)

// GET /data-sources
func HandleDataSources(c *fiber.Ctx) error {
	vm := viewmodel.DataSources{Layout: layout(c, "Data Sources", "data-sources")}

	sources, err := api(c).DataSources(c.UserContext())
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[DataSources] list: %v", err)
		showError(&vm.Layout, "load data sources", err)
	}

	catalog := connector.Default()
	for _, s := range sources {
		vm.Sources = append(vm.Sources, dataSourceCard(catalog, s))
	}
	return c.Render("data_sources", vm, mainLayout)
}

func dataSourceCard(catalog *connector.Catalog, s backend.DataSource) viewmodel.DataSourceCard {
	card := viewmodel.DataSourceCard{
		ID:          s.ID,
		Name:        s.SourceName,
		Status:      s.NormalizedStatus(),
		ConnectedAt: viewmodel.Timestamp(s.CreatedAt),
		LastSync:    viewmodel.Timestamp(s.LastSync),
	}
	if card.Status == backend.StatusExpired {
		if p, ok := catalog.ProviderForSource(s.SourceName); ok {
			card.ReconnectPath = p.ConnectPath()
		}
	}
	return card
}

// POST /data-sources/:id/delete
func HandleDataSourceDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return redirectWithError(c, dataSourcesPath, msgDisconnectFailed)
	}

	if err := api(c).DeleteDataSource(c.UserContext(), id); err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[DataSources] delete %d: %v", id, err)
		return redirectWithError(c, dataSourcesPath, msgDisconnectFailed)
	}
	return redirectWithSuccess(c, dataSourcesPath, "Data source disconnected.")
}

// GET /add-data-source
func HandleAddDataSource(c *fiber.Ctx) error {
	vm := viewmodel.AddDataSource{
		Layout:  layout(c, "Add Data Source", "add-data-source"),
		Sources: connector.Default().Sources,
	}
	return c.Render("add_data_source", vm, mainLayout)
}

// POST /add-data-source {source}
// Sources with a wizard are sent to it; the rest are registered directly.
func HandleAddDataSourceSubmit(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("source"))
	catalog := connector.Default()
	source, ok := catalog.Source(name)
	if !ok {
		return redirectWithError(c, addDataSourcePath, fmt.Sprintf("Error: unknown data source %q", name))
	}

	if source.HasWizard() {
		p, err := catalog.Provider(source.Provider)
		if err != nil {
			return redirectWithError(c, addDataSourcePath, "Error: "+err.Error())
		}
		return c.Redirect(p.ConnectPath(), fiber.StatusSeeOther)
	}

	res, err := api(c).AddDataSource(c.UserContext(), source.Name)
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[DataSources] add %s: %v", source.Name, err)
		return redirectWithError(c, addDataSourcePath, "Error: "+backendMessage(err, err.Error()))
	}
	if res.Error != "" {
		return redirectWithError(c, addDataSourcePath, "Error: "+res.Error)
	}
	return redirectWithSuccess(c, addDataSourcePath, "Successfully connected: "+source.Name)
}
