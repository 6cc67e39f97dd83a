package constants

// Page routes used for redirects and links
const (
	DashboardRoute     = "/"
	LoginRoute         = "/login"
	RegisterRoute      = "/register"
	LogoutRoute        = "/logout"
	ChannelsRoute      = "/channels"
	CampaignsRoute     = "/campaigns"
	DataSourcesRoute   = "/data-sources"
	AddDataSourceRoute = "/add-data-source"
	SetupRoute         = "/?setup=true"
	ChartPartialRoute  = "/partials/chart"
	InsightsPartial    = "/partials/insights"
)
