package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplunge/dataplunge/internal/pkg/chart"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestChartFrame(t *testing.T) {
	frame, err := chart.Performance(nil)
	require.NoError(t, err)

	html := render(t, ChartFrame(frame))

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>"+chart.PageTitle+"</title>")
	assert.Contains(t, html, `<script src="`+chart.DefaultAssetsHost+`echarts.min.js"></script>`)
	assert.Contains(t, html, `<body class="fragment">`+frame.Element+frame.Script+"</body>")
}

func TestFragmentEscapesTitle(t *testing.T) {
	html := render(t, Fragment("<b>Insights</b>", nil))
	assert.Contains(t, html, "<title>&lt;b&gt;Insights&lt;/b&gt;</title>")
	assert.NotContains(t, html, "<script")
}

func TestInsightsFirstOfMany(t *testing.T) {
	vm := viewmodel.InsightsPartial{
		Carousel: insights.Restore([]string{"CPC fell <10%>", "Sessions up"}, insights.State{}),
		RangeKey: "2024-03-01|2024-03-31",
	}

	html := render(t, Insights(vm))

	assert.Contains(t, html, `<div class="insights">`)
	assert.Contains(t, html, `<p class="insight">CPC fell &lt;10%&gt;</p>`)
	assert.Contains(t, html, `<span class="disabled">&larr; Previous</span>`)
	assert.Contains(t, html, `<p class="carousel-position">1 / 2</p>`)
	assert.Contains(t, html, `href="/partials/insights?move=next&amp;range=2024-03-01%7C2024-03-31"`)
}

func TestInsightsLastOfMany(t *testing.T) {
	c := insights.Restore([]string{"a", "b"}, insights.State{})
	c.Move(insights.MoveNext)

	html := render(t, Insights(viewmodel.InsightsPartial{Carousel: c, RangeKey: "2024-03-01|2024-03-31"}))

	assert.Contains(t, html, "move=prev")
	assert.Contains(t, html, `<span class="disabled">Next &rarr;</span>`)
	assert.Contains(t, html, `<p class="carousel-position">2 / 2</p>`)
}

func TestInsightsSingleMessageHasNoNav(t *testing.T) {
	c := insights.Restore([]string{"only"}, insights.State{})
	html := render(t, Insights(viewmodel.InsightsPartial{Carousel: c}))

	assert.Contains(t, html, `<p class="insight">only</p>`)
	assert.NotContains(t, html, "carousel-nav")
}

func TestInsightsFailure(t *testing.T) {
	html := render(t, Insights(viewmodel.InsightsPartial{Carousel: insights.Failure()}))

	assert.Contains(t, html, `<div class="insights insights-failed">`)
	assert.Contains(t, html, "<p class=\"insight\">"+insights.Failure().Current()+"</p>")
}
