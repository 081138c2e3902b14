// Package plot renders interactive charts of report asset sizes.
package plot

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

const (
	topAssetsLimit = 20
	xAxisRotate    = 60
	chartWidth     = "1200px"
	chartHeight    = "600px"
)

// TopAssets returns up to limit assets ordered by descending size.
func TopAssets(assets []stats.Asset, limit int) []stats.Asset {
	sorted := make([]stats.Asset, len(assets))
	copy(sorted, assets)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}

		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

// Render writes an HTML bar chart of the largest assets in the report.
func Render(w io.Writer, title string, assets []stats.Asset) error {
	top := TopAssets(assets, topAssetsLimit)

	labels := make([]string, len(top))
	barData := make([]opts.BarData, len(top))

	for i, asset := range top {
		labels[i] = asset.Name
		barData[i] = opts.BarData{Value: asset.Size}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Largest assets by size"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Size (bytes)"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Size", barData)

	renderErr := bar.Render(w)
	if renderErr != nil {
		return fmt.Errorf("render chart: %w", renderErr)
	}

	return nil
}
