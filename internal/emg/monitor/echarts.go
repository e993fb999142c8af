package monitor

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/emg.report/internal/db"
)

// RenderRunReport writes an HTML report for one run: a per-dataset
// accuracy bar chart and a stacked confusion-count bar chart. Datasets
// without ground truth show no accuracy bar rather than a zero-height
// one.
func RenderRunReport(w io.Writer, run db.Run, results []db.ResultRow) error {
	labels := make([]string, len(results))
	accuracy := make([]opts.BarData, len(results))
	var tn, fp, fn, tp []opts.BarData

	for i, row := range results {
		labels[i] = row.Filename
		if row.Accuracy.Valid {
			accuracy[i] = opts.BarData{Value: row.Accuracy.Float64}
		} else {
			accuracy[i] = opts.BarData{Value: nil, Name: "no ground truth"}
		}
		if row.TN.Valid {
			tn = append(tn, opts.BarData{Value: row.TN.Int64})
			fp = append(fp, opts.BarData{Value: row.FP.Int64})
			fn = append(fn, opts.BarData{Value: row.FN.Int64})
			tp = append(tp, opts.BarData{Value: row.TP.Int64})
		} else {
			tn = append(tn, opts.BarData{Value: nil})
			fp = append(fp, opts.BarData{Value: nil})
			fn = append(fn, opts.BarData{Value: nil})
			tp = append(tp, opts.BarData{Value: nil})
		}
	}

	accBar := charts.NewBar()
	accBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "EMG Batch Accuracy",
			Subtitle: fmt.Sprintf("run=%s started=%s", run.ID, run.StartedAt.Format(time.RFC3339)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "Accuracy"}),
	)
	accBar.SetXAxis(labels).
		AddSeries("accuracy", accuracy,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	confBar := charts.NewBar()
	confBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Confusion Counts", Subtitle: "per dataset"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	confBar.SetXAxis(labels).
		AddSeries("TN", tn).
		AddSeries("FP", fp).
		AddSeries("FN", fn).
		AddSeries("TP", tp)
	confBar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "confusion"}))

	page := components.NewPage()
	page.AddCharts(accBar, confBar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
