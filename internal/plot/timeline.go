package plot

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// TimelinePoint is one scored hourly window for a patient.
type TimelinePoint struct {
	Time time.Time
	Prob float64
}

// TimelineOptions configures RenderPatientTimeline. The zero value
// produces a chart with the default title, a 0.5 threshold line and
// no event or ventilation overlays.
type TimelineOptions struct {
	Title      string
	Threshold  float64
	TimeFormat string
	// VAPEvents are confirmed VAP onset times; each is snapped to the
	// latest scored point at or before the event and drawn as a marker,
	// with a second green marker 24 hours earlier.
	VAPEvents []time.Time
	// VentBegin/VentEnd bound the mechanical ventilation period, drawn
	// as a line along y=0.
	VentBegin *time.Time
	VentEnd   *time.Time
}

const (
	defaultThreshold  = 0.5
	defaultTimeFormat = "01-02 15:04"
	preWarningLead    = 24 * time.Hour

	colorThreshold = "#888888"
	colorVAPMarker = "#d62728"
	colorLeadMark  = "#2ca02c"
	colorVentLine  = "#4a6fa5"
)

// riskBands orders the colored line series from low to high risk.
var riskBands = []struct {
	name  string
	color string
}{
	{"low risk", ColorLow},
	{"guarded", ColorGuarded},
	{"elevated", ColorElevated},
	{"high risk", ColorHigh},
	{"unscored", ColorUnknown},
}

// RenderPatientTimeline writes an interactive HTML chart of a single
// patient's hourly VAP probabilities to w. Points are sorted by time
// before plotting; an empty slice is an error.
func RenderPatientTimeline(w io.Writer, patientID int, points []TimelinePoint, o TimelineOptions) error {
	if len(points) == 0 {
		return fmt.Errorf("patient %d: no probability points to plot", patientID)
	}

	pts := make([]TimelinePoint, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })

	if o.Threshold == 0 {
		o.Threshold = defaultThreshold
	}
	if o.TimeFormat == "" {
		o.TimeFormat = defaultTimeFormat
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("VAP risk timeline, patient %d", patientID)
	}

	labels := make([]string, len(pts))
	for i, p := range pts {
		labels[i] = p.Time.Format(o.TimeFormat)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "probability", Min: -0.05, Max: 1.05}),
	)
	line.SetXAxis(labels)

	bands := segmentSeries(pts)
	for _, band := range riskBands {
		data := bands[band.color]
		if !hasValues(data) {
			continue
		}
		line.AddSeries(band.name, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: band.color, Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: band.color}),
		)
	}

	threshold := make([]opts.LineData, len(pts))
	for i := range threshold {
		threshold[i] = opts.LineData{Value: o.Threshold}
	}
	line.AddSeries("threshold", threshold,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorThreshold, Type: "dashed"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorThreshold}),
	)

	if vent := ventSeries(pts, o.VentBegin, o.VentEnd); vent != nil {
		line.AddSeries("ventilation", vent,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorVentLine, Width: 5}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorVentLine}),
		)
	}

	onsets, leads := eventMarkers(patientID, pts, labels, o.VAPEvents)
	if len(onsets) > 0 || len(leads) > 0 {
		scatter := charts.NewScatter()
		scatter.SetXAxis(labels)
		if len(onsets) > 0 {
			scatter.AddSeries("VAP onset", onsets,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: colorVAPMarker}),
			)
		}
		if len(leads) > 0 {
			scatter.AddSeries("24h before onset", leads,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: colorLeadMark}),
			)
		}
		line.Overlap(scatter)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render timeline for patient %d: %w", patientID, err)
	}
	return nil
}

// segmentSeries splits the probability curve into one data slice per
// risk band. Each consecutive pair of points is assigned to the band of
// the later point, and both endpoints carry a value in that band's
// series so adjacent segments stay visually connected.
func segmentSeries(pts []TimelinePoint) map[string][]opts.LineData {
	bands := make(map[string][]opts.LineData, len(riskBands))
	for _, band := range riskBands {
		data := make([]opts.LineData, len(pts))
		for i := range data {
			data[i] = opts.LineData{Value: nil}
		}
		bands[band.color] = data
	}

	set := func(i int, color string) {
		bands[color][i] = opts.LineData{Value: pts[i].Prob}
	}

	if len(pts) == 1 {
		set(0, AssignColor(pts[0].Prob))
		return bands
	}
	for i := 0; i+1 < len(pts); i++ {
		color := AssignColor(pts[i+1].Prob)
		set(i, color)
		set(i+1, color)
	}
	return bands
}

func hasValues(data []opts.LineData) bool {
	for _, d := range data {
		if d.Value != nil {
			return true
		}
	}
	return false
}

// snapIndex returns the index of the latest point at or before t, or -1
// when t falls outside the observed range.
func snapIndex(pts []TimelinePoint, t time.Time) int {
	if t.Before(pts[0].Time) || t.After(pts[len(pts)-1].Time) {
		return -1
	}
	return sort.Search(len(pts), func(i int) bool { return pts[i].Time.After(t) }) - 1
}

// eventMarkers builds scatter data for confirmed VAP onsets and their
// 24h lead markers. Events outside the observed range are skipped.
func eventMarkers(patientID int, pts []TimelinePoint, labels []string, events []time.Time) (onsets, leads []opts.ScatterData) {
	for _, event := range events {
		idx := snapIndex(pts, event)
		if idx < 0 {
			slog.Debug("skipping VAP event outside observed range",
				slog.Int("patient_id", patientID),
				slog.Time("event", event))
			continue
		}
		onsets = append(onsets, opts.ScatterData{
			Value:      []interface{}{labels[idx], pts[idx].Prob},
			Symbol:     "triangle",
			SymbolSize: 14,
		})

		if leadIdx := snapIndex(pts, event.Add(-preWarningLead)); leadIdx >= 0 {
			leads = append(leads, opts.ScatterData{
				Value:      []interface{}{labels[leadIdx], pts[leadIdx].Prob},
				Symbol:     "diamond",
				SymbolSize: 12,
			})
		}
	}
	return onsets, leads
}

// ventSeries draws the mechanical ventilation period as a line at y=0,
// clipped to the observed range. Returns nil when the period is absent
// or does not overlap any scored point.
func ventSeries(pts []TimelinePoint, begin, end *time.Time) []opts.LineData {
	if begin == nil || end == nil {
		return nil
	}
	start := sort.Search(len(pts), func(i int) bool { return !pts[i].Time.Before(*begin) })
	stop := sort.Search(len(pts), func(i int) bool { return pts[i].Time.After(*end) }) - 1
	if start >= len(pts) || stop < start {
		return nil
	}

	data := make([]opts.LineData, len(pts))
	for i := range data {
		if i >= start && i <= stop {
			data[i] = opts.LineData{Value: 0.0}
		} else {
			data[i] = opts.LineData{Value: nil}
		}
	}
	return data
}
