package plot

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyPoints(probs ...float64) []TimelinePoint {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]TimelinePoint, len(probs))
	for i, p := range probs {
		pts[i] = TimelinePoint{Time: base.Add(time.Duration(i) * time.Hour), Prob: p}
	}
	return pts
}

func TestRenderPatientTimeline(t *testing.T) {
	t.Run("empty points is an error", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderPatientTimeline(&buf, 7, nil, TimelineOptions{})
		assert.ErrorContains(t, err, "no probability points")
	})

	t.Run("renders band colors and threshold", func(t *testing.T) {
		var buf bytes.Buffer
		pts := hourlyPoints(0.1, 0.3, 0.45, 0.7)

		require.NoError(t, RenderPatientTimeline(&buf, 7, pts, TimelineOptions{}))

		html := buf.String()
		assert.Contains(t, html, "VAP risk timeline, patient 7")
		assert.Contains(t, html, ColorGuarded)
		assert.Contains(t, html, ColorElevated)
		assert.Contains(t, html, ColorHigh)
		assert.Contains(t, html, "threshold")
	})

	t.Run("event inside range draws markers", func(t *testing.T) {
		var buf bytes.Buffer
		pts := hourlyPoints(0.1, 0.2, 0.6)
		event := pts[2].Time

		err := RenderPatientTimeline(&buf, 7, pts, TimelineOptions{
			VAPEvents: []time.Time{event},
		})
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, "VAP onset")
		// The event is less than 24h after the first point, so the
		// lead marker falls outside the observed range.
		assert.NotContains(t, html, "24h before onset")
	})

	t.Run("event outside range is skipped", func(t *testing.T) {
		var buf bytes.Buffer
		pts := hourlyPoints(0.1, 0.2)

		err := RenderPatientTimeline(&buf, 7, pts, TimelineOptions{
			VAPEvents: []time.Time{pts[1].Time.Add(48 * time.Hour)},
		})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "VAP onset")
	})

	t.Run("ventilation period line", func(t *testing.T) {
		var buf bytes.Buffer
		pts := hourlyPoints(0.1, 0.2, 0.3, 0.4)
		begin := pts[1].Time
		end := pts[2].Time

		err := RenderPatientTimeline(&buf, 7, pts, TimelineOptions{
			VentBegin: &begin,
			VentEnd:   &end,
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "ventilation")
	})
}

func TestSegmentSeries(t *testing.T) {
	pts := hourlyPoints(0.1, 0.2, 0.6)
	bands := segmentSeries(pts)

	// Segment 0->1 stays low; segment 1->2 crosses into high risk, so
	// point 1 belongs to both bands.
	low := bands[ColorLow]
	high := bands[ColorHigh]
	assert.Equal(t, 0.1, low[0].Value)
	assert.Equal(t, 0.2, low[1].Value)
	assert.Nil(t, low[2].Value)
	assert.Nil(t, high[0].Value)
	assert.Equal(t, 0.2, high[1].Value)
	assert.Equal(t, 0.6, high[2].Value)
}

func TestSegmentSeriesSinglePoint(t *testing.T) {
	bands := segmentSeries(hourlyPoints(0.3))
	assert.Equal(t, 0.3, bands[ColorGuarded][0].Value)
	assert.Nil(t, bands[ColorLow][0].Value)
}

func TestSnapIndex(t *testing.T) {
	pts := hourlyPoints(0.1, 0.2, 0.3)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"exact point", pts[1].Time, 1},
		{"between points snaps back", pts[1].Time.Add(30 * time.Minute), 1},
		{"last point", pts[2].Time, 2},
		{"before range", pts[0].Time.Add(-time.Minute), -1},
		{"after range", pts[2].Time.Add(time.Minute), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapIndex(pts, tt.t))
		})
	}
}

func TestVentSeries(t *testing.T) {
	pts := hourlyPoints(0.1, 0.2, 0.3, 0.4)

	t.Run("nil bounds", func(t *testing.T) {
		assert.Nil(t, ventSeries(pts, nil, nil))
	})

	t.Run("clipped to observed range", func(t *testing.T) {
		begin := pts[0].Time.Add(-24 * time.Hour)
		end := pts[2].Time
		data := ventSeries(pts, &begin, &end)
		require.NotNil(t, data)
		assert.Equal(t, 0.0, data[0].Value)
		assert.Equal(t, 0.0, data[2].Value)
		assert.Nil(t, data[3].Value)
	})

	t.Run("no overlap", func(t *testing.T) {
		begin := pts[3].Time.Add(time.Hour)
		end := begin.Add(time.Hour)
		assert.Nil(t, ventSeries(pts, &begin, &end))
	})
}

func TestEventMarkers(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]TimelinePoint, 30)
	labels := make([]string, 30)
	for i := range pts {
		pts[i] = TimelinePoint{Time: base.Add(time.Duration(i) * time.Hour), Prob: 0.1}
		labels[i] = pts[i].Time.Format(defaultTimeFormat)
	}

	event := pts[26].Time.Add(20 * time.Minute)
	onsets, leads := eventMarkers(7, pts, labels, []time.Time{event})

	require.Len(t, onsets, 1)
	assert.Equal(t, []interface{}{labels[26], 0.1}, onsets[0].Value)

	// Lead marker sits 24h earlier, snapped the same way.
	require.Len(t, leads, 1)
	assert.Equal(t, []interface{}{labels[2], 0.1}, leads[0].Value)
	assert.Equal(t, "triangle", onsets[0].Symbol)
}
