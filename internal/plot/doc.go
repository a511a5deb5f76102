// Package plot renders per-patient probability timelines as interactive
// HTML charts. Line segments are color-coded by risk band, confirmed VAP
// onsets and their 24h lead markers are overlaid as scatter points, and
// the mechanical ventilation period is drawn along the time axis.
package plot
