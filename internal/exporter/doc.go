// Package exporter writes toolkit outputs (expanded windows, tuning
// trials) to CSV and Excel files under the configured reports directory.
package exporter
