// Package dataset loads and validates the tabular clinical inputs used by
// the vaprisk toolkit: ICU admission episodes, dated clinical events and
// free-form hourly observation frames.
//
// Admissions and events are parsed into typed records with tolerant,
// per-row error handling so one malformed registry row does not abort a
// batch run. Arbitrary observation tables go through the gota dataframe
// bridge (ReadFrame / WriteFrame) and keep their columns untouched.
package dataset
