// Package windows implements the hourly time-window expansion that turns
// one row per ICU admission into many rows, one per time bucket.
//
// Two expansion modes are provided. Backward expansion walks from the
// outcome date toward admission in fixed intervals and is used to build
// labeled training windows. Forward expansion rolls 24-hour windows from
// admission in one hour steps and is used to score live or historical
// stays hour by hour. Both clip generated windows to the admission and
// discharge bounds, so every bucket lies within the stay.
package windows
