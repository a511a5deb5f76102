// Package impute provides missing-value imputation and robust outlier
// filtering for hourly clinical feature frames.
//
// Missing values are represented as NaN. The group-wise strategy mirrors
// how clinical time series are usually completed: impute only the first
// row of each patient group from a fitted imputer, then carry the last
// observed value forward within the group. Outlier removal uses the
// median absolute deviation, which tolerates the heavy tails common in
// bedside measurements.
package impute
