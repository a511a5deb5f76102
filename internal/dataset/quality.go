package dataset

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// QualityReport summarizes structural data quality for a set of admissions
type QualityReport struct {
	TotalAdmissions  int           `json:"total_admissions"`
	ValidAdmissions  int           `json:"valid_admissions"`
	WithOutcome      int           `json:"with_outcome"`
	UniquePatients   int           `json:"unique_patients"`
	MeanStay         time.Duration `json:"mean_stay"`
	MedianStay       time.Duration `json:"median_stay"`
	EarliestAdm      time.Time     `json:"earliest_adm"`
	LatestDischarge  time.Time     `json:"latest_discharge"`
	OutcomeBeforeAdm int           `json:"outcome_before_adm"`
}

// ValidRatio returns the fraction of structurally valid admissions
func (r QualityReport) ValidRatio() float64 {
	if r.TotalAdmissions == 0 {
		return 0
	}
	return float64(r.ValidAdmissions) / float64(r.TotalAdmissions)
}

// ValidateQuality inspects admissions and reports aggregate quality figures.
// It never fails; callers decide what to do with a poor report.
func ValidateQuality(admissions []Admission) QualityReport {
	report := QualityReport{TotalAdmissions: len(admissions)}
	if len(admissions) == 0 {
		return report
	}

	patients := make(map[int]struct{})
	stays := make([]float64, 0, len(admissions))

	for _, adm := range admissions {
		patients[adm.PatientID] = struct{}{}

		if adm.IsValid() {
			report.ValidAdmissions++
			stays = append(stays, adm.Stay().Hours())
		}
		if adm.Outcome != nil {
			report.WithOutcome++
			if adm.Outcome.Before(adm.AdmTime) {
				report.OutcomeBeforeAdm++
			}
		}

		if report.EarliestAdm.IsZero() || adm.AdmTime.Before(report.EarliestAdm) {
			report.EarliestAdm = adm.AdmTime
		}
		if adm.DisTime.After(report.LatestDischarge) {
			report.LatestDischarge = adm.DisTime
		}
	}

	report.UniquePatients = len(patients)

	if len(stays) > 0 {
		report.MeanStay = time.Duration(stat.Mean(stays, nil) * float64(time.Hour))
		sort.Float64s(stays)
		report.MedianStay = time.Duration(stat.Quantile(0.5, stat.Empirical, stays, nil) * float64(time.Hour))
	}

	return report
}
