package analysis

import (
	"sort"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

type dailyAccumulator struct {
	sums   [5]float64
	counts [5]int
}

// DailyAverages groups readings by calendar day, oldest day first. Each
// average only counts readings where that vital was measured.
func DailyAverages(readings []domain.Reading) []domain.DailyAverage {
	byDay := make(map[string]*dailyAccumulator)
	for _, r := range readings {
		acc, ok := byDay[r.Date]
		if !ok {
			acc = &dailyAccumulator{}
			byDay[r.Date] = acc
		}
		for i, v := range []*int{r.Systolic, r.Diastolic, r.OxygenLevel, r.BloodSugar, r.UrineOutput} {
			if domain.Present(v) {
				acc.sums[i] += float64(*v)
				acc.counts[i]++
			}
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.DailyAverage, 0, len(days))
	for _, day := range days {
		acc := byDay[day]
		out = append(out, domain.DailyAverage{
			Date:         day,
			AvgSystolic:  acc.avg(0),
			AvgDiastolic: acc.avg(1),
			AvgOxygen:    acc.avg(2),
			AvgSugar:     acc.avg(3),
			AvgUrine:     acc.avg(4),
		})
	}
	return out
}

func (a *dailyAccumulator) avg(i int) *float64 {
	if a.counts[i] == 0 {
		return nil
	}
	v := a.sums[i] / float64(a.counts[i])
	return &v
}
