// Package aggregate computes per-bucket statistical summaries of sensor
// readings within a time window.
package aggregate

import (
	"math"
	"sort"

	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/timewindow"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

type bucket struct {
	tempSum float64
	tempMin float64
	tempMax float64
	humSum  float64
	count   int
	humN    int
}

// Summarize groups the readings falling inside the window by its bucket
// rule and computes mean/min/max temperature plus mean humidity per
// non-empty bucket. Readings without humidity are excluded from the
// humidity mean; if no reading in a bucket carries humidity the
// aggregate is nil rather than zero. Buckets with no readings are
// omitted. The result is ordered by bucket key.
//
// The computation is pure: same inputs in any order yield the same output.
func Summarize(w timewindow.Window, readings []model.Reading) []schema.BucketStat {
	buckets := make(map[int]*bucket)

	for _, r := range readings {
		if !w.Contains(r.Timestamp) {
			continue
		}
		key := w.Key(r.Timestamp)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{tempMin: r.Temperature, tempMax: r.Temperature}
			buckets[key] = b
		}
		b.tempSum += r.Temperature
		b.count++
		if r.Temperature < b.tempMin {
			b.tempMin = r.Temperature
		}
		if r.Temperature > b.tempMax {
			b.tempMax = r.Temperature
		}
		if r.Humidity != nil {
			b.humSum += *r.Humidity
			b.humN++
		}
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]schema.BucketStat, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		stat := schema.BucketStat{
			TimeGroup:      w.Label(k),
			AvgTemperature: round2(b.tempSum / float64(b.count)),
			MinTemperature: round2(b.tempMin),
			MaxTemperature: round2(b.tempMax),
		}
		if b.humN > 0 {
			avg := round2(b.humSum / float64(b.humN))
			stat.AvgHumidity = &avg
		}
		out = append(out, stat)
	}
	return out
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
