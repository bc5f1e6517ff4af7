// Package fare computes ride quotes. The calculator is pure: for a given
// tariff, two coordinates and a pickup time it always returns the same fare,
// which lets the dispatch service recompute fares reproducibly.
package fare

import (
	"fmt"
	"math"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/geo"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// Tariff holds the pricing parameters.
type Tariff struct {
	BaseFare    float64
	PerKm       float64
	PerMinute   float64
	MinimumFare float64
	AvgSpeedKmh float64
	Currency    string
}

// DefaultTariff returns the standard city tariff.
func DefaultTariff() Tariff {
	return Tariff{
		BaseFare:    2.50,
		PerKm:       1.75,
		PerMinute:   0.30,
		MinimumFare: 5.00,
		AvgSpeedKmh: 30.0,
		Currency:    "USD",
	}
}

// TariffFromConfig maps the pricing config section onto a tariff.
func TariffFromConfig(cfg models.PricingConfig) Tariff {
	return Tariff{
		BaseFare:    cfg.BaseFare,
		PerKm:       cfg.PerKm,
		PerMinute:   cfg.PerMinute,
		MinimumFare: cfg.MinimumFare,
		AvgSpeedKmh: cfg.AvgSpeedKmh,
		Currency:    cfg.Currency,
	}
}

// SurgeSchedule maps each hour of day to a multiplier. Surge depends only
// on the hour, never on the date, so a quote recomputed later for the same
// pickup time yields the same multiplier.
type SurgeSchedule [24]float64

// DefaultSurgeSchedule applies 1.5x during commute peaks (07-09, 17-19),
// 1.2x late night (22-06) and 1.0x otherwise.
func DefaultSurgeSchedule() SurgeSchedule {
	var s SurgeSchedule
	for h := range s {
		s[h] = 1.0
	}
	for _, h := range []int{7, 8, 9, 17, 18, 19} {
		s[h] = 1.5
	}
	for _, h := range []int{22, 23, 0, 1, 2, 3, 4, 5, 6} {
		s[h] = 1.2
	}
	return s
}

// Multiplier returns the surge factor for the given pickup time.
func (s SurgeSchedule) Multiplier(at time.Time) float64 {
	return s[at.UTC().Hour()]
}

// Calculator quotes fares for a fixed tariff and surge schedule.
type Calculator struct {
	tariff Tariff
	surge  SurgeSchedule
}

// NewCalculator builds a calculator. A zero AvgSpeedKmh would divide by
// zero, so it falls back to the default tariff's speed.
func NewCalculator(tariff Tariff, surge SurgeSchedule) *Calculator {
	if tariff.AvgSpeedKmh <= 0 {
		tariff.AvgSpeedKmh = DefaultTariff().AvgSpeedKmh
	}
	return &Calculator{tariff: tariff, surge: surge}
}

// Tariff exposes the calculator's tariff
func (c *Calculator) Tariff() Tariff { return c.tariff }

// Quote prices a trip from pickup to dropoff requested at the given time.
// Estimated duration assumes the tariff's average speed. The total is
// rounded to cents, half away from zero, and never drops below the
// minimum fare.
func (c *Calculator) Quote(pickup, dropoff models.Coordinate, at time.Time) (models.Fare, error) {
	if err := geo.Validate(pickup); err != nil {
		return models.Fare{}, fmt.Errorf("%w: pickup: %v", errs.ErrInvalidInput, err)
	}
	if err := geo.Validate(dropoff); err != nil {
		return models.Fare{}, fmt.Errorf("%w: dropoff: %v", errs.ErrInvalidInput, err)
	}

	distanceKm := geo.DistanceKm(pickup, dropoff)
	durationMin := distanceKm / c.tariff.AvgSpeedKmh * 60

	distanceFare := distanceKm * c.tariff.PerKm
	timeFare := durationMin * c.tariff.PerMinute
	surge := c.surge.Multiplier(at)

	total := round2((c.tariff.BaseFare + distanceFare + timeFare) * surge)
	if total < c.tariff.MinimumFare {
		total = c.tariff.MinimumFare
	}

	return models.Fare{
		BaseFare:     c.tariff.BaseFare,
		DistanceFare: round2(distanceFare),
		TimeFare:     round2(timeFare),
		SurgeFactor:  surge,
		Total:        total,
		Currency:     c.tariff.Currency,
		DistanceKm:   distanceKm,
		DurationMin:  durationMin,
	}, nil
}

// round2 rounds to two decimals, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
