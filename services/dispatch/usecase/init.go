package usecase

import (
	"github.com/prasetya/ridelink/internal/pkg/geoindex"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/dispatch"
	"github.com/prasetya/ridelink/services/pricing/fare"
)

// DispatchUC implements the dispatch use case interface
type DispatchUC struct {
	cfg        models.DispatchConfig
	rideRepo   dispatch.RideRepo
	dispatchGW dispatch.DispatchGW
	index      geoindex.DriverIndex
	calc       *fare.Calculator
}

// NewDispatchUC creates a new dispatch use case
func NewDispatchUC(
	cfg models.DispatchConfig,
	rideRepo dispatch.RideRepo,
	dispatchGW dispatch.DispatchGW,
	index geoindex.DriverIndex,
	calc *fare.Calculator,
) *DispatchUC {
	return &DispatchUC{
		cfg:        cfg,
		rideRepo:   rideRepo,
		dispatchGW: dispatchGW,
		index:      index,
		calc:       calc,
	}
}
