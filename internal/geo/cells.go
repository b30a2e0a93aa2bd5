package geo

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"

	"ridematch/internal/domain"
)

// DemandResolution is the H3 resolution of demand counters (~460 m edge).
const DemandResolution = 8

const (
	// demandCellSpacingKm approximates the centre-to-centre distance of
	// neighbouring cells at DemandResolution.
	demandCellSpacingKm = 0.8
	maxDemandRing       = 8
)

// DemandCell returns the H3 cell holding c at DemandResolution.
func DemandCell(c domain.Coordinate) (h3.Cell, error) {
	return h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lng), DemandResolution)
}

// DemandRing returns the ring size that covers radiusKm around a cell.
func DemandRing(radiusKm float64) int {
	if radiusKm <= 0 {
		return 0
	}
	k := int(math.Ceil(radiusKm / demandCellSpacingKm))
	if k > maxDemandRing {
		return maxDemandRing
	}
	return k
}

// DemandCells returns the cell ids, as strings, of the disk covering radiusKm
// around c. The cell containing c is always included.
func DemandCells(c domain.Coordinate, radiusKm float64) ([]string, error) {
	origin, err := DemandCell(c)
	if err != nil {
		return nil, err
	}

	return diskCellIDs(origin, DemandRing(radiusKm))
}

// diskCellIDs lists the cells within k steps of origin. An error means the
// disk could not be built, so counts over it would be incomplete.
func diskCellIDs(origin h3.Cell, k int) ([]string, error) {
	cells, err := origin.GridDisk(k)
	if err != nil {
		return nil, fmt.Errorf("grid disk of %s (k=%d): %w", origin, k, err)
	}

	ids := make([]string, len(cells))
	for i, cell := range cells {
		ids[i] = cell.String()
	}
	return ids, nil
}
