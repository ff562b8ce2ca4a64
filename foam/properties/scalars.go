package properties

import (
	"math"

	"github.com/notargets/gofoam/foam/elements"
)

/*
ResolveScalars sets pressure, target volume and actual volume from the body attributes. A missing
value is deduced and flagged as such: pressure 0, actual volume the computed volume, target volume
the actual volume. CalculateGeometry must have run.
*/
func ResolveScalars(b *elements.Body) {
	attrs := b.Attributes()
	if p, ok := attrs.Real(elements.LagrangeMultiplierAttribute); ok {
		b.SetPressure(p, false)
	} else {
		b.SetPressure(0, true)
	}
	if v, ok := attrs.Real(elements.ActualVolumeAttribute); ok {
		b.SetActualVolume(v, false)
	} else {
		b.SetActualVolume(b.Volume(), true)
	}
	if v, ok := attrs.Real(elements.VolumeAttribute); ok {
		b.SetTargetVolume(v, false)
	} else {
		b.SetTargetVolume(b.ActualVolume(), true)
	}
}

// AdjustPressure shifts all pressures so the smallest one, over bodies that
// are not constraint objects, is zero. It returns the shift.
func AdjustPressure(bodies []*elements.Body) (min float64) {
	min = math.Inf(1)
	for _, b := range bodies {
		if !b.IsObject() && b.Pressure() < min {
			min = b.Pressure()
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	for _, b := range bodies {
		b.SetPressure(b.Pressure()-min, b.IsDeduced(elements.PressureScalar))
	}
	return
}
