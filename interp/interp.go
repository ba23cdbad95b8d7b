// Package interp implements interpolation at a timestamp: segment endpoint
// interpolation for Step and Linear sequences, and numerically careful
// ratio/root computation using github.com/shopspring/decimal to avoid the
// float64 cancellation that comes from dividing two durations that share a
// large common offset.
package interp

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/terrors"
	"github.com/shopspring/decimal"
)

// Ratio computes (t - t1) / (t2 - t1) in decimal, translating the segment
// to [0, duration] first to keep the division well-conditioned, then
// converts back to float64 only at the call boundary.
func Ratio(t1, t2, t time.Time) float64 {
	duration := decimal.NewFromInt(t2.Sub(t1).Nanoseconds())
	offset := decimal.NewFromInt(t.Sub(t1).Nanoseconds())
	if duration.IsZero() {
		return 0
	}
	r, _ := offset.DivRound(duration, 18).Float64()
	return r
}

// ValueAt returns the value of the segment (v1, t1)-(v2, t2) at t: Step
// holds v1 until exactly t2 where it takes v2; Linear delegates the ratio
// to the base-type adapter's InterpolateAt.
func ValueAt(v1, v2 any, t1, t2, t time.Time, linear bool, adapter basetype.Adapter) (any, error) {
	if t.Before(t1) || t.After(t2) {
		return nil, terrors.New("interp.ValueAt", terrors.DomainError, nil)
	}
	if !linear {
		if t.Equal(t2) {
			return adapter.Copy(v2), nil
		}
		return adapter.Copy(v1), nil
	}
	interp, ok := basetype.AsInterpolator(adapter)
	if !ok {
		return nil, terrors.New("interp.ValueAt", terrors.Unsupported, nil)
	}
	if t.Equal(t1) {
		return adapter.Copy(v1), nil
	}
	if t.Equal(t2) {
		return adapter.Copy(v2), nil
	}
	return interp.InterpolateAt(v1, v2, Ratio(t1, t2, t)), nil
}

// FindRatioForValue solves for the ratio r in [0,1] at which a linear
// segment over numeric endpoints (a, b) takes value target, i.e. the
// inverse of lerp. Used by the restriction kernel's root-finding.
// ok is false when the segment is constant (a == b) and target != a, or
// when the solved ratio is clamp-rejected.
//
// snap selects the roundoff policy (config.Policy.RoundoffSnap): when
// true, a ratio within eps of 0 or 1 is snapped to the exact bound; when
// false, the interpolated ratio is kept as solved. Either way the result
// is clamped to [0,1]; strictly-interior-only callers must reject ratios
// within eps of 0 or 1 themselves.
func FindRatioForValue(a, b, target, eps float64, snap bool) (ratio float64, ok bool) {
	da := decimal.NewFromFloat(b).Sub(decimal.NewFromFloat(a))
	if da.IsZero() {
		if absf(target-a) <= eps {
			return 0, true
		}
		return 0, false
	}
	r := decimal.NewFromFloat(target).Sub(decimal.NewFromFloat(a)).DivRound(da, 18)
	rf, _ := r.Float64()
	if rf < -eps || rf > 1+eps {
		return 0, false
	}
	return clamp01(rf, eps, snap), true
}

// clamp01 snaps rf to 0 or 1 when within eps and snap is requested;
// regardless of snap it always clamps rf into [0,1].
func clamp01(rf, eps float64, snap bool) float64 {
	switch {
	case rf < 0:
		return 0
	case rf > 1:
		return 1
	case !snap:
		return rf
	case rf < eps:
		return 0
	case rf > 1-eps:
		return 1
	default:
		return rf
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
