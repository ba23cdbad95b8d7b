// Package tile implements the bucket/tiling generators: mapping a
// numeric value or a timestamp onto the origin-aligned bucket containing
// it, and splitting a temporal value across the buckets it spans.
package tile

import (
	"time"

	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/restrict"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// NumberBucket returns the half-open [lo, lo+width) bucket containing v,
// aligned to origin.
func NumberBucket(v, width, origin float64) (lo, hi float64, err error) {
	if width <= 0 {
		return 0, 0, terrors.New("tile.NumberBucket", terrors.DomainError, nil)
	}
	n := floorDiv(v-origin, width)
	lo = origin + n*width
	return lo, lo + width, nil
}

// TimestampBucket returns the half-open [lo, lo+width) time bucket
// containing t, aligned to origin.
func TimestampBucket(t time.Time, width time.Duration, origin time.Time) (tstamp.Period, error) {
	if width <= 0 {
		return tstamp.Period{}, terrors.New("tile.TimestampBucket", terrors.DomainError, nil)
	}
	n := int64(floorDiv(float64(t.Sub(origin)), float64(width)))
	lo := origin.Add(time.Duration(n) * width)
	return tstamp.NewPeriod(lo, lo.Add(width), true, false)
}

// NumberBucketList returns every bucket boundary in [lo, hi) at the given
// width, aligned to origin.
func NumberBucketList(lo, hi, width, origin float64) ([][2]float64, error) {
	if width <= 0 || hi < lo {
		return nil, terrors.New("tile.NumberBucketList", terrors.DomainError, nil)
	}
	start := origin + floorDiv(lo-origin, width)*width
	var out [][2]float64
	for b := start; b < hi; b += width {
		out = append(out, [2]float64{b, b + width})
	}
	return out, nil
}

// TimestampBucketList returns every bucket in [lo, hi) at the given width.
func TimestampBucketList(lo, hi time.Time, width time.Duration, origin time.Time) ([]tstamp.Period, error) {
	if width <= 0 || hi.Before(lo) {
		return nil, terrors.New("tile.TimestampBucketList", terrors.DomainError, nil)
	}
	n := int64(floorDiv(float64(lo.Sub(origin)), float64(width)))
	start := origin.Add(time.Duration(n) * width)
	var out []tstamp.Period
	for b := start; b.Before(hi); b = b.Add(width) {
		p, err := tstamp.NewPeriod(b, b.Add(width), true, false)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ValueBucket is one value-tile fragment: the bucket's half-open range
// (closed on top only for the bucket holding the sequence's own maximum)
// and the restricted, re-interpolated sub-sequence living in it.
type ValueBucket struct {
	Lo, Hi float64
	Seq    temporal.Sequence
}

// TimeBucket is one time-tile fragment.
type TimeBucket struct {
	Period tstamp.Period
	Seq    temporal.Sequence
}

// ValueTimeBucket is one cell of a joint value-time tiling.
type ValueTimeBucket struct {
	ValueLo, ValueHi float64
	Time             tstamp.Period
	Seq              temporal.Sequence
}

// SplitValue tiles s along its value axis: for every bucket its bounding
// box spans, it restricts s to the bucket's range (interpolating a fresh
// sub-segment at each bucket boundary rather than bucketing raw samples)
// and keeps only the non-empty fragments. Buckets are closed at the
// bottom and open at the top, except the bucket holding s's own maximum,
// which is closed at the top too — so the fragments' union recovers s
// exactly.
func SplitValue(s temporal.Sequence, width, origin float64, policy config.Policy) ([]ValueBucket, error) {
	const op = "tile.SplitValue"
	if width <= 0 {
		return nil, terrors.New(op, terrors.DomainError, nil)
	}
	box := s.BBox()
	if !box.HasValue {
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
	loStart, _, err := NumberBucket(box.ValueMin, width, origin)
	if err != nil {
		return nil, err
	}
	loEnd, _, err := NumberBucket(box.ValueMax, width, origin)
	if err != nil {
		return nil, err
	}
	if box.ValueMax-loEnd <= policy.Epsilon && loEnd > loStart {
		// box.ValueMax sits exactly on a bucket boundary: it belongs to the
		// previous bucket as that bucket's closed top, not to the next
		// (otherwise empty) bucket it would nominally open.
		loEnd -= width
	}
	n := int((loEnd-loStart)/width+0.5) + 1

	var out []ValueBucket
	for k := 0; k < n; k++ {
		lo := loStart + float64(k)*width
		hi := lo + width
		r := restrict.ValueRange{Min: lo, Max: hi, MinInc: true, MaxInc: k == n-1}
		frags, err := restrict.AtRange(s, r, policy)
		if err != nil {
			return nil, err
		}
		for _, frag := range frags {
			out = append(out, ValueBucket{Lo: lo, Hi: hi, Seq: frag})
		}
	}
	return out, nil
}

// SplitTime tiles s along its time axis: for every bucket its period
// spans, it restricts s to the bucket's period and keeps only the
// non-empty fragments. The final bucket's upper bound is inclusive when
// s's own period ends there and is itself inclusive, so the fragments'
// union recovers s exactly.
func SplitTime(s temporal.Sequence, width time.Duration, origin time.Time) ([]TimeBucket, error) {
	const op = "tile.SplitTime"
	if width <= 0 {
		return nil, terrors.New(op, terrors.DomainError, nil)
	}
	start, err := TimestampBucket(s.Period.Lower, width, origin)
	if err != nil {
		return nil, err
	}
	end, err := TimestampBucket(s.Period.Upper, width, origin)
	if err != nil {
		return nil, err
	}
	if end.Lower.Equal(s.Period.Upper) && end.Lower.After(start.Lower) {
		// s's upper bound sits exactly on a bucket boundary: it belongs to
		// the previous bucket as that bucket's closed top.
		end.Lower = end.Lower.Add(-width)
	}
	n := int(end.Lower.Sub(start.Lower)/width) + 1

	var out []TimeBucket
	for k := 0; k < n; k++ {
		lo := start.Lower.Add(time.Duration(k) * width)
		hi := lo.Add(width)
		upperInc := k == n-1 && s.Period.UpperInc && hi.Equal(s.Period.Upper)
		bucket, err := tstamp.NewPeriod(lo, hi, true, upperInc)
		if err != nil {
			return nil, err
		}
		frag, ok := restrict.AtPeriod(s, bucket)
		if !ok {
			continue
		}
		out = append(out, TimeBucket{Period: bucket, Seq: frag})
	}
	return out, nil
}

// SplitValueTime combines SplitValue and SplitTime into the joint
// value-time tile: each value bucket's fragment is further split along
// time, so the output is value-major.
func SplitValueTime(s temporal.Sequence, valueWidth, valueOrigin float64, timeWidth time.Duration, timeOrigin time.Time, policy config.Policy) ([]ValueTimeBucket, error) {
	valueBuckets, err := SplitValue(s, valueWidth, valueOrigin, policy)
	if err != nil {
		return nil, err
	}
	var out []ValueTimeBucket
	for _, vb := range valueBuckets {
		timeBuckets, err := SplitTime(vb.Seq, timeWidth, timeOrigin)
		if err != nil {
			return nil, err
		}
		for _, tb := range timeBuckets {
			out = append(out, ValueTimeBucket{ValueLo: vb.Lo, ValueHi: vb.Hi, Time: tb.Period, Seq: tb.Seq})
		}
	}
	return out, nil
}

func floorDiv(v, width float64) float64 {
	n := v / width
	fn := float64(int64(n))
	if n < fn {
		fn--
	}
	return fn
}
