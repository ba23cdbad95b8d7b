// Package aggregate implements the period-union skip list: an associative,
// commutative accumulator that merges overlapping or touching periods into
// the minimal covering set, the way a running window aggregate folds in
// each new batch of contributions.
package aggregate

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/rob-gra/tempora/wire"
)

// node is one skip-list entry: a period key and a forward pointer per
// level. There is no payload beyond the key — the structure's whole job is
// to keep the covering set of periods minimal and ordered.
type node struct {
	period  tstamp.Period
	forward []*node
}

// SkipList is a period-union skip list. Scope is a google/uuid-tagged
// identifier so a host running many independent windows concurrently can
// keep per-scope lists without them being confused for one another in
// logs/metrics.
type SkipList struct {
	Scope      uuid.UUID
	head       *node
	level      int
	n          int
	maxLevel   int
	growFactor int
	capacity   int
	extra      []byte
}

// New builds an empty SkipList tagged with a fresh scope id. Node height is
// capped at policy.SkipListMaxLevel; the growth factor and initial capacity
// are recorded on the list but do not change how it allocates nodes.
func New(policy config.Policy) *SkipList {
	return &SkipList{
		Scope:      uuid.New(),
		head:       &node{forward: make([]*node, policy.SkipListMaxLevel)},
		level:      1,
		maxLevel:   policy.SkipListMaxLevel,
		growFactor: policy.SkipListGrowFactor,
		capacity:   policy.SkipListInitialCapacity,
	}
}

func randomLevel(maxLevel int) int {
	lvl := 1
	for lvl < maxLevel && rand.Float64() < 0.25 {
		lvl++
	}
	return lvl
}

// Len reports the number of disjoint periods currently held.
func (s *SkipList) Len() int { return s.n }

// Extra returns the opaque per-instance blob a host can use to carry
// aggregation state alongside the period set (e.g. a partial sum the host
// layers on top of the union itself).
func (s *SkipList) Extra() []byte { return s.extra }

// SetExtra replaces the opaque blob.
func (s *SkipList) SetExtra(b []byte) { s.extra = b }

// precedesWithGap reports whether a lies entirely before b with at least
// one uncovered instant between them — the condition under which a's node
// can be safely skipped while seeking b's splice point.
func precedesWithGap(a, b tstamp.Period) bool {
	return a.Before(b) && !a.Adjacent(b)
}

// touches reports whether a and b share coverage or abut with no gap,
// i.e. whether folding them into one period loses no information.
func touches(a, b tstamp.Period) bool {
	return a.Overlaps(b) || a.Adjacent(b)
}

// Splice folds periods into the list: each input period is merged with
// every period it overlaps or touches, old covered nodes are unlinked, and
// the merged result is reinserted — the period-union analog of the order-
// statistic skip list's multiset insert. Splice is associative and
// commutative: the resulting Values() set does not depend on the order in
// which periods (or batches of periods) are spliced in.
func (s *SkipList) Splice(periods []tstamp.Period) {
	if len(periods) == 0 {
		return
	}
	for _, p := range tstamp.Normalize(periods) {
		s.spliceOne(p)
	}
}

func (s *SkipList) spliceOne(p tstamp.Period) {
	update := make([]*node, s.maxLevel)
	cur := s.head
	for i := s.level - 1; i >= 0; i-- {
		for cur.forward[i] != nil && precedesWithGap(cur.forward[i].period, p) {
			cur = cur.forward[i]
		}
		update[i] = cur
	}

	merged := p
	var toDelete []tstamp.Period
	first := cur.forward[0]
	for first != nil && touches(first.period, merged) {
		merged = merged.Union(first.period)
		toDelete = append(toDelete, first.period)
		first = first.forward[0]
	}
	for _, d := range toDelete {
		s.deleteExact(d)
	}
	s.insert(merged)
}

func (s *SkipList) deleteExact(p tstamp.Period) {
	update := make([]*node, s.maxLevel)
	cur := s.head
	for i := s.level - 1; i >= 0; i-- {
		for cur.forward[i] != nil && cur.forward[i].period.Cmp(p) < 0 {
			cur = cur.forward[i]
		}
		update[i] = cur
	}
	target := cur.forward[0]
	if target == nil || target.period.Cmp(p) != 0 {
		return
	}
	for i := 0; i < s.level; i++ {
		if update[i].forward[i] != target {
			continue
		}
		update[i].forward[i] = target.forward[i]
	}
	for s.level > 1 && s.head.forward[s.level-1] == nil {
		s.level--
	}
	s.n--
}

func (s *SkipList) insert(p tstamp.Period) {
	update := make([]*node, s.maxLevel)
	cur := s.head
	for i := s.level - 1; i >= 0; i-- {
		for cur.forward[i] != nil && cur.forward[i].period.Cmp(p) < 0 {
			cur = cur.forward[i]
		}
		update[i] = cur
	}

	lvl := randomLevel(s.maxLevel)
	if lvl > s.level {
		for i := s.level; i < lvl; i++ {
			update[i] = s.head
		}
		s.level = lvl
	}
	nn := &node{period: p, forward: make([]*node, lvl)}
	for i := 0; i < lvl; i++ {
		nn.forward[i] = update[i].forward[i]
		update[i].forward[i] = nn
	}
	s.n++
}

// Values returns the minimal covering set of periods, in order.
func (s *SkipList) Values() []tstamp.Period {
	out := make([]tstamp.Period, 0, s.n)
	for n := s.head.forward[0]; n != nil; n = n.forward[0] {
		out = append(out, n.period)
	}
	return out
}

// Serialize writes the list's scope, extra blob and period values in wire
// form, so a host can checkpoint and resume a long-running aggregation.
func (s *SkipList) Serialize() []byte {
	e := wire.NewEncoder()
	scope, _ := s.Scope.MarshalBinary()
	e.AppendString(string(scope))
	e.AppendString(string(s.extra))
	values := s.Values()
	e.AppendInt32(int32(len(values)))
	for _, p := range values {
		e.AppendTime(p.Lower).AppendTime(p.Upper)
		e.AppendBool(p.LowerInc).AppendBool(p.UpperInc)
	}
	return e.Bytes()
}

// Deserialize restores a SkipList from Serialize's output, using policy
// for the skip-list tunables (the serialized form carries only the
// period set, not the level/capacity parameters).
func Deserialize(b []byte, policy config.Policy) (*SkipList, error) {
	d := wire.NewDecoder(b)
	scopeBytes := []byte(d.DecodeString())
	extra := []byte(d.DecodeString())
	n := int(d.DecodeInt32())
	periods := make([]tstamp.Period, 0, n)
	for i := 0; i < n; i++ {
		lower := d.DecodeTime()
		upper := d.DecodeTime()
		lowerInc := d.DecodeBool()
		upperInc := d.DecodeBool()
		p, err := tstamp.NewPeriod(lower, upper, lowerInc, upperInc)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	s := New(policy)
	if err := s.Scope.UnmarshalBinary(scopeBytes); err != nil {
		s.Scope = uuid.New()
	}
	s.extra = extra
	s.Splice(periods)
	return s, nil
}
