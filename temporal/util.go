package temporal

import "sort"

func sortInsts(insts []Inst) {
	sort.Slice(insts, func(i, j int) bool { return insts[i].T.Before(insts[j].T) })
}
