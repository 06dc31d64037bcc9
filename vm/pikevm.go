package vm

import (
	"sync"

	"github.com/coregx/symrex/internal/conv"
	"github.com/coregx/symrex/internal/sparse"
)

// PikeVM executes a Program over a symbol slice.
//
// All live threads advance in lock step, one input symbol per step. Threads
// are kept in priority order: a Split's first target and everything reached
// through it rank above its second target. When the highest-ranked thread
// reaches Match, every thread ranked below it is discarded, which yields
// leftmost-first results with quantifier preferences honoured.
//
// Each PC is entered once per step, so a loop body that can match empty
// never re-enters its own loop head. For Repeat0(Or(Empty, c)) on "c" the
// empty branch dies at the head and the c branch outranks leaving the loop:
// the match is [0,1], although Or(Empty, c) alone matches [0,0].
//
// A PikeVM is immutable after creation and safe for concurrent use. Scratch
// state is taken from a sync.Pool per run.
type PikeVM[I any] struct {
	prog *Program[I]
	pool sync.Pool
}

// thread is a program counter paired with its capture slots.
type thread struct {
	pc   PC
	caps cowCaptures
}

// searchState is the mutable scratch space of one run.
type searchState struct {
	clist   []thread
	nlist   []thread
	visited *sparse.SparseSet
	stack   []thread
}

// NewPikeVM creates a VM for prog. prog must not be modified afterwards.
func NewPikeVM[I any](prog *Program[I]) *PikeVM[I] {
	vm := &PikeVM[I]{prog: prog}
	n := prog.Len()
	vm.pool.New = func() any {
		return &searchState{
			clist:   make([]thread, 0, n),
			nlist:   make([]thread, 0, n),
			visited: sparse.NewSparseSet(conv.IntToUint32(n)),
			stack:   make([]thread, 0, 16),
		}
	}
	return vm
}

// Program returns the program the VM executes.
func (vm *PikeVM[I]) Program() *Program[I] {
	return vm.prog
}

// Run executes the program over input from position 0.
// It returns the capture slots of the winning thread, or nil if no thread
// reached Match.
func (vm *PikeVM[I]) Run(input []I) []int {
	return vm.RunAt(input, 0)
}

// RunAt executes the program over input starting at position at.
// Positions in the result are absolute. Begin still only holds at 0 and End
// at len(input), so anchors keep their meaning when resuming mid-input.
func (vm *PikeVM[I]) RunAt(input []I, at int) []int {
	if at < 0 || at > len(input) {
		return nil
	}
	slots, ok := vm.run(input, at, false)
	if !ok {
		return nil
	}
	return slots
}

// IsMatch reports whether any thread reaches Match.
// It stops at the first Match instead of waiting for the preferred one.
func (vm *PikeVM[I]) IsMatch(input []I) bool {
	_, ok := vm.run(input, 0, true)
	return ok
}

func (vm *PikeVM[I]) run(input []I, at int, earlyExit bool) ([]int, bool) {
	st := vm.pool.Get().(*searchState)
	defer vm.pool.Put(st)

	insts := vm.prog.Insts
	n := len(input)

	var (
		matched []int
		found   bool
	)

	st.clist = st.clist[:0]
	st.visited.Clear()
	vm.add(st, &st.clist, 0, newCaptures(vm.prog.SlotCount()), at, n)

	for pos := at; len(st.clist) > 0; pos++ {
		st.nlist = st.nlist[:0]
		st.visited.Clear()

	step:
		for i := range st.clist {
			t := st.clist[i]
			in := &insts[t.pc]
			switch in.Op {
			case InstMatch:
				matched, found = t.caps.copyData(), true
				if earlyExit {
					return matched, true
				}
				// Lower-priority threads lose to this match.
				break step
			case InstCheck:
				if pos < n && in.Check(input[pos]) {
					vm.add(st, &st.nlist, t.pc+1, t.caps, pos+1, n)
				}
			}
		}

		st.clist, st.nlist = st.nlist, st.clist
		if pos >= n {
			break
		}
	}
	return matched, found
}

// add follows zero-width instructions from pc and appends the Check and
// Match threads it reaches to list, in priority order. Each PC is entered at
// most once per step; the first arrival is the highest-priority one.
func (vm *PikeVM[I]) add(st *searchState, list *[]thread, pc PC, caps cowCaptures, pos, n int) {
	insts := vm.prog.Insts
	st.stack = append(st.stack[:0], thread{pc: pc, caps: caps})

	for len(st.stack) > 0 {
		t := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]

	follow:
		for {
			if !st.visited.Insert(uint32(t.pc)) {
				break
			}
			in := &insts[t.pc]
			switch in.Op {
			case InstJmp:
				t.pc = in.X
			case InstSplit:
				st.stack = append(st.stack, thread{pc: in.Y, caps: t.caps.clone()})
				t.pc = in.X
			case InstSaveOpen, InstSaveClose, InstSaveNamedOpen, InstSaveNamedClose:
				t.caps = t.caps.update(in.Slot(), pos)
				t.pc++
			case InstBegin:
				if pos != 0 {
					break follow
				}
				t.pc++
			case InstEnd:
				if pos != n {
					break follow
				}
				t.pc++
			default:
				*list = append(*list, t)
				break follow
			}
		}
	}
}
