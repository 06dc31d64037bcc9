package vm

// cowCaptures is a thread's view of its capture slots. Threads forked at a
// Split point at the same backing array until one of them writes.
type cowCaptures struct {
	shared *sharedCaptures
}

type sharedCaptures struct {
	data []int
	refs int
}

// newCaptures returns n unset (-1) slots with a single owner.
func newCaptures(n int) cowCaptures {
	data := make([]int, n)
	for i := range data {
		data[i] = -1
	}
	return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
}

// clone adds an owner. Owners are never released when a thread dies, so a
// later update may copy slots nobody else reads.
func (c cowCaptures) clone() cowCaptures {
	if c.shared == nil {
		return cowCaptures{}
	}
	c.shared.refs++
	return cowCaptures{shared: c.shared}
}

// update writes value into slot. Out of range slots are ignored.
func (c cowCaptures) update(slot, value int) cowCaptures {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.data) {
		return c
	}
	if c.shared.refs == 1 {
		c.shared.data[slot] = value
		return c
	}
	c.shared.refs--
	data := make([]int, len(c.shared.data))
	copy(data, c.shared.data)
	data[slot] = value
	return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
}

// copyData detaches the slots from every owner.
func (c cowCaptures) copyData() []int {
	if c.shared == nil {
		return nil
	}
	dst := make([]int, len(c.shared.data))
	copy(dst, c.shared.data)
	return dst
}
