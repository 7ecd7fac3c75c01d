package leftright

// counterOp and counter give the white-box tests in this package (and the
// concrete end-to-end scenarios from spec §8) a minimal T/O pair to exercise
// Publish/Append/Take against, the same role CounterAddOp plays in the
// original crate's write.rs tests.

type counter int32

type counterOp struct {
	delta int32
}

func (c *counter) AbsorbFirst(op *counterOp, _ *counter) {
	*c += counter(op.delta)
}

func (c *counter) AbsorbSecond(op counterOp, other *counter) {
	DefaultAbsorbSecond(c.AbsorbFirst, op, other)
}

func (c *counter) SyncWith(first *counter) {
	*c = *first
}

func addOp(n int32) counterOp { return counterOp{delta: n} }

func newCounterPair() (*WriteHandle[counter, counterOp, *counter], *ReadHandle[counter]) {
	return New[counter, counterOp, *counter]()
}

func newCounterPairFrom(initial counter) (*WriteHandle[counter, counterOp, *counter], *ReadHandle[counter]) {
	return NewFromEmpty[counter, counterOp, *counter](initial, func(c counter) counter { return c })
}
