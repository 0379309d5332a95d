package services

// rideBuffer accumulates accepted rows for one batch, keyed by ride id.
// A later row carrying an id already in the buffer replaces the earlier
// one in place; there is no field-level merge across duplicates. The
// buffer is owned by a single import loop and is never shared.
type rideBuffer struct {
	index map[string]int
	rows  []*RideRow
}

func newRideBuffer(capacity int) *rideBuffer {
	return &rideBuffer{
		index: make(map[string]int, capacity),
		rows:  make([]*RideRow, 0, capacity),
	}
}

func (b *rideBuffer) Put(row *RideRow) {
	if i, ok := b.index[row.RideID]; ok {
		b.rows[i] = row
		return
	}
	b.index[row.RideID] = len(b.rows)
	b.rows = append(b.rows, row)
}

func (b *rideBuffer) Len() int {
	return len(b.rows)
}

func (b *rideBuffer) Rows() []*RideRow {
	return b.rows
}

func (b *rideBuffer) Reset() {
	b.index = make(map[string]int, cap(b.rows))
	b.rows = b.rows[:0]
}
