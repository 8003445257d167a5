package testutil

// SeqRand replays a fixed sequence of values, cycling when exhausted.
// An empty sequence always yields 0.5, which produces zero jitter.
type SeqRand struct {
	Values []float64
	next   int
}

// NewSeqRand creates a SeqRand.
func NewSeqRand(values ...float64) *SeqRand {
	return &SeqRand{Values: values}
}

func (r *SeqRand) Float64() float64 {
	if len(r.Values) == 0 {
		return 0.5
	}
	v := r.Values[r.next%len(r.Values)]
	r.next++
	return v
}

// Calls reports how many values were drawn.
func (r *SeqRand) Calls() int {
	return r.next
}
