package perftest

import (
	"math"
	"math/rand/v2"
)

const (
	AMin int64 = 0

	RCMin int64 = 1
	RCMax int64 = 9
	RDMin int64 = -(1 << 30)

	SFMin int64 = 31
	SFMax int64 = 99
	SGMax int64 = 1 << 30
)

// NewRand returns the single random stream shared by every draw of a run.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// DatasetParams describes how one relation is generated. Column a is the
// shared join attribute, the key column carries the selectivity and the
// payload column is filler.
type DatasetParams struct {
	Name    string
	Header  [3]string
	NumRows int

	AMin, AMax     int64
	KeyMin, KeyMax int64
	SelRate        float64
	PayloadMin     int64
	PayloadMax     int64
}

func RParams(c Config) DatasetParams {
	return DatasetParams{
		Name:       "r",
		Header:     [3]string{"ra", "rc", "rd"},
		NumRows:    c.NumR,
		AMin:       AMin,
		AMax:       c.AMax,
		KeyMin:     RCMin,
		KeyMax:     RCMax,
		SelRate:    c.SelRateR,
		PayloadMin: RDMin,
		PayloadMax: 0,
	}
}

func SParams(c Config) DatasetParams {
	return DatasetParams{
		Name:       "s",
		Header:     [3]string{"sa", "sf", "sg"},
		NumRows:    c.NumS,
		AMin:       AMin,
		AMax:       c.AMax,
		KeyMin:     SFMin,
		KeyMax:     SFMax,
		SelRate:    c.SelRateS,
		PayloadMin: 0,
		PayloadMax: SGMax,
	}
}

// MatchingRows is the exact number of rows whose key falls in [KeyMin, KeyMax].
func (p DatasetParams) MatchingRows() int {
	return int(math.Floor(p.SelRate * float64(p.NumRows)))
}

// NotMatch is the sentinel key given to every non-matching row. It lies
// just above the key range, and the key ranges of r and s are disjoint.
func (p DatasetParams) NotMatch() int64 {
	return p.KeyMax + 1
}

// IsMatching reports whether key lies in the matching key range.
func (p DatasetParams) IsMatching(key int64) bool {
	return key >= p.KeyMin && key <= p.KeyMax
}

type Row [3]int64

// Dataset is a generated relation stored column-wise.
type Dataset struct {
	Params  DatasetParams
	A       []int64
	Key     []int64
	Payload []int64
}

func (d *Dataset) Len() int { return len(d.A) }

func (d *Dataset) Row(i int) Row {
	return Row{d.A[i], d.Key[i], d.Payload[i]}
}

// Generate draws a dataset from rng. The draw order is fixed: all a values,
// then the matching keys, then the payload, then one shuffle per column in
// the same order. Changing it changes every dataset generated for a seed.
func Generate(rng *rand.Rand, p DatasetParams) *Dataset {
	n := p.NumRows
	d := &Dataset{
		Params:  p,
		A:       make([]int64, n),
		Key:     make([]int64, n),
		Payload: make([]int64, n),
	}

	for i := range d.A {
		d.A[i] = uniform(rng, p.AMin, p.AMax)
	}

	matching := p.MatchingRows()
	notMatch := p.NotMatch()
	for i := range d.Key {
		if i < matching {
			d.Key[i] = uniform(rng, p.KeyMin, p.KeyMax)
		} else {
			d.Key[i] = notMatch
		}
	}

	for i := range d.Payload {
		d.Payload[i] = uniform(rng, p.PayloadMin, p.PayloadMax)
	}

	// columns are shuffled independently, so a row's key says nothing about its a or payload
	shuffle(rng, d.A)
	shuffle(rng, d.Key)
	shuffle(rng, d.Payload)

	return d
}

// uniform returns an integer in [lo, hi]. hi must not be below lo.
func uniform(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int64N(hi-lo+1)
}

func shuffle(rng *rand.Rand, col []int64) {
	rng.Shuffle(len(col), func(i, j int) {
		col[i], col[j] = col[j], col[i]
	})
}
