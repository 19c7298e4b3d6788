package perftest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joinbench/perftest"
)

// nestedLoopRows counts join results the slow way.
func nestedLoopRows(r, s *perftest.Dataset, filtered bool) int64 {
	var rows int64
	for i := 0; i < r.Len(); i++ {
		if filtered && !r.Params.IsMatching(r.Key[i]) {
			continue
		}
		for j := 0; j < s.Len(); j++ {
			if filtered && !s.Params.IsMatching(s.Key[j]) {
				continue
			}
			if r.A[i] == s.A[j] {
				rows++
			}
		}
	}
	return rows
}

func Test_ComputeJoinStats(t *testing.T) {
	cfg := perftest.DefaultConfig()
	cfg.NumR, cfg.NumS, cfg.AMax = 300, 200, 50
	cfg.SelRateR, cfg.SelRateS = 0.4, 0.7

	rng := perftest.NewRand(11)
	r := perftest.Generate(rng, perftest.RParams(cfg))
	s := perftest.Generate(rng, perftest.SParams(cfg))

	stats := perftest.ComputeJoinStats(cfg.Seed, perftest.Summarize(r), perftest.Summarize(s))
	require.Equal(t, nestedLoopRows(r, s, false), stats.JoinRows)
	require.Equal(t, nestedLoopRows(r, s, true), stats.FilteredJoinRows)

	require.Equal(t, "r", stats.R.Name)
	require.Equal(t, 300, stats.R.Rows)
	require.Equal(t, 120, stats.R.MatchingRows)
	require.Equal(t, int64(10), stats.R.NotMatch)
	require.Equal(t, 140, stats.S.MatchingRows)
	require.Equal(t, int64(100), stats.S.NotMatch)
	require.LessOrEqual(t, stats.R.DistinctA, 51)
	require.LessOrEqual(t, stats.R.DistinctMatchingA, stats.R.DistinctA)
}

func Test_Histogram(t *testing.T) {
	var h perftest.Histogram
	for _, v := range []int64{5, 1, 5, 3, 5} {
		h.Add(v)
	}
	require.Equal(t, 3, h.Distinct())
	require.Equal(t, 3, h.Count(5))
	require.Equal(t, 0, h.Count(2))

	var seen []int64
	h.Scan(func(v int64, n int) bool {
		seen = append(seen, v)
		return true
	})
	require.Equal(t, []int64{1, 3, 5}, seen)

	var other perftest.Histogram
	other.Add(5)
	other.Add(5)
	other.Add(4)
	require.Equal(t, int64(6), perftest.EquiJoinRows(&h, &other))
	require.Equal(t, int64(6), perftest.EquiJoinRows(&other, &h))
	require.Equal(t, int64(0), perftest.EquiJoinRows(&h, &perftest.Histogram{}))
}
