package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/arbiterx/internal/primitives"
)

func BenchmarkResolve(b *testing.B) {
	for _, n := range []int{1, 10, 100, 1000} {
		b.Run(fmt.Sprintf("processes=%d", n), func(b *testing.B) {
			a := NewArbiter(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := a.Resolve(primitives.NewTickEvent(uint64(i+1), false, true)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveUnsafe(b *testing.B) {
	a := NewArbiter(100)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Resolve(primitives.NewTickEvent(uint64(i+1), i%7 == 0, i%2 == 0)); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGenProcessesRanking(t *testing.T) {
	a := NewArbiter(4)
	res, err := a.Resolve(primitives.NewTickEvent(1, false, true))
	if err != nil {
		t.Fatal(err)
	}
	// p3 has priority 3, the highest of p0..p3.
	if got := res.Process.Name(); got != "p3" {
		t.Errorf("winner = %s, want p3", got)
	}
}
