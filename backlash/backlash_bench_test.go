package backlash

import (
	"math"
	"testing"
)

func BenchmarkProcessSample(b *testing.B) {
	m, err := New(2, 0.5)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	in := make([]float64, 1024)
	for i := range in {
		in[i] = 1.5 * math.Sin(2*math.Pi*float64(i)/128)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.ProcessSample(in[i%len(in)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	m, err := New(2, 0.5)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	src := make([]float64, 4096)
	for i := range src {
		src[i] = 1.5 * math.Sin(2*math.Pi*float64(i)/128)
	}
	dst := make([]float64, len(src))

	b.SetBytes(int64(len(src) * 8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Process(dst, src); err != nil {
			b.Fatal(err)
		}
	}
}
