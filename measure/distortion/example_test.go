package distortion_test

import (
	"fmt"
	"math"

	"github.com/famura/blm/measure/distortion"
)

func ExampleAnalyzeSignal() {
	// 8 cycles across 64 samples land on analysis bin 8.
	x := make([]float64, 64)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 8 * float64(i) / 64)
	}

	res, err := distortion.AnalyzeSignal(x, distortion.Config{})
	if err != nil {
		panic(err)
	}

	fmt.Println("fundamental bin:", res.FundamentalBin)

	// Output:
	// fundamental bin: 8
}
