package backlash_test

import (
	"fmt"

	"github.com/famura/blm/backlash"
)

func ExampleModel_ProcessSample() {
	m, err := backlash.New(2, 1)
	if err != nil {
		panic(err)
	}

	for _, u := range []float64{0, 0.5, 1.5, 2.5} {
		x, err := m.ProcessSample(u)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%g ", x)
	}
	fmt.Println()

	// Output:
	// 0 0 1 3
}

func ExampleModel_Zone() {
	m, err := backlash.New(1, 0.5)
	if err != nil {
		panic(err)
	}

	for _, u := range []float64{0.25, 1.0, 0.9} {
		if _, err := m.ProcessSample(u); err != nil {
			panic(err)
		}
		fmt.Println(m.Zone())
	}

	// Output:
	// dead-zone
	// tracking-upper
	// dead-zone
}
