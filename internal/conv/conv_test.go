package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	for _, n := range []int{0, 1, 42, math.MaxInt32} {
		if got := IntToUint32(n); int(got) != n {
			t.Errorf("IntToUint32(%d) = %d", n, got)
		}
	}
}

func TestIntToUint32_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}
