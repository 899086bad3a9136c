package utils

import "testing"

func TestMinInt(t *testing.T) {
	if got := MinInt(2, 5); got != 2 {
		t.Errorf("MinInt(2, 5) = %d, want 2", got)
	}
	if got := MinInt(7, 3); got != 3 {
		t.Errorf("MinInt(7, 3) = %d, want 3", got)
	}
}

func TestRoundFloat(t *testing.T) {
	testCases := []struct {
		val       float64
		precision uint
		want      float64
	}{
		{3.14159, 2, 3.14},
		{2.5, 0, 3},
		{99.999, 2, 100},
		{1.0, 0, 1},
	}
	for _, tc := range testCases {
		if got := RoundFloat(tc.val, tc.precision); got != tc.want {
			t.Errorf("RoundFloat(%v, %d) = %v, want %v", tc.val, tc.precision, got, tc.want)
		}
	}
}
