package stats

import (
	"math"
	"testing"
)

func TestSessionSpeed(t *testing.T) {
	charsPerSec, wpm := SessionSpeed(100, 20000)
	if math.Abs(charsPerSec-5.0) > 1e-9 {
		t.Fatalf("expected 5 chars/s, got %f", charsPerSec)
	}
	if math.Abs(wpm-60.0) > 1e-9 {
		t.Fatalf("expected 60 WPM, got %f", wpm)
	}

	charsPerSec, wpm = SessionSpeed(100, 0)
	if charsPerSec != 0 || wpm != 0 {
		t.Fatalf("expected zero speeds for zero duration, got %f %f", charsPerSec, wpm)
	}
}

func TestMovingAverageWindow(t *testing.T) {
	out := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}
}

func TestMovingAverageNoWindowCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	out := MovingAverage(in, 1)
	out[0] = 99
	if in[0] != 1 {
		t.Fatalf("expected input untouched, got %v", in)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	line := Sparkline([]float64{3, 3, 3})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	mid := string(sparkChars[len(sparkChars)/2])
	if line != mid+mid+mid {
		t.Fatalf("expected flat sparkline, got %q", line)
	}
}
