package sound

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/gonewx/weather-overlay/pkg/lightning"
)

// drain streams s to the end and returns every sample.
func drain(t *testing.T, s beep.Streamer, limit int) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
		if len(out) > limit {
			t.Fatalf("streamer did not end within %d samples", limit)
		}
	}
}

func TestRumble_Terminates(t *testing.T) {
	r := NewRumble(sampleRate, 200*time.Millisecond, 0.9, rand.New(rand.NewSource(1)))
	want := sampleRate.N(200 * time.Millisecond)

	if r.Len() != want {
		t.Errorf("Len() = %d, want %d", r.Len(), want)
	}

	samples := drain(t, r, want*2)
	if len(samples) != want {
		t.Errorf("streamed %d samples, want %d", len(samples), want)
	}
	for i, s := range samples {
		if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
			t.Fatalf("sample %d = %v", i, s)
		}
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v", r.Err())
	}

	if n, ok := r.Stream(make([][2]float64, 16)); n != 0 || ok {
		t.Errorf("Stream after end = %d, %v", n, ok)
	}
}

func TestRumble_StartsSilentAndFades(t *testing.T) {
	r := NewRumble(sampleRate, time.Second, 0.5, rand.New(rand.NewSource(2)))
	samples := drain(t, r, sampleRate.N(2*time.Second))

	if samples[0][0] != 0 {
		t.Errorf("first sample = %v, want 0 (attack)", samples[0][0])
	}

	peak := func(from, to int) float64 {
		m := 0.0
		for _, s := range samples[from:to] {
			if v := s[0]; v > m {
				m = v
			} else if -v > m {
				m = -v
			}
		}
		return m
	}
	n := len(samples)
	if head, tail := peak(0, n/4), peak(3*n/4, n); tail >= head {
		t.Errorf("rumble does not fade: head peak %v, tail peak %v", head, tail)
	}
}

func TestThunder_StreamerBounded(t *testing.T) {
	th := NewThunder(true, 0.6)
	limit := sampleRate.N(maxDelay + maxRumble)

	for _, b := range []float64{0, 0.5, 1} {
		samples := drain(t, th.Streamer(lightning.Flash{DurationMs: 200, Brightness: b}), limit)
		if len(samples) == 0 || len(samples) > limit {
			t.Errorf("brightness %v: %d samples, want (0, %d]", b, len(samples), limit)
		}
	}
}

func TestThunder_ZeroVolumeIsSilent(t *testing.T) {
	th := NewThunder(true, 0.6)
	th.SetVolume(-1)

	for i, s := range drain(t, th.Streamer(lightning.Flash{Brightness: 1}), sampleRate.N(maxDelay+maxRumble)) {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d = %v, want silence", i, s)
		}
	}
}

func TestThunder_OnFlashWithoutDeviceIsNoop(t *testing.T) {
	th := NewThunder(true, 1)
	th.OnFlash(lightning.Flash{DurationMs: 200, Brightness: 1})
	th.Close()
}
