package weight

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/uavsizer/internal/core"
)

func TestMTOWFromPayload(t *testing.T) {
	mtow, err := MTOWFromPayload(0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(mtow-1.788395) > 1e-6 {
		t.Errorf("expected mtow 1.788395, got %f", mtow)
	}
}

func TestPayloadFromMTOW(t *testing.T) {
	est, err := Resolve(TargetMTOW, 1.788395)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(est.Payload-0.25) > 0.01 {
		t.Errorf("expected payload ~0.25, got %f", est.Payload)
	}
}

func TestRoundTrip(t *testing.T) {
	mtows := []float64{MinMTOW + 1e-3, 0.61, 0.7}
	for m := 0.8; m <= 50; m += 0.7 {
		mtows = append(mtows, m)
	}
	mtows = append(mtows, 50)

	for _, mtow := range mtows {
		payload, err := PayloadFromMTOW(mtow)
		if err != nil {
			t.Fatalf("mtow %f: %v", mtow, err)
		}
		back, err := MTOWFromPayload(payload)
		if err != nil {
			t.Fatalf("payload %f: %v", payload, err)
		}
		if rel := math.Abs(back-mtow) / mtow; rel > 0.005 {
			t.Errorf("mtow %f round-trips to %f (%.2f%%)", mtow, back, rel*100)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	for payload := 0.2; payload <= 50; payload += 0.35 {
		mtow, err := MTOWFromPayload(payload)
		if err != nil {
			t.Fatalf("payload %f: %v", payload, err)
		}
		back, err := PayloadFromMTOW(mtow)
		if err != nil {
			t.Fatalf("mtow %f: %v", mtow, err)
		}
		if rel := math.Abs(back-payload) / payload; rel > 0.005 {
			t.Errorf("payload %f round-trips to %f (%.2f%%)", payload, back, rel*100)
		}
	}
}

func TestLightMTOW(t *testing.T) {
	if math.Abs(MinMTOW-0.5996) > 1e-3 {
		t.Errorf("expected zero-payload mtow ~0.5996, got %f", MinMTOW)
	}
	for _, mtow := range []float64{0.2, 0.4, 0.59, MinMTOW} {
		_, err := PayloadFromMTOW(mtow)
		var se *core.StageError
		if !errors.As(err, &se) || !errors.Is(err, core.ErrDomain) {
			t.Errorf("mtow %f: expected domain error, got %v", mtow, err)
			continue
		}
		if se.AllowedRange != "> 0.5996 kg" {
			t.Errorf("mtow %f: expected bound in allowed range, got %q", mtow, se.AllowedRange)
		}
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"zero payload", func() error { _, err := MTOWFromPayload(0); return err }},
		{"negative payload", func() error { _, err := MTOWFromPayload(-1); return err }},
		{"payload above band", func() error { _, err := MTOWFromPayload(51); return err }},
		{"negative mtow", func() error { _, err := PayloadFromMTOW(-2); return err }},
		{"mtow too light", func() error { _, err := PayloadFromMTOW(0.5); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, core.ErrDomain) {
				t.Errorf("expected ErrDomain, got %v", err)
			}
		})
	}
}

func TestUnknownTarget(t *testing.T) {
	if _, err := Resolve("volume", 1); !errors.Is(err, core.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}
