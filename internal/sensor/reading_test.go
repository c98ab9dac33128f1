package sensor

import (
	"errors"
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	got, err := Convert([]uint16{1000, 500, 950})
	if err != nil {
		t.Fatalf("Convert err=%v", err)
	}
	want := Reading{TemperatureC: 100.0, DissolvedOxygenMgL: 5.0, SaturationPct: 95.0}
	if got != want {
		t.Fatalf("Convert = %+v, want %+v", got, want)
	}
}

func TestConvert_WrongLength(t *testing.T) {
	for _, raw := range [][]uint16{nil, {1, 2}, {1, 2, 3, 4}} {
		_, err := Convert(raw)
		var ce *ConversionError
		if !errors.As(err, &ce) {
			t.Fatalf("Convert(%v) err=%v, want ConversionError", raw, err)
		}
		if ce.Got != len(raw) {
			t.Fatalf("ConversionError.Got=%d, want %d", ce.Got, len(raw))
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	cases := [][]uint16{
		{0, 0, 0},
		{235, 720, 981},
		{1, 1, 1},
		{65535, 65535, 65535},
		{187, 4, 4},
	}
	for _, raw := range cases {
		r, err := Convert(raw)
		if err != nil {
			t.Fatalf("Convert(%v) err=%v", raw, err)
		}
		back := []float64{
			r.TemperatureC * TemperatureScale,
			r.DissolvedOxygenMgL * DissolvedOxygenScale,
			r.SaturationPct * SaturationScale,
		}
		for i, v := range back {
			if math.Abs(v-float64(raw[i])) > 1e-9 {
				t.Fatalf("round trip %v: index %d got %v", raw, i, v)
			}
		}
	}
}

func TestFormatRecord(t *testing.T) {
	r := Reading{TemperatureC: 23.5, DissolvedOxygenMgL: 7.2, SaturationPct: 98.1}
	if got, want := FormatRecord(r), "23.5;°C;7.2;mg/L;98.1;%;"; got != want {
		t.Fatalf("FormatRecord = %q, want %q", got, want)
	}
}

func TestFormatHuman(t *testing.T) {
	r := Reading{TemperatureC: 23.5, DissolvedOxygenMgL: 7.2, SaturationPct: 98.1}
	if got, want := FormatHuman(r), "Temp:23.5°C, DO:7.2mg/L, Sat:98.1%"; got != want {
		t.Fatalf("FormatHuman = %q, want %q", got, want)
	}
}

func TestFormat_FromConvertedRaw(t *testing.T) {
	r, err := Convert([]uint16{235, 720, 981})
	if err != nil {
		t.Fatalf("Convert err=%v", err)
	}
	if got, want := FormatRecord(r), "23.5;°C;7.2;mg/L;98.1;%;"; got != want {
		t.Fatalf("FormatRecord = %q, want %q", got, want)
	}
}
