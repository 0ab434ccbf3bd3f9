package meteo

import "testing"

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"-", nil},
		{"abc", nil},
		{"12.5", floatPtr(12.5)},
		{" 3.0 ", floatPtr(3.0)},
		{"-4.2", floatPtr(-4.2)},
		{"0", floatPtr(0)},
	}

	for _, tc := range cases {
		got := ParseFloat(tc.in)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("ParseFloat(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("ParseFloat(%q) = %v, want %v", tc.in, *got, *tc.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("42"); got == nil || *got != 42 {
		t.Errorf("ParseInt(42) = %v", got)
	}
	for _, in := range []string{"", "-", "4.2", "abc"} {
		if got := ParseInt(in); got != nil {
			t.Errorf("ParseInt(%q) = %v, want nil", in, *got)
		}
	}
}

func TestMeasurementAbsentIsDistinctFromZero(t *testing.T) {
	absent := NewMeasurement("-", UnitCelsius)
	if !absent.Absent() {
		t.Fatal("sentinel value should be absent")
	}
	zero := NewMeasurement("0", UnitCelsius)
	if zero.Absent() {
		t.Fatal("reported zero must not be absent")
	}
	if *zero.Value != 0 || zero.Unit != UnitCelsius {
		t.Fatalf("unexpected measurement: %+v", zero)
	}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
