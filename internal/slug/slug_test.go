package slug

import (
	"regexp"
	"testing"
)

func TestGenerate(t *testing.T) {
	cases := []struct {
		name   string
		serial string
		want   string
	}{
		{"Toyota SWE 200D", "ABC-123", "toyota-swe-200d-abc-123"},
		{"Toyota SWE 200D", "", "toyota-swe-200d"},
		{"  Linde   H25T  ", "", "linde-h25t"},
		{"Still RX/20-16", "S#99", "still-rx20-16-s99"},
		{"ÅÄÖ", "", ""},
		{"", "", ""},
		{"---", "", ""},
	}

	for _, tc := range cases {
		if got := Generate(tc.name, tc.serial); got != tc.want {
			t.Errorf("Generate(%q, %q) = %q, want %q", tc.name, tc.serial, got, tc.want)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate("Toyota SWE 200D", "ABC-123")
	b := Generate("Toyota SWE 200D", "ABC-123")
	if a != b {
		t.Fatalf("two calls differ: %q vs %q", a, b)
	}
}

func TestGenerateCharacterSet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)
	inputs := [][2]string{
		{"Toyota SWE 200D", "ABC-123"},
		{"Hyster H2.5FT (gas)", "HY 001"},
		{"JUNGHEINRICH EFG 216k", "WJH-2016/44"},
	}
	for _, in := range inputs {
		got := Generate(in[0], in[1])
		if got == "" {
			t.Errorf("Generate(%q, %q) unexpectedly empty", in[0], in[1])
			continue
		}
		if !valid.MatchString(got) {
			t.Errorf("Generate(%q, %q) = %q contains invalid characters", in[0], in[1], got)
		}
	}
}

func TestAssignerCollisionSuffix(t *testing.T) {
	a := NewAssigner()

	first, err := a.Assign("Model X", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assign("Model X", "")
	if err != nil {
		t.Fatal(err)
	}

	if first != "model-x" {
		t.Errorf("first = %q, want %q", first, "model-x")
	}
	if second != "model-x-1" {
		t.Errorf("second = %q, want %q", second, "model-x-1")
	}

	third, _ := a.Assign("Model X", "")
	if third != "model-x-2" {
		t.Errorf("third = %q, want %q", third, "model-x-2")
	}
}

func TestAssignerReserveProtectsExisting(t *testing.T) {
	a := NewAssigner()
	a.Reserve("toyota-swe-200d-abc-123")

	got, err := a.Assign("Toyota SWE 200D", "ABC-123")
	if err != nil {
		t.Fatal(err)
	}
	if got != "toyota-swe-200d-abc-123-1" {
		t.Errorf("got %q, want suffixed slug", got)
	}
}

func TestAssignEmptyInputs(t *testing.T) {
	a := NewAssigner()
	if _, err := a.Assign("", ""); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
