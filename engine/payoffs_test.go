package engine

import "testing"

func TestParseCategoryNormalizesInput(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"gym", CategoryGym},
		{" Gym ", CategoryGym},
		{"JUNKFOOD", CategoryJunkfood},
		{"\twater\n", CategoryWater},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "cardio", "gym session"} {
		if _, err := ParseCategory(in); !IsValidation(err) {
			t.Fatalf("ParseCategory(%q): got %v, want validation error", in, err)
		}
	}
}
