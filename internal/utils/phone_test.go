package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0812345678", "+66812345678", false},
		{"+66812345678", "+66812345678", false},
		{"66812345678", "+66812345678", false},
		{"081-234-5678", "+66812345678", false},
		{"081 234 5678", "+66812345678", false},
		{"hello", "", true},
		{"12", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizePhone(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePhone(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
