package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.34", want: "12.34"},
		{in: "12,34", want: "12.34"},
		{in: "12.345", want: "12.35"},
		{in: "12.344", want: "12.34"},
		{in: " 7 ", want: "7"},
		{in: "0", wantErr: true},
		{in: "0.004", wantErr: true},
		{in: "-3.50", wantErr: true},
		{in: "+3.50", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
