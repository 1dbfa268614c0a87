package hotkeys

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name  string
		locks []uint16
		want  []uint16
	}{
		{"caps only", []uint16{2, 0, 0}, []uint16{0, 2}},
		{"caps and numlock", []uint16{2, 16, 0}, []uint16{0, 2, 16, 18}},
		{"all three", []uint16{2, 16, 128}, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
		{"numlock same as caps", []uint16{2, 2, 0}, []uint16{0, 2}},
		{"none", nil, []uint16{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ignoreMasks(tt.locks...)); diff != "" {
				t.Fatalf("ignoreMasks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
