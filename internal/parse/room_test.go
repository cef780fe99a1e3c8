package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoomNumber(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		floorCode string
		want      ParsedRoom
		wantErr   bool
	}{
		{
			name: "plain three-digit number",
			raw:  "301",
			want: ParsedRoom{Number: "301", Floor: 3, Seq: 1},
		},
		{
			name: "wing prefix with dash",
			raw:  "A-301",
			want: ParsedRoom{Number: "A-301", Wing: "A", Floor: 3, Seq: 1},
		},
		{
			name: "wing prefix with space",
			raw:  "B 1204",
			want: ParsedRoom{Number: "B-1204", Wing: "B", Floor: 12, Seq: 4},
		},
		{
			name: "lowercase wing is normalized",
			raw:  "c-512",
			want: ParsedRoom{Number: "C-512", Wing: "C", Floor: 5, Seq: 12},
		},
		{
			name:      "floor code overrides the derived floor",
			raw:       "M-101",
			floorCode: "0",
			want:      ParsedRoom{Number: "M-101", Wing: "M", Floor: 0, Seq: 1},
		},
		{
			name:    "garbage is rejected",
			raw:     "penthouse",
			wantErr: true,
		},
		{
			name:    "too few digits",
			raw:     "A-12",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRoomNumber(tc.raw, tc.floorCode)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
