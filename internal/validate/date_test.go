package validate

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-03-20", time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), false},
		{" 2026-03-20T17:30 ", time.Date(2026, 3, 20, 17, 30, 0, 0, time.UTC), false},
		{"2026-03-20T17:30:15", time.Date(2026, 3, 20, 17, 30, 15, 0, time.UTC), false},
		{"2026-03-20T17:30:00Z", time.Date(2026, 3, 20, 17, 30, 0, 0, time.UTC), false},
		{"2026-03-20T17:30:00+02:00", time.Date(2026, 3, 20, 15, 30, 0, 0, time.UTC), false},
		{"next tuesday", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
