package vision

import "testing"

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{"left", Left, false},
		{"MIDDLE", Middle, false},
		{"Right", Right, false},
		{"center", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLocation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLocation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixed(t *testing.T) {
	var s Sensor = Fixed(Right)
	if got := s.Classify(); got != Right {
		t.Errorf("Classify() = %q, want RIGHT", got)
	}
}
