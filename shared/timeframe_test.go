package shared

import (
	"testing"
	"time"
)

func TestTimeframe(t *testing.T) {
	tests := []struct {
		name         string
		timeframe    Timeframe
		wantString   string
		wantDuration time.Duration
	}{
		{
			name:         "five minute",
			timeframe:    FiveMinute,
			wantString:   "5m",
			wantDuration: time.Minute * 5,
		},
		{
			name:         "fifteen minute",
			timeframe:    FifteenMinute,
			wantString:   "15m",
			wantDuration: time.Minute * 15,
		},
		{
			name:         "one hour",
			timeframe:    OneHour,
			wantString:   "1h",
			wantDuration: time.Hour,
		},
		{
			name:         "unknown",
			timeframe:    Timeframe(999),
			wantString:   "unknown",
			wantDuration: 0,
		},
	}

	for _, test := range tests {
		str := test.timeframe.String()
		if str != test.wantString {
			t.Errorf("%s: expected %v, got %v", test.name, test.wantString, str)
		}

		duration := test.timeframe.Duration()
		if duration != test.wantDuration {
			t.Errorf("%s: expected %v, got %v", test.name, test.wantDuration, duration)
		}
	}
}

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		name      string
		timeframe string
		want      Timeframe
		wantErr   bool
	}{
		{
			name:      "five minute",
			timeframe: "5m",
			want:      FiveMinute,
		},
		{
			name:      "fifteen minute",
			timeframe: "15m",
			want:      FifteenMinute,
		},
		{
			name:      "one hour",
			timeframe: "1h",
			want:      OneHour,
		},
		{
			name:      "unknown",
			timeframe: "3d",
			wantErr:   true,
		},
	}

	for _, test := range tests {
		timeframe, err := ParseTimeframe(test.timeframe)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got none", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if timeframe != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, timeframe)
		}
	}
}
