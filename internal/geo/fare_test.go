package geo

import "testing"

func TestCalculateFare(t *testing.T) {
	schedule := DefaultFareSchedule()

	tests := []struct {
		name         string
		distanceKm   float64
		minutes      int
		surge        float64
		wantDistance int64
		wantTime     int64
		wantSubtotal int64
		wantTotal    int64
	}{
		{
			name:         "zero distance pays base plus one minute",
			distanceKm:   0,
			minutes:      1,
			surge:        1.0,
			wantDistance: 0,
			wantTime:     2000,
			wantSubtotal: 17000,
			wantTotal:    17000,
		},
		{
			name:         "no surge",
			distanceKm:   5.5,
			minutes:      15,
			surge:        1.0,
			wantDistance: 66000,
			wantTime:     30000,
			wantSubtotal: 111000,
			wantTotal:    111000,
		},
		{
			name:         "surge applies to subtotal",
			distanceKm:   5.5,
			minutes:      15,
			surge:        1.5,
			wantDistance: 66000,
			wantTime:     30000,
			wantSubtotal: 111000,
			wantTotal:    166500,
		},
		{
			name:         "distance fare truncates",
			distanceKm:   1.23456,
			minutes:      2,
			surge:        1.0,
			wantDistance: 14814,
			wantTime:     4000,
			wantSubtotal: 33814,
			wantTotal:    33814,
		},
		{
			name:         "surged total truncates",
			distanceKm:   1.0,
			minutes:      3,
			surge:        1.05,
			wantDistance: 12000,
			wantTime:     6000,
			wantSubtotal: 33000,
			wantTotal:    34650,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFare(tt.distanceKm, tt.minutes, tt.surge, schedule)
			if got.BaseFare != schedule.BaseFare {
				t.Errorf("BaseFare = %d, want %d", got.BaseFare, schedule.BaseFare)
			}
			if got.DistanceFare != tt.wantDistance {
				t.Errorf("DistanceFare = %d, want %d", got.DistanceFare, tt.wantDistance)
			}
			if got.TimeFare != tt.wantTime {
				t.Errorf("TimeFare = %d, want %d", got.TimeFare, tt.wantTime)
			}
			if got.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %d, want %d", got.Subtotal, tt.wantSubtotal)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
			if got.SurgeMultiplier != tt.surge {
				t.Errorf("SurgeMultiplier = %v, want %v", got.SurgeMultiplier, tt.surge)
			}
		})
	}
}

func TestCalculateFare_NeutralSurgeIsNoOp(t *testing.T) {
	schedule := DefaultFareSchedule()
	for _, d := range []float64{0, 0.4, 0.757, 3.3, 12.9, 48.2} {
		minutes := EstimateDuration(d, 1.0)
		got := CalculateFare(d, minutes, 1.0, schedule)
		if got.Total != got.BaseFare+got.DistanceFare+got.TimeFare {
			t.Errorf("distance %v: total %d != base+distance+time %d", d, got.Total, got.BaseFare+got.DistanceFare+got.TimeFare)
		}
	}
}

func TestCalculateFare_CustomSchedule(t *testing.T) {
	schedule := FareSchedule{BaseFare: 100, PerKmRate: 50, PerMinuteRate: 10}
	got := CalculateFare(2, 4, 2.0, schedule)
	if got.Subtotal != 240 || got.Total != 480 {
		t.Errorf("got subtotal %d total %d, want 240 and 480", got.Subtotal, got.Total)
	}
}
