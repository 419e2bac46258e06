package service

import "testing"

func TestValidateSchedule(t *testing.T) {
	valid := func() *ScheduleRequest {
		return &ScheduleRequest{
			OrganizationID: "org1",
			ZoneID:         "zone1",
			DayOfWeek:      "LUNES",
			StartTime:      "06:00",
			EndTime:        "09:30",
		}
	}

	if err := validateSchedule(valid()); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*ScheduleRequest)
		wantKey string
	}{
		{
			name:    "unknown day",
			mutate:  func(r *ScheduleRequest) { r.DayOfWeek = "FERIADO" },
			wantKey: "day_of_week",
		},
		{
			name:    "malformed start time",
			mutate:  func(r *ScheduleRequest) { r.StartTime = "6am" },
			wantKey: "start_time",
		},
		{
			name:    "end before start",
			mutate:  func(r *ScheduleRequest) { r.EndTime = "05:00" },
			wantKey: "end_time",
		},
		{
			name:    "end equals start",
			mutate:  func(r *ScheduleRequest) { r.EndTime = "06:00" },
			wantKey: "end_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := validateSchedule(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("want *ValidationError, got %T", err)
			}
			if _, found := verr.Fields[tt.wantKey]; !found {
				t.Errorf("expected field error on %q, got %v", tt.wantKey, verr.Fields)
			}
		})
	}
}
