package core

import (
	"encoding/json"
	"testing"
)

func TestDateUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"2025-03-09"`, "2025-03-09"},
		{`"2025-03-09T14:30:00Z"`, "2025-03-09"},
		{`"2024-12-31T23:59:59-03:00"`, "2024-12-31"},
	}
	for _, tc := range cases {
		var d Date
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if d.ISO() != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.in, tc.want, d.ISO())
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2025, 1, 3)
	if got := d.AddDays(-7).ISO(); got != "2024-12-27" {
		t.Fatalf("expected 2024-12-27, got %s", got)
	}
}
