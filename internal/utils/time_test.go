package utils

import (
	"testing"
	"time"
)

func TestHumanElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "Waiting for confirmation... 0s elapsed"},
		{45 * time.Second, "Waiting for confirmation... 45s elapsed"},
		{60 * time.Second, "Waiting for confirmation... 1m 0s elapsed"},
		{90 * time.Second, "Waiting for confirmation... 1m 30s elapsed"},
		{125 * time.Second, "Waiting for confirmation... 2m 5s elapsed"},
	}
	for _, c := range cases {
		if got := HumanElapsed(c.d); got != c.want {
			t.Errorf("HumanElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-09-01 ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if FormatDate(d) != "2026-09-01" {
		t.Fatalf("round trip broke: %s", FormatDate(d))
	}

	if _, err := ParseDate("01/09/2026"); err == nil {
		t.Fatalf("slash-formatted dates must be rejected")
	}
}
