package countdown

import (
	"strconv"
	"testing"
	"time"

	"tugas/internal/service"
)

var now = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestFormat_Scenario(t *testing.T) {
	// now + 3665s
	got := Format("2025-01-01T11:01:05", now, time.UTC)
	if got != "1j 1m 5s" {
		t.Errorf("expected %q, got %q", "1j 1m 5s", got)
	}
}

func TestFormat_PastDeadline(t *testing.T) {
	got := Format("2025-01-01T09:59:55", now, time.UTC)
	if got != ExpiredText {
		t.Errorf("expected %q, got %q", ExpiredText, got)
	}
}

func TestFormat_ExactlyNow(t *testing.T) {
	got := Format("2025-01-01T10:00", now, time.UTC)
	if got != ExpiredText {
		t.Errorf("expected %q, got %q", ExpiredText, got)
	}
}

func TestFormat_HoursNotFoldedIntoDays(t *testing.T) {
	got := Format("2025-01-03T12:30", now, time.UTC)
	if got != "50j 30m 0s" {
		t.Errorf("expected %q, got %q", "50j 30m 0s", got)
	}
}

func TestFormat_InvalidDeadline(t *testing.T) {
	if got := Format("tomorrow-ish", now, time.UTC); got != ExpiredText {
		t.Errorf("expected %q, got %q", ExpiredText, got)
	}
}

func TestFormat_Location(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 17:30 WIB is 10:30 UTC.
	got := Format("2025-01-01T17:30", now, jakarta)
	if got != "0j 30m 0s" {
		t.Errorf("expected %q, got %q", "0j 30m 0s", got)
	}
	// RFC 3339 carries its own offset.
	got = Format("2025-01-01T10:00:30Z", now, jakarta)
	if got != "0j 0m 30s" {
		t.Errorf("expected %q, got %q", "0j 0m 30s", got)
	}
}

func TestFormatDuration_Decomposition(t *testing.T) {
	for _, secs := range []int{1, 59, 60, 61, 3599, 3600, 3665, 86399, 90061} {
		d := time.Duration(secs) * time.Second
		got := FormatDuration(d)

		h, m, s := secs/3600, (secs%3600)/60, secs%60
		want := strconv.Itoa(h) + "j " + strconv.Itoa(m) + "m " + strconv.Itoa(s) + "s"
		if got != want {
			t.Errorf("%ds: expected %q, got %q", secs, want, got)
		}
	}
}

func TestFormatDuration_SubSecondFloors(t *testing.T) {
	if got := FormatDuration(1500 * time.Millisecond); got != "0j 0m 1s" {
		t.Errorf("expected %q, got %q", "0j 0m 1s", got)
	}
	if got := FormatDuration(400 * time.Millisecond); got != "0j 0m 0s" {
		t.Errorf("expected %q, got %q", "0j 0m 0s", got)
	}
}

func TestParse_Layouts(t *testing.T) {
	for _, s := range []string{
		"2025-01-01T10:00",
		"2025-01-01T10:00:00",
		"2025-01-01 10:00",
		"2025-01-01 10:00:00",
		"2025-01-01T10:00:00Z",
	} {
		got, err := Parse(s, time.UTC)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", s, err)
			continue
		}
		if !got.Equal(now) {
			t.Errorf("%s: expected %v, got %v", s, now, got)
		}
	}
	if _, err := Parse("", time.UTC); err == nil {
		t.Error("expected error for empty deadline")
	}
}

func TestStateOf(t *testing.T) {
	done := service.Task{ID: "1", Completed: true, Deadline: "2000-01-01T00:00"}
	open := service.Task{ID: "2", Deadline: "2000-01-01T00:00"}

	if s := StateOf(done, ExpiredText, true); s != Completed {
		t.Errorf("completed task with past deadline: expected %s, got %s", Completed, s)
	}
	if s := StateOf(done, "", false); s != Completed {
		t.Errorf("completed task before tick: expected %s, got %s", Completed, s)
	}
	if s := StateOf(open, "", false); s != Computing {
		t.Errorf("expected %s, got %s", Computing, s)
	}
	if s := StateOf(open, ExpiredText, true); s != Expired {
		t.Errorf("expected %s, got %s", Expired, s)
	}
	if s := StateOf(open, "1j 0m 0s", true); s != Active {
		t.Errorf("expected %s, got %s", Active, s)
	}
}

func TestText(t *testing.T) {
	if Text("", false) != ComputingText {
		t.Errorf("expected %q before first tick", ComputingText)
	}
	if Text("0j 0m 1s", true) != "0j 0m 1s" {
		t.Error("expected remaining text after tick")
	}
}
