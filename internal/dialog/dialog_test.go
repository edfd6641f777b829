package dialog

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTerminal_Prompt(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("Write report\n2025-01-01T10:00\n"), &out, false)

	v, ok, err := term.Prompt(context.Background(), Form{Title: "Tambahkan Tugas Baru"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok")
	}
	if v.Text != "Write report" || v.Deadline != "2025-01-01T10:00" {
		t.Errorf("unexpected values: %+v", v)
	}
	if !strings.HasPrefix(out.String(), "Tambahkan Tugas Baru\n") {
		t.Errorf("expected title first, got %q", out.String())
	}
}

func TestTerminal_EmptyAnswerKeepsPrefill(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\n2025-02-02T08:00\n"), &out, false)

	v, ok, err := term.Prompt(context.Background(), Form{Title: "Edit Tugas", Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err != nil || !ok {
		t.Fatalf("expected ok, got ok=%v err=%v", ok, err)
	}
	if v.Text != "Buy milk" {
		t.Errorf("expected pre-filled text, got %q", v.Text)
	}
	if v.Deadline != "2025-02-02T08:00" {
		t.Errorf("expected new deadline, got %q", v.Deadline)
	}
	if !strings.Contains(out.String(), "Nama tugas [Buy milk]: ") {
		t.Errorf("expected pre-filled prompt, got %q", out.String())
	}
}

func TestTerminal_DefaultsFillEmptyForm(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\n2025-03-03T09:30\n"), &out, false).
		WithDefaults(Values{Text: "Call mom"})

	v, ok, err := term.Prompt(context.Background(), Form{Title: "Tambahkan Tugas Baru"})
	if err != nil || !ok {
		t.Fatalf("expected ok, got ok=%v err=%v", ok, err)
	}
	if v.Text != "Call mom" || v.Deadline != "2025-03-03T09:30" {
		t.Errorf("unexpected values: %+v", v)
	}
	if !strings.Contains(out.String(), "Nama tugas [Call mom]: ") {
		t.Errorf("expected default in prompt, got %q", out.String())
	}
}

func TestTerminal_EOFCancels(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("Only text\n"), &out, false)

	_, ok, err := term.Prompt(context.Background(), Form{Title: "Tambahkan Tugas Baru"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected cancel at end of input")
	}
}

func TestTerminal_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("a\nb"), &out, false)

	v, ok, err := term.Prompt(context.Background(), Form{})
	if err != nil || !ok {
		t.Fatalf("expected ok, got ok=%v err=%v", ok, err)
	}
	if v.Deadline != "b" {
		t.Errorf("expected %q, got %q", "b", v.Deadline)
	}
}

func TestTerminal_NotifyQuiet(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out, true)
	term.Notify(context.Background(), Notice{Title: "Sukses!", Text: "Tugas berhasil ditambahkan."})
	if out.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", out.String())
	}
}

func TestPreset(t *testing.T) {
	var out bytes.Buffer
	p := NewPreset(Values{Deadline: "2025-03-03T03:03"}, &out, false)

	v, ok, err := p.Prompt(context.Background(), Form{Text: "Buy milk", Deadline: "2025-01-01T10:00"})
	if err != nil || !ok {
		t.Fatalf("expected ok, got ok=%v err=%v", ok, err)
	}
	if v.Text != "Buy milk" || v.Deadline != "2025-03-03T03:03" {
		t.Errorf("unexpected values: %+v", v)
	}

	p.Notify(context.Background(), Notice{Title: "Dihapus!", Text: "Tugas berhasil dihapus."})
	if out.String() != "Dihapus! Tugas berhasil dihapus.\n" {
		t.Errorf("unexpected notice output %q", out.String())
	}
}
