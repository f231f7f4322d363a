package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.Confirm("Rename 12 files?", false)
	if err == nil {
		t.Fatalf("expected error for non-interactive confirm, got ok=%v", ok)
	}
}

func TestConfirm_Force(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.Confirm("Rename 12 files?", true)
	if err != nil || !ok {
		t.Fatalf("Confirm() = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestConfirm_Interactive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		c := Confirmer{
			In:            bytes.NewBufferString(tc.input),
			Out:           &out,
			IsInteractive: func() bool { return true },
		}
		ok, err := c.Confirm("Proceed?", false)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tc.input, err)
		}
		if ok != tc.want {
			t.Fatalf("input %q: got %v, want %v", tc.input, ok, tc.want)
		}
		if !strings.Contains(out.String(), "Proceed? (y/n)") {
			t.Fatalf("prompt not written: %q", out.String())
		}
	}
}

func TestConfirmOverwrite_MentionsPath(t *testing.T) {
	var out bytes.Buffer
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		Out:           &out,
		IsInteractive: func() bool { return true },
	}
	if ok, _ := c.ConfirmOverwrite("VERIFICATION_REPORT.md", false); !ok {
		t.Fatalf("expected ok=true")
	}
	if !strings.Contains(out.String(), "VERIFICATION_REPORT.md") {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestConfirm_SharedReader(t *testing.T) {
	c := Confirmer{
		In:            strings.NewReader("y\nn\n"),
		IsInteractive: func() bool { return true },
	}
	first, _ := c.Confirm("First?", false)
	second, _ := c.Confirm("Second?", false)
	if !first || second {
		t.Fatalf("answers = %v, %v; want true, false", first, second)
	}
}
