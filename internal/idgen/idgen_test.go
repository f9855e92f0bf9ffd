package idgen

import (
	"regexp"
	"testing"
)

func TestCommandID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(CommandPrefix) + `[a-zA-Z0-9]{12}$`)
	for i := 0; i < 100; i++ {
		id, err := CommandID()
		if err != nil {
			t.Fatalf("CommandID() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("CommandID() = %q, does not match %s", id, pattern)
		}
	}
}

func TestCommandID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := CommandID()
		if err != nil {
			t.Fatalf("CommandID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestSequence(t *testing.T) {
	next := Sequence("cmd-")
	for _, want := range []string{"cmd-1", "cmd-2", "cmd-3"} {
		got, err := next()
		if err != nil {
			t.Fatalf("Sequence error: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
