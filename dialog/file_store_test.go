package dialog

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "conversations"))
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "t1"); err != nil || ok {
		t.Fatalf("Get() before save = %v, %v, want absent", ok, err)
	}

	want := State{
		Node:      "departure",
		Step:      1,
		Departure: "MOW",
		Arrival:   "NYC",
		Questionnaire: []QA{
			{Question: "What is your departure city?", Answer: "Moscow"},
		},
	}
	if err := store.Save(ctx, "t1", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "t1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want stored state", ok, err)
	}
	if got.Node != want.Node || got.Step != want.Step || got.Departure != want.Departure || got.Arrival != want.Arrival {
		t.Fatalf("Get() = %+v, want %+v", got, want)
	}
	if len(got.Questionnaire) != 1 || got.Questionnaire[0] != want.Questionnaire[0] {
		t.Fatalf("Questionnaire = %v, want %v", got.Questionnaire, want.Questionnaire)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := store.Save(ctx, "t1", State{Node: "menu", Step: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, "t1", State{}); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	got, _, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Node != "" || got.Step != 0 {
		t.Fatalf("Get() = %+v, want reset state", got)
	}
}

func TestSanitizeThreadID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"340282366841710300949128268446348957412", "340282366841710300949128268446348957412"},
		{"a/b\\c", "a_b_c"},
		{"../../etc/passwd", "______etc_passwd"},
		{"", "_"},
	}
	for _, tc := range cases {
		if got := sanitizeThreadID(tc.in); got != tc.want {
			t.Fatalf("sanitizeThreadID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
