package production

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

type stillProcess struct{ name string }

func (p stillProcess) Name() string      { return p.name }
func (p stillProcess) IsActive() bool    { return true }
func (p stillProcess) IsTemporary() bool { return false }
func (p stillProcess) Priority() float64 { return core.DefaultPriority }
func (p stillProcess) OnLostControl()    {}
func (p stillProcess) Decide(bool, bool) (primitives.Command, error) {
	return primitives.SetTarget(primitives.NewRotation(30, -10), true), nil
}

func resolvedSnapshot(t *testing.T) core.Snapshot {
	t.Helper()
	a := core.NewArbiter(core.WithID("bot-1"))
	a.MustRegister(stillProcess{name: "mine"})
	if _, err := a.Resolve(primitives.NewTickEvent(7, false, true)); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	snap := a.Snapshot()
	snap.Timestamp = snap.Timestamp.Round(time.Millisecond).UTC()
	return snap
}

func TestPersisterRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			p, err := NewPersister(format, t.TempDir())
			if err != nil {
				t.Fatalf("NewPersister: %v", err)
			}
			want := resolvedSnapshot(t)
			ctx := context.Background()
			if err := p.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := p.Load(ctx, "bot-1")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
			}
			if got.InControl != "mine" || got.LastCommand.Target.Yaw != 30 {
				t.Errorf("unexpected contents: %+v", got)
			}
		})
	}
}

func TestPersisterMissing(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Load(context.Background(), "nobody")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}
}

func TestPersisterRejects(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Save(context.Background(), core.Snapshot{}); !errors.Is(err, ErrNoArbiterID) {
		t.Errorf("empty ID: got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Save(ctx, core.Snapshot{ArbiterID: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx: got %v", err)
	}
	if _, err := NewPersister("xml", t.TempDir()); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestPersisterCorruptFile(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Load(context.Background(), "bad"); err == nil {
		t.Error("expected decode error")
	}
}

func TestPersisterList(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, id := range []string{"b", "a"} {
		if err := p.Save(ctx, core.Snapshot{ArbiterID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ids, err := p.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}
