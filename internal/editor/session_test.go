package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recipes/internal/view"
	"github.com/goliatone/go-recipes/recipe"
)

type recordingSink struct {
	mu       sync.Mutex
	received []recipe.Recipe
	err      error
}

func (r *recordingSink) Forward(_ context.Context, value recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, value)
	return r.err
}

func (r *recordingSink) last() recipe.Recipe {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received[len(r.received)-1]
}

func firstSection(t *testing.T, s *Session) *view.SectionView {
	t.Helper()
	var section *view.SectionView
	_ = s.Inspect(func(root *view.RecipeView) error {
		section = root.Sections.Entry(0).Item
		return nil
	})
	if section == nil {
		t.Fatal("expected a first section")
	}
	return section
}

func drain(ch <-chan struct{}) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func TestDecodeObservesPrecedingEdit(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.Seed())
	section := firstSection(t, s)

	if err := s.Edit(ctx, section.Name.ID(), "בצק מהיר"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	got, err := s.Decode(ctx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Sections[0].Name != "בצק מהיר" {
		t.Fatalf("expected edited section name, got %q", got.Sections[0].Name)
	}
}

func TestAddIngredientThroughSession(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.Seed())
	section := firstSection(t, s)

	kind, err := s.Activate(ctx, section.Ingredients.Add.ID())
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if kind != view.ControlAddIngredient {
		t.Fatalf("expected add_ingredient, got %s", kind)
	}

	got, _ := s.Decode(ctx)
	want := []string{"קמח", "מים", "שמרים", ""}
	if diff := cmp.Diff(want, got.Sections[0].Ingredients); diff != "" {
		t.Fatalf("unexpected ingredients (-want +got):\n%s", diff)
	}
}

func TestRemovedEntryIsNotDecodedAndCannotBeEdited(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.New("r", recipe.NewSection("s", []string{"first", "second"}, nil)))
	section := firstSection(t, s)
	entry := section.Ingredients.Entry(0)

	if _, err := s.Activate(ctx, entry.Remove.ID()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	got, _ := s.Decode(ctx)
	if diff := cmp.Diff([]string{"second"}, got.Sections[0].Ingredients); diff != "" {
		t.Fatalf("unexpected ingredients (-want +got):\n%s", diff)
	}

	if err := s.Edit(ctx, entry.Item.ID(), "ghost"); !errors.Is(err, view.ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestChangesCoalesce(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.Seed())
	section := firstSection(t, s)

	for i := 0; i < 5; i++ {
		if err := s.Edit(ctx, section.Name.ID(), fmt.Sprintf("v%d", i)); err != nil {
			t.Fatalf("Edit() error = %v", err)
		}
	}
	if n := drain(s.Changes()); n != 1 {
		t.Fatalf("expected one pending notification, got %d", n)
	}
	if s.Version() != 5 {
		t.Fatalf("expected version 5, got %d", s.Version())
	}

	if err := s.Edit(ctx, "missing", "x"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if n := drain(s.Changes()); n != 0 {
		t.Fatalf("failed edit should not notify, got %d", n)
	}
}

func TestSubmitHandsDecodedRecipeToSink(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	s := New("kitchen", recipe.Seed(), WithSubmitSink(sink))

	var submitID view.NodeID
	_ = s.Inspect(func(root *view.RecipeView) error {
		submitID = root.Submit.ID()
		return root.Index().SetValue(root.Name.ID(), "פיצה ביתית")
	})

	kind, err := s.Activate(ctx, submitID)
	if err != nil {
		t.Fatalf("Activate(submit) error = %v", err)
	}
	if kind != view.ControlSubmit {
		t.Fatalf("expected submit, got %s", kind)
	}
	if got := sink.last(); got.Name != "פיצה ביתית" || len(got.Sections) != 2 {
		t.Fatalf("unexpected forwarded recipe: %+v", got)
	}
	if s.Version() != 0 {
		t.Fatalf("submit must not count as a change, version = %d", s.Version())
	}
}

func TestExportWithoutSinkFails(t *testing.T) {
	s := New("kitchen", recipe.Seed())
	var exportID view.NodeID
	_ = s.Inspect(func(root *view.RecipeView) error {
		exportID = root.Export.ID()
		return nil
	})

	if _, err := s.Activate(context.Background(), exportID); !errors.Is(err, ErrNoSink) {
		t.Fatalf("expected ErrNoSink, got %v", err)
	}
}

func TestExportSinkErrorIsOnlyLogged(t *testing.T) {
	sink := &recordingSink{err: errors.New("boom")}
	s := New("kitchen", recipe.Seed(), WithExportSink(sink))
	var exportID view.NodeID
	_ = s.Inspect(func(root *view.RecipeView) error {
		exportID = root.Export.ID()
		return nil
	})

	kind, err := s.Activate(context.Background(), exportID)
	if err != nil {
		t.Fatalf("expected export failure to be swallowed, got %v", err)
	}
	if kind != view.ControlExport {
		t.Fatalf("expected export control, got %q", kind)
	}
	if sink.last().Name != recipe.Seed().Name {
		t.Fatalf("expected the decoded recipe to reach the sink, got %+v", sink.last())
	}
}

func TestSubmitSinkErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	s := New("kitchen", recipe.Seed(), WithSubmitSink(&recordingSink{err: boom}))
	var submitID view.NodeID
	_ = s.Inspect(func(root *view.RecipeView) error {
		submitID = root.Submit.ID()
		return nil
	})

	if _, err := s.Activate(context.Background(), submitID); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestResetRebuildsView(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.Seed())
	old := firstSection(t, s)

	s.Reset(ctx, recipe.Empty())

	got, _ := s.Decode(ctx)
	if diff := cmp.Diff(recipe.Empty(), got); diff != "" {
		t.Fatalf("unexpected recipe after reset (-want +got):\n%s", diff)
	}
	if err := s.Edit(ctx, old.Name.ID(), "stale"); !errors.Is(err, view.ErrNodeNotFound) {
		t.Fatalf("expected stale id to fail after reset, got %v", err)
	}
	if n := drain(s.Changes()); n != 1 {
		t.Fatalf("expected reset to notify, got %d", n)
	}
}

func TestConcurrentCallbacksDoNotInterleave(t *testing.T) {
	ctx := context.Background()
	s := New("kitchen", recipe.New("r", recipe.NewSection("s", nil, nil)))
	section := firstSection(t, s)

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.Activate(ctx, section.Steps.Add.ID()); err != nil {
					t.Errorf("Activate() error = %v", err)
					return
				}
				if _, err := s.Decode(ctx); err != nil {
					t.Errorf("Decode() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, _ := s.Decode(ctx)
	if len(got.Sections[0].Steps) != workers*perWorker {
		t.Fatalf("expected %d steps, got %d", workers*perWorker, len(got.Sections[0].Steps))
	}
}

func TestCancelledContextIsRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New("kitchen", recipe.Seed())

	if _, err := s.Decode(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
