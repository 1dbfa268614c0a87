package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAdd_InsertionOrderAndNormalState(t *testing.T) {
	r := New(DuplicatesUpsert)
	r.Add("Notes", "notes.png", "")
	r.Add("Editor", "editor.png", "doc")

	want := []Record{
		{Name: "Notes", Icon: "notes.png", State: StateNormal},
		{Name: "Editor", Icon: "editor.png", Type: "doc", State: StateNormal},
	}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_UpsertReplacesInPlace(t *testing.T) {
	r := New(DuplicatesUpsert)
	r.Add("Notes", "a.png", "")
	r.Add("Editor", "e.png", "doc")
	r.UpdateState("Notes", StateMinimize)
	r.Add("Notes", "b.png", "note")

	want := []Record{
		{Name: "Notes", Icon: "b.png", Type: "note", State: StateNormal},
		{Name: "Editor", Icon: "e.png", Type: "doc", State: StateNormal},
	}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_AppendKeepsDuplicates(t *testing.T) {
	r := New(DuplicatesAppend)
	r.Add("Notes", "a.png", "")
	r.Add("Notes", "a.png", "")
	if r.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", r.Len())
	}

	if n := r.Dedupe(); n != 1 {
		t.Fatalf("expected Dedupe to drop 1, dropped %d", n)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 record after dedupe, got %d", r.Len())
	}
}

func TestRemove_RemovesAllWithName(t *testing.T) {
	r := New(DuplicatesAppend)
	r.Add("Notes", "", "")
	r.Add("Editor", "", "")
	r.Add("Notes", "", "")

	if n := r.Remove("Notes"); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if diff := cmp.Diff([]Record{{Name: "Editor", State: StateNormal}}, r.List()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateState_UnknownNameIsNoop(t *testing.T) {
	r := New(DuplicatesUpsert)
	if r.UpdateState("NonexistentWindow", StateMinimize) {
		t.Fatalf("expected no change on empty registry")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}

	r.Add("Notes", "", "")
	if r.UpdateState("NonexistentWindow", StateMinimize) {
		t.Fatalf("expected no change for non-matching name")
	}
	if r.Len() != 1 {
		t.Fatalf("expected length unchanged, got %d", r.Len())
	}
	rec, _ := r.Get("Notes")
	if rec.State != StateNormal {
		t.Fatalf("expected Notes untouched, got %q", rec.State)
	}
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	r := New(DuplicatesUpsert)
	var got [][]Record
	unsub := r.Subscribe(func(records []Record) {
		got = append(got, records)
	})

	r.Add("Notes", "", "")
	r.UpdateState("Notes", StateMinimize)
	r.UpdateState("Notes", StateMinimize) // unchanged, no notification
	r.Remove("Notes")
	unsub()
	r.Add("Editor", "", "")

	want := [][]Record{
		{{Name: "Notes", State: StateNormal}},
		{{Name: "Notes", State: StateMinimize}},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestRetain(t *testing.T) {
	r := New(DuplicatesUpsert)
	r.Add("Notes", "", "")
	r.Add("Editor", "", "")
	r.Add("Ghost", "", "")

	dropped := r.Retain(map[string]bool{"Notes": true, "Editor": true})
	if len(dropped) != 1 || dropped[0].Name != "Ghost" {
		t.Fatalf("expected Ghost dropped, got %+v", dropped)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", r.Len())
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	r := New(DuplicatesUpsert)
	r.Add("Notes", "", "")
	list := r.List()
	list[0].Name = "mutated"
	if rec, ok := r.Get("Notes"); !ok || rec.Name != "Notes" {
		t.Fatalf("expected registry unaffected by caller mutation")
	}
}
