package favorites

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
)

func successResult(caption string) catapi.Result {
	return catapi.Result{
		Image: &catapi.Image{
			ID:          "img-" + caption,
			Bytes:       []byte("fake image bytes"),
			ContentType: "image/jpeg",
			SourceURL:   "https://cataas.com/cat/abc",
			Width:       640,
			Height:      480,
		},
		Caption:  caption,
		Attempts: 1,
	}
}

func TestList_AppendKeepsOrderAndDuplicates(t *testing.T) {
	list := NewList()
	saved := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	captions := []string{"a", "b", "a", "c", "a"}
	for _, c := range captions {
		fav, err := FromResult(successResult(c), saved)
		if err != nil {
			t.Fatalf("FromResult: %v", err)
		}
		list.Add(fav)
	}

	if list.Len() != len(captions) {
		t.Fatalf("expected %d favorites, got %d", len(captions), list.Len())
	}
	for i, fav := range list.Items() {
		if fav.Caption != captions[i] {
			t.Errorf("position %d: expected caption %q, got %q", i, captions[i], fav.Caption)
		}
	}
}

func TestList_SameFavoriteAddedTwice(t *testing.T) {
	list := NewList()
	fav, _ := FromResult(successResult("dup"), time.Now())
	list.Add(fav)
	list.Add(fav)

	if list.Len() != 2 {
		t.Fatalf("expected duplicates to be kept, got %d items", list.Len())
	}
}

func TestList_ItemsReturnsCopy(t *testing.T) {
	list := NewList()
	fav, _ := FromResult(successResult("x"), time.Now())
	list.Add(fav)

	items := list.Items()
	items[0].Caption = "changed"

	if got := list.Items()[0].Caption; got != "x" {
		t.Errorf("mutating Items() leaked into the list: %q", got)
	}
}

func TestList_RemoveAndGet(t *testing.T) {
	list := NewList()
	var ids []string
	for i := 0; i < 3; i++ {
		fav, _ := FromResult(successResult(fmt.Sprint(i)), time.Now())
		list.Add(fav)
		ids = append(ids, fav.ID)
	}

	if _, ok := list.Get(ids[1]); !ok {
		t.Fatalf("expected to find %s", ids[1])
	}
	if err := list.Remove(ids[1]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := list.Get(ids[1]); ok {
		t.Errorf("favorite still present after Remove")
	}

	items := list.Items()
	if len(items) != 2 || items[0].ID != ids[0] || items[1].ID != ids[2] {
		t.Errorf("unexpected order after remove: %+v", items)
	}

	if err := list.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_Clear(t *testing.T) {
	list := NewList()
	fav, _ := FromResult(successResult("x"), time.Now())
	list.Add(fav)
	list.Clear()
	if list.Len() != 0 {
		t.Errorf("expected empty list after Clear, got %d", list.Len())
	}
}

func TestFromResult(t *testing.T) {
	saved := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	fav, err := FromResult(successResult("hello"), saved)
	if err != nil {
		t.Fatal(err)
	}
	if fav.ID == "" {
		t.Error("expected a generated ID")
	}
	if fav.ImageID != "img-hello" || fav.Caption != "hello" || fav.Width != 640 || !fav.SavedAt.Equal(saved) {
		t.Errorf("unexpected favorite: %+v", fav)
	}

	failed := catapi.Result{Err: catapi.ErrInvalidInput}
	if _, err := FromResult(failed, saved); err == nil {
		t.Error("expected error for a failed result")
	}
}
