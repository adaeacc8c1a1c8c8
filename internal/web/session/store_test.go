package session

import (
	"context"
	"testing"
	"time"

	"github.com/good-yellow-bee/modites/internal/models"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	session, err := store.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.ID == "" {
		t.Error("session.ID is empty")
	}

	got, ok := store.Get(session.ID)
	if !ok {
		t.Fatal("Get() returned false, want true")
	}
	if got.Viewport() != models.DefaultViewport() {
		t.Errorf("Viewport() = %+v, want default", got.Viewport())
	}
}

func TestStore_GetExpired(t *testing.T) {
	store := NewStore(time.Millisecond)
	defer store.Close()

	session, _ := store.Create()
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(session.ID)
	if ok {
		t.Error("Get() returned true for expired session")
	}

	store.purgeExpired(time.Now())
	if store.Len() != 0 {
		t.Errorf("Len() = %d after purge, want 0", store.Len())
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	session, _ := store.Create()
	store.Delete(session.ID)

	_, ok := store.Get(session.ID)
	if ok {
		t.Error("Get() returned true after Delete()")
	}
}

func TestSession_SetViewport(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	session, _ := store.Create()
	vp := models.Viewport{Latitude: 1, Longitude: 2, Zoom: 5}
	session.SetViewport(vp)

	if got := session.Viewport(); got != vp {
		t.Errorf("Viewport() = %+v, want %+v", got, vp)
	}
}

func TestContext(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	if FromContext(context.Background()) != nil {
		t.Error("FromContext() on empty context should be nil")
	}

	session, _ := store.Create()
	ctx := NewContext(context.Background(), session)
	if FromContext(ctx) != session {
		t.Error("FromContext() did not return stored session")
	}
}
