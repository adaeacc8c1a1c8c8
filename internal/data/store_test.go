package data

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/modites/internal/models"
)

type fakeRoster struct {
	mu      sync.Mutex
	modites []models.Modite
	err     error
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *fakeRoster) FetchRoster(ctx context.Context) ([]models.Modite, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modites, f.err
}

type fakeProjects struct {
	projects []*models.Project
	err      error
}

func (f *fakeProjects) List(ctx context.Context) ([]*models.Project, error) {
	return f.projects, f.err
}

func sampleRoster() []models.Modite {
	return []models.Modite{
		{ID: "U1", RealName: "Al Adams", Profile: models.Profile{LastName: "Adams"}},
		{ID: "U2", RealName: "Bo Brown", Profile: models.Profile{LastName: "Brown"}},
	}
}

func TestStore_LoadStoresRosterAndProjects(t *testing.T) {
	p := &models.Project{ID: "p1", Users: []models.ProjectRef{{ID: "U2"}}}
	s := NewStore(&fakeRoster{modites: sampleRoster()}, &fakeProjects{projects: []*models.Project{p}}, nil)

	require.False(t, s.Loaded())
	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.Loaded())
	assert.Len(t, s.Modites(), 2)
	assert.Len(t, s.Projects(), 1)
	assert.False(t, s.LoadedAt().IsZero())
}

func TestStore_FetchFailureKeepsLoadingState(t *testing.T) {
	src := &fakeRoster{err: errors.New("connection refused")}
	s := NewStore(src, nil, nil)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loaded())

	_, err = s.Find("U1")
	assert.ErrorIs(t, err, ErrNotLoaded)

	// A later attempt succeeds once upstream recovers.
	src.mu.Lock()
	src.err = nil
	src.modites = sampleRoster()
	src.mu.Unlock()
	<-s.Prime()
	assert.True(t, s.Loaded())
}

func TestStore_EmptyRosterStaysUnloaded(t *testing.T) {
	s := NewStore(&fakeRoster{modites: []models.Modite{}}, nil, nil)

	require.NoError(t, s.Load(context.Background()))
	assert.False(t, s.Loaded())
}

func TestStore_PrimeSharesOneFetch(t *testing.T) {
	src := &fakeRoster{modites: sampleRoster(), gate: make(chan struct{})}
	s := NewStore(src, nil, nil)

	first := s.Prime()
	second := s.Prime()
	close(src.gate)

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("prime did not finish")
		}
	}
	assert.Equal(t, int32(1), src.calls.Load())

	// Loaded stores do not fetch again.
	<-s.Prime()
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestStore_ProjectFailureStillStoresRoster(t *testing.T) {
	s := NewStore(&fakeRoster{modites: sampleRoster()}, &fakeProjects{err: errors.New("db locked")}, nil)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, s.Loaded())
	assert.Empty(t, s.Projects())
}

func TestStore_Detail(t *testing.T) {
	projects := []*models.Project{
		{ID: "p1", Name: "atlas", Users: []models.ProjectRef{{ID: "U1"}, {ID: "U2"}}},
		{ID: "p2", Name: "borealis", Users: []models.ProjectRef{{ID: "U2"}}},
	}
	s := NewStore(&fakeRoster{modites: sampleRoster()}, &fakeProjects{projects: projects}, nil)
	require.NoError(t, s.Load(context.Background()))

	d, err := s.Detail("U2")
	require.NoError(t, err)
	assert.Equal(t, "Bo Brown", d.Modite.RealName)
	assert.Len(t, d.Projects, 2)
	assert.Equal(t, "Projects (2)", d.Heading)

	d, err = s.Detail("U1")
	require.NoError(t, err)
	assert.Equal(t, "Projects (1)", d.Heading)

	_, err = s.Detail("U9")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
