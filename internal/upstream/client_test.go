package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/good-yellow-bee/modites/internal/models"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default endpoint", config: Config{URL: DefaultRosterURL}},
		{name: "plain http", config: Config{URL: "http://localhost:3000/modites"}},
		{name: "missing url", config: Config{}, wantErr: true},
		{name: "bad scheme", config: Config{URL: "ftp://example.com/modites"}, wantErr: true},
		{name: "negative timeout", config: Config{URL: DefaultRosterURL, Timeout: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_FetchRoster_SortsByLastName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"U3","real_name":"Cy Young","profile":{"last_name":"Young"}},
			{"id":"U1","real_name":"Al Adams","profile":{"last_name":"Adams"}},
			{"id":"U2","real_name":"Mo Moss","profile":{"last_name":"Moss"}}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL}, nil)
	require.NoError(t, err)

	modites, err := client.FetchRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, modites, 3)
	assert.Equal(t, "U1", modites[0].ID)
	assert.Equal(t, "U2", modites[1].ID)
	assert.Equal(t, "U3", modites[2].ID)
}

func TestClient_FetchRoster_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = client.FetchRoster(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_FetchRoster_RejectsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = client.FetchRoster(context.Background())
	assert.Error(t, err)
}

func TestClient_FetchRoster_ToleratesMalformedMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"U1","real_name":"Al Adams","tacos":3,"profile":{"last_name":"Adams"}},
			{"id":"U2","real_name":"Bo Brown","tacos":"7","profile":{"last_name":"Brown",
				"fields":{"Location":"Oslo","locationData":{"lat":"59.9","lon":10.7}}}},
			"not a member",
			{"real_name":"No Id","profile":{"last_name":"Zed"}},
			{"id":"U3","real_name":"Cy Cole","profile":"none"}
		]`))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	client, err := NewClient(Config{URL: srv.URL}, zap.New(core))
	require.NoError(t, err)

	modites, err := client.FetchRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, modites, 3)

	byID := make(map[string]models.Modite, len(modites))
	for _, m := range modites {
		byID[m.ID] = m
	}

	assert.Equal(t, 3, byID["U1"].Tacos)

	bo := byID["U2"]
	assert.Equal(t, "Bo Brown", bo.RealName)
	assert.Zero(t, bo.Tacos)
	assert.Equal(t, "Oslo", bo.Profile.Fields.Location)
	assert.Nil(t, bo.Profile.Fields.LocationData)

	cy := byID["U3"]
	assert.Equal(t, "Cy Cole", cy.RealName)
	assert.Empty(t, cy.Profile.LastName)

	malformed := logs.FilterMessage("roster member has malformed fields").All()
	require.Len(t, malformed, 2)
	assert.Equal(t, 2, logs.FilterMessageSnippet("skipping roster record").Len())
}
