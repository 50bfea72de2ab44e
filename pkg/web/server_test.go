package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nergy-se/dashboard/pkg/session"
	"github.com/nergy-se/dashboard/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	state.State
	View  state.View         `json:"view"`
	Chart []state.ChartPoint `json:"chart"`
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	srv := httptest.NewServer(New(session.NewStore(nil), "sess").Handler(io.Discard))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func do(t *testing.T, c *http.Client, method, u string, body string) (int, response) {
	req, err := http.NewRequest(method, u, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	r := response{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	}
	return resp.StatusCode, r
}

func TestAPIFlow(t *testing.T) {
	srv, c := newTestServer(t)

	code, r := do(t, c, "GET", srv.URL+"/api/v1/state", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.ViewIdle, r.View)
	assert.Equal(t, 20.0, r.Inputs.Temperature)

	code, _ = do(t, c, "POST", srv.URL+"/api/v1/graph", "")
	assert.Equal(t, http.StatusConflict, code)

	code, r = do(t, c, "POST", srv.URL+"/api/v1/calculate", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.ViewResultsShown, r.View)
	require.Len(t, r.Results, 5)
	assert.Equal(t, 60.0, r.Results[0].Usage)
	assert.Empty(t, r.Chart)

	code, r = do(t, c, "PUT", srv.URL+"/api/v1/inputs", `{"temperature":35,"timeOfDay":3,"energyUsage":80,"userPresence":false}`)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, r.Stale)
	assert.Equal(t, 60.0, r.Results[0].Usage)

	code, r = do(t, c, "POST", srv.URL+"/api/v1/graph", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.ViewResultsAndGraphShown, r.View)
	require.Len(t, r.Chart, 5)
	assert.Equal(t, state.ChartPoint{Name: "AC", Usage: 60}, r.Chart[0])

	code, r = do(t, c, "POST", srv.URL+"/api/v1/calculate", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, state.ViewResultsShown, r.View)
	assert.Equal(t, 20.0, r.Results[2].Usage)
}

func TestAPIInputsPartialAndInvalid(t *testing.T) {
	srv, c := newTestServer(t)

	code, r := do(t, c, "PUT", srv.URL+"/api/v1/inputs", `{"temperature":5}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5.0, r.Inputs.Temperature)
	assert.Equal(t, 12.0, r.Inputs.TimeOfDay)
	assert.True(t, r.Inputs.UserPresence)

	code, _ = do(t, c, "PUT", srv.URL+"/api/v1/inputs", `{"energyUsage":101}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, c, "PUT", srv.URL+"/api/v1/inputs", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv, c1 := newTestServer(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c2 := &http.Client{Jar: jar}

	code, _ := do(t, c1, "POST", srv.URL+"/api/v1/calculate", "")
	assert.Equal(t, http.StatusOK, code)

	_, r := do(t, c2, "GET", srv.URL+"/api/v1/state", "")
	assert.Equal(t, state.ViewIdle, r.View)
}

func getPage(t *testing.T, c *http.Client, u string) string {
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHTMLFlow(t *testing.T) {
	srv, c := newTestServer(t)

	body := getPage(t, c, srv.URL+"/")
	assert.Contains(t, body, "Smart Home Energy Dashboard")
	assert.Contains(t, body, `name="temperature" min="0" max="40" step="1" value="20"`)
	assert.Contains(t, body, "Present")
	assert.NotContains(t, body, "Show Graph")
	assert.NotContains(t, body, `id="results"`)

	form := url.Values{
		"temperature":  {"20"},
		"timeOfDay":    {"12"},
		"energyUsage":  {"50"},
		"userPresence": {"on"},
	}
	resp, err := c.PostForm(srv.URL+"/calculate", form)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode) // followed redirect

	body = getPage(t, c, srv.URL+"/")
	assert.Contains(t, body, "Show Graph")
	assert.Contains(t, body, `<span class="usage">60.0%</span>`)
	assert.Contains(t, body, "Consider optimizing AC usage during peak hours")
	assert.NotContains(t, body, `id="graph"`)

	// unchecked presence is not submitted
	form.Del("userPresence")
	form.Set("temperature", "35")
	resp, err = c.PostForm(srv.URL+"/inputs", form)
	require.NoError(t, err)
	resp.Body.Close()

	body = getPage(t, c, srv.URL+"/")
	assert.Contains(t, body, "Absent")
	assert.Contains(t, body, `<span class="usage">60.0%</span>`)
	assert.Contains(t, body, "Inputs changed since the last calculation")

	resp, err = c.PostForm(srv.URL+"/graph", form)
	require.NoError(t, err)
	resp.Body.Close()
	body = getPage(t, c, srv.URL+"/")
	assert.Contains(t, body, `id="graph"`)
	assert.Contains(t, body, "<title>AC: 60.0%</title>")

	resp, err = c.PostForm(srv.URL+"/calculate", form)
	require.NoError(t, err)
	resp.Body.Close()
	body = getPage(t, c, srv.URL+"/")
	assert.NotContains(t, body, `id="graph"`)
	assert.Contains(t, body, `<span class="usage">20.0%</span>`)
}

func TestHTMLRejectsOutOfRange(t *testing.T) {
	srv, c := newTestServer(t)
	resp, err := c.PostForm(srv.URL+"/calculate", url.Values{"temperature": {"99"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = c.PostForm(srv.URL+"/inputs", url.Values{"timeOfDay": {"noon"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = c.PostForm(srv.URL+"/graph", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHealthAndVersion(t *testing.T) {
	srv, c := newTestServer(t)
	body := getPage(t, c, srv.URL+"/health")
	assert.JSONEq(t, `{"status":"ok"}`, body)

	body = getPage(t, c, srv.URL+"/version")
	assert.Contains(t, body, `"commit"`)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "60.0", Percent(60))
	assert.Equal(t, "59.9", Percent(59.99))
	assert.Equal(t, "0.0", Percent(0))
	assert.Equal(t, "100.0", Percent(100))
}

func TestNewChart(t *testing.T) {
	c := newChart([]state.ChartPoint{{Name: "AC", Usage: 100}, {Name: "Fan", Usage: 0}})
	require.Len(t, c.Bars, 2)
	assert.Equal(t, chartTop, c.Bars[0].Y)
	assert.Equal(t, c.BaseY, c.Bars[1].Y)
	assert.Equal(t, 0.0, c.Bars[1].Height)
	assert.Less(t, c.Bars[0].X, c.Bars[1].X)
	assert.Len(t, c.Ticks, 5)
}

func TestFormWithInvalidValueChangesNothing(t *testing.T) {
	var tests = []struct {
		name string
		path string
		form url.Values
	}{
		{
			name: "calculate with time out of range",
			path: "/calculate",
			form: url.Values{"temperature": {"35"}, "timeOfDay": {"99"}},
		},
		{
			name: "inputs with unparsable energy usage",
			path: "/inputs",
			form: url.Values{"temperature": {"35"}, "timeOfDay": {"3"}, "energyUsage": {"lots"}},
		},
		{
			name: "graph with energy usage out of range",
			path: "/graph",
			form: url.Values{"temperature": {"5"}, "energyUsage": {"101"}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv, c := newTestServer(t)
			code, before := do(t, c, "POST", srv.URL+"/api/v1/calculate", "")
			require.Equal(t, http.StatusOK, code)

			resp, err := c.PostForm(srv.URL+tt.path, tt.form)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			_, after := do(t, c, "GET", srv.URL+"/api/v1/state", "")
			assert.Equal(t, before.Inputs, after.Inputs)
			assert.False(t, after.Stale)
			assert.Equal(t, state.ViewResultsShown, after.View)
		})
	}
}

func TestGraphHeading(t *testing.T) {
	srv, c := newTestServer(t)
	code, _ := do(t, c, "POST", srv.URL+"/api/v1/calculate", "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, getPage(t, c, srv.URL+"/"), "Energy Usage Overview")

	code, _ = do(t, c, "POST", srv.URL+"/api/v1/graph", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, getPage(t, c, srv.URL+"/"), "<h2>Energy Usage Overview</h2>")
}
