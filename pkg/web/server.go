package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/nergy-se/dashboard/pkg/api/v1/types"
	"github.com/nergy-se/dashboard/pkg/dashboard"
	"github.com/nergy-se/dashboard/pkg/session"
	"github.com/nergy-se/dashboard/pkg/state"
	"github.com/nergy-se/dashboard/pkg/version"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templates embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": Percent,
}).ParseFS(templates, "templates/index.html"))

// Percent formats usage with one decimal, truncating instead of rounding.
func Percent(usage float64) string {
	return decimal.NewFromFloat(usage).Truncate(1).StringFixed(1)
}

type limits struct {
	TemperatureMin, TemperatureMax float64
	TimeOfDayMin, TimeOfDayMax     float64
	EnergyUsageMin, EnergyUsageMax float64
}

var inputLimits = limits{
	TemperatureMin: types.TemperatureMin,
	TemperatureMax: types.TemperatureMax,
	TimeOfDayMin:   types.TimeOfDayMin,
	TimeOfDayMax:   types.TimeOfDayMax,
	EnergyUsageMin: types.EnergyUsageMin,
	EnergyUsageMax: types.EnergyUsageMax,
}

type page struct {
	State  state.State
	Chart  chart
	Limits limits
}

type stateResponse struct {
	state.State
	View  state.View         `json:"view"`
	Chart []state.ChartPoint `json:"chart,omitempty"`
}

type Server struct {
	store  *session.Store
	cookie string
}

func New(store *session.Store, cookie string) *Server {
	return &Server{
		store:  store,
		cookie: cookie,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.index).Methods("GET")
	r.HandleFunc("/inputs", s.postInputs).Methods("POST")
	r.HandleFunc("/calculate", s.postCalculate).Methods("POST")
	r.HandleFunc("/graph", s.postGraph).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/state", s.apiState).Methods("GET")
	api.HandleFunc("/inputs", s.apiInputs).Methods("PUT")
	api.HandleFunc("/calculate", s.apiCalculate).Methods("POST")
	api.HandleFunc("/graph", s.apiGraph).Methods("POST")

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/version", versionHandler).Methods("GET")
	return r
}

// Handler wraps the router with access logging to w and panic recovery.
func (s *Server) Handler(w io.Writer) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(logrus.StandardLogger()), handlers.PrintRecoveryStack(true))(handlers.LoggingHandler(w, s.Router()))
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) *dashboard.Dashboard {
	id := ""
	if c, err := r.Cookie(s.cookie); err == nil {
		id = c.Value
	}
	d, newID := s.store.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return d
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	st := s.dashboard(w, r).Snapshot()
	p := page{
		State:  st,
		Limits: inputLimits,
	}
	if st.GraphVisible {
		p.Chart = newChart(st.Chart())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, p)
	if err != nil {
		logrus.Errorf("error rendering dashboard: %s", err)
	}
}

func (s *Server) postInputs(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(w, r)
	if err := applyForm(d, r); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) postCalculate(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(w, r)
	if err := applyForm(d, r); err != nil {
		writeError(w, err)
		return
	}
	d.Calculate()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) postGraph(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(w, r)
	if err := applyForm(d, r); err != nil {
		writeError(w, err)
		return
	}
	_, err := d.ShowGraph()
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	writeState(w, s.dashboard(w, r).Snapshot())
}

func (s *Server) apiInputs(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(w, r)
	in := d.Snapshot().Inputs // fields missing from the body keep their value
	err := json.NewDecoder(r.Body).Decode(&in)
	if err != nil {
		http.Error(w, fmt.Sprintf("error decoding inputs: %s", err), http.StatusBadRequest)
		return
	}
	if err := d.SetInputs(in); err != nil {
		writeError(w, err)
		return
	}
	writeState(w, d.Snapshot())
}

func (s *Server) apiCalculate(w http.ResponseWriter, r *http.Request) {
	writeState(w, s.dashboard(w, r).Calculate())
}

func (s *Server) apiGraph(w http.ResponseWriter, r *http.Request) {
	st, err := s.dashboard(w, r).ShowGraph()
	if err != nil {
		writeError(w, err)
		return
	}
	writeState(w, st)
}

var errBadForm = errors.New("bad form value")

// applyForm copies submitted control values into d. A request without a form body changes nothing,
// and neither does a form with any invalid value.
func applyForm(d *dashboard.Dashboard, r *http.Request) error {
	err := r.ParseForm()
	if err != nil {
		return fmt.Errorf("%w: %s", errBadForm, err)
	}
	if len(r.PostForm) == 0 {
		return nil
	}

	in := d.Snapshot().Inputs
	fields := []struct {
		name  string
		value *float64
	}{
		{"temperature", &in.Temperature},
		{"timeOfDay", &in.TimeOfDay},
		{"energyUsage", &in.EnergyUsage},
	}
	for _, f := range fields {
		v := r.PostForm.Get(f.name)
		if v == "" {
			continue
		}
		*f.value, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %s", errBadForm, f.name, err)
		}
	}

	// unchecked checkboxes are not submitted
	switch r.PostForm.Get("userPresence") {
	case "on", "true", "1":
		in.UserPresence = true
	default:
		in.UserPresence = false
	}
	return d.SetInputs(in)
}

func writeState(w http.ResponseWriter, st state.State) {
	resp := stateResponse{
		State: st,
		View:  st.View(),
	}
	if st.GraphVisible {
		resp.Chart = st.Chart()
	}
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		logrus.Errorf("error encoding state: %s", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrOutOfRange), errors.Is(err, errBadForm):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dashboard.ErrNoResults):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logrus.Error(err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(version.Version))
}
