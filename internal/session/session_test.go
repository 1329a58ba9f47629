package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"jobinsights-engine/internal/config"
	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/fetch"
	"jobinsights-engine/internal/hh"
	"jobinsights-engine/internal/session"
)

type recordingNotifier struct {
	percents []int
	done     *session.Result
}

func (n *recordingNotifier) Progress(percent int, title string) {
	n.percents = append(n.percents, percent)
}

func (n *recordingNotifier) Done(res session.Result) {
	n.done = &res
}

// apiServer emulates the reference endpoints plus a two-item search result
// for the query "golang". Any other query finds nothing.
func apiServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dictionaries":
			w.Write([]byte(`{
				"currency": [{"code": "RUR", "rate": 1}],
				"vacancy_search_order": [{"id": "relevance", "name": "По соответствию"}]
			}`))
		case "/areas":
			w.Write([]byte(`[{"id": "113", "name": "Россия", "areas": [
				{"id": "1", "name": "Москва", "areas": []}
			]}]`))
		case "/vacancies":
			if r.URL.Query().Get("text") != "golang" {
				w.Write([]byte(`{"items": [], "found": 0, "pages": 0}`))
				return
			}
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page > 0 {
				w.Write([]byte(`{"items": [], "found": 2, "pages": 1}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]string{
					{"url": srv.URL + "/detail/1"},
					{"url": srv.URL + "/detail/2"},
				},
				"found": 2,
				"pages": 1,
			})
		case "/detail/1":
			w.Write([]byte(`{
				"name": "Go Developer",
				"area": {"id": "1"},
				"salary": {"from": 100000, "to": 200000, "currency": "RUR", "gross": true},
				"experience": {"name": "От 1 года до 3 лет"},
				"schedule": {"name": "Удаленная работа"},
				"published_at": "2023-07-29T10:00:00+0300",
				"initial_created_at": "2023-07-22T10:00:00+0300",
				"employer": {"name": "Acme"},
				"alternate_url": "https://hh.ru/vacancy/1",
				"key_skills": [{"name": "Go"}, {"name": "SQL"}]
			}`))
		case "/detail/2":
			w.Write([]byte(`{
				"name": "Backend Engineer",
				"area": {"id": "1"},
				"experience": {"name": "Нет опыта"},
				"schedule": {"name": "Полный день"},
				"published_at": "2023-07-30T10:00:00+0300",
				"initial_created_at": "2023-07-30T10:00:00+0300",
				"employer": {"name": "Beta"},
				"alternate_url": "https://hh.ru/vacancy/2",
				"key_skills": [{"name": "Go"}]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRunner(t *testing.T) (*session.Runner, string) {
	t.Helper()
	srv := apiServer(t)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.PerPage = 2
	cfg.API.ItemDelayMillis = 1
	cfg.API.PageDelaySeconds = 0
	cfg.App.ReportsDir = t.TempDir()

	client := hh.NewClient(srv.URL, "test", 5*time.Second)
	dir, err := directory.Load(context.Background(), client)
	if err != nil {
		t.Fatalf("directory load: %v", err)
	}
	return session.NewRunner(cfg, dir, client), cfg.App.ReportsDir
}

func TestRun_NoResultsWritesNoFile(t *testing.T) {
	r, reportsDir := newRunner(t)
	n := &recordingNotifier{}

	res, err := r.Run(context.Background(), session.Params{Query: "cobol", Pages: 1, Period: 30},
		fetch.NewCancelToken(), n)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != session.OutcomeNoResults {
		t.Fatalf("outcome = %q, want no_results", res.Outcome)
	}
	if res.File != "" {
		t.Errorf("file = %q, want none", res.File)
	}
	entries, _ := os.ReadDir(reportsDir)
	if len(entries) != 0 {
		t.Errorf("reports dir has %d entries, want 0", len(entries))
	}
	if n.done == nil || n.done.Outcome != session.OutcomeNoResults {
		t.Errorf("Done notification = %+v", n.done)
	}
}

func TestRun_CompletedWritesReport(t *testing.T) {
	r, reportsDir := newRunner(t)
	n := &recordingNotifier{}

	res, err := r.Run(context.Background(),
		session.Params{Query: "golang", Region: "москва", Pages: 1, Period: 30},
		fetch.NewCancelToken(), n)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != session.OutcomeCompleted {
		t.Fatalf("outcome = %q (err=%v), want completed", res.Outcome, res.Err)
	}
	if res.Rows != 2 || res.Found != 2 {
		t.Errorf("rows/found = %d/%d, want 2/2", res.Rows, res.Found)
	}

	want := filepath.Join(reportsDir, "golang (москва).xlsx")
	if res.File != want {
		t.Errorf("file = %q, want %q", res.File, want)
	}
	if _, err := os.Stat(res.File); err != nil {
		t.Fatalf("report file missing: %v", err)
	}

	if len(n.percents) != 2 || n.percents[1] != 100 {
		t.Errorf("progress = %v, want two updates ending at 100", n.percents)
	}

	st := r.Status()
	if st.Running {
		t.Error("status still running after Run returned")
	}
	if st.LastOutcome != session.OutcomeCompleted || st.LastRows != 2 {
		t.Errorf("status = %+v", st)
	}

	// The flock sidecar must not outlive the run.
	entries, err := os.ReadDir(reportsDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".lock") {
			t.Errorf("lock sidecar %s left behind", e.Name())
		}
	}
}

func TestClaim_SingleSlot(t *testing.T) {
	r, _ := newRunner(t)

	if err := r.Claim(fetch.NewCancelToken()); err != nil {
		t.Fatalf("first Claim: %v", err)
	}
	if err := r.Claim(fetch.NewCancelToken()); !errors.Is(err, session.ErrRunActive) {
		t.Fatalf("second Claim err = %v, want ErrRunActive", err)
	}
	if !r.Cancel() {
		t.Error("Cancel() = false with a claimed run")
	}

	// RunClaimed releases the slot even when the claimed token was already
	// cancelled.
	res, err := r.RunClaimed(context.Background(),
		session.Params{Query: "cobol", Pages: 1, Period: 30}, &recordingNotifier{})
	if err != nil {
		t.Fatalf("RunClaimed: %v", err)
	}
	if res.Outcome != session.OutcomeNoResults {
		t.Errorf("outcome = %q", res.Outcome)
	}
	if err := r.Claim(fetch.NewCancelToken()); err != nil {
		t.Errorf("Claim after RunClaimed: %v", err)
	}
}

func TestCancel_WithoutClaimedRun(t *testing.T) {
	r, _ := newRunner(t)
	if r.Cancel() {
		t.Error("Cancel() = true on a fresh runner")
	}
}

func TestRun_DefaultRegionLabel(t *testing.T) {
	r, reportsDir := newRunner(t)

	res, err := r.Run(context.Background(),
		session.Params{Query: "golang", Pages: 1, Period: 30},
		fetch.NewCancelToken(), &recordingNotifier{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(reportsDir, "golang (Все регионы).xlsx")
	if res.File != want {
		t.Errorf("file = %q, want %q", res.File, want)
	}
}
