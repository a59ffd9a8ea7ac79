package leaderboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomz197/reaction/internal/storage/sqlite"
)

type failingSource struct{}

func (failingSource) Fetch(context.Context) ([]Entry, error) {
	return nil, errors.New("boom")
}

type fakeScorer struct {
	rows []sqlite.PlayerBest
	err  error
}

func (f fakeScorer) TopBests(_ context.Context, limit int) ([]sqlite.PlayerBest, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func TestLoadDegradesToEmpty(t *testing.T) {
	got := Load(context.Background(), failingSource{}, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Load = %#v, want empty non-nil slice", got)
	}
	if got := Load(context.Background(), nil, nil); len(got) != 0 {
		t.Errorf("Load(nil) = %v", got)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	doc := `[{"name":"Bo","score":12},{"name":"Ada","score":31},{"name":"","score":99}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Load(context.Background(), FileSource{Path: path}, nil)
	if len(got) != 2 {
		t.Fatalf("Load = %v, want 2 named entries", got)
	}
	if got[0].Name != "Ada" || got[0].Score != 31 || got[1].Name != "Bo" {
		t.Errorf("Load = %v, want Ada before Bo", got)
	}

	if got := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, nil); len(got) != 0 {
		t.Errorf("missing file gave %v", got)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.json":
			w.Write([]byte(`[{"name":"Lin","score":5}]`))
		case "/bad.json":
			w.Write([]byte(`{not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	got, err := HTTPSource{URL: srv.URL + "/ok.json"}.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0] != (Entry{Name: "Lin", Score: 5}) {
		t.Errorf("Fetch = %v", got)
	}

	if _, err := (HTTPSource{URL: srv.URL + "/bad.json"}).Fetch(ctx); err == nil {
		t.Error("expected decode error")
	}
	if _, err := (HTTPSource{URL: srv.URL + "/missing"}).Fetch(ctx); err == nil {
		t.Error("expected status error")
	}
	if got := Load(ctx, HTTPSource{URL: srv.URL + "/missing"}, nil); len(got) != 0 {
		t.Errorf("Load = %v, want empty", got)
	}
}

func TestStoreSource(t *testing.T) {
	src := StoreSource{Store: fakeScorer{rows: []sqlite.PlayerBest{{Player: "x", Best: 3}, {Player: "y", Best: 8}}}}
	got := Load(context.Background(), src, nil)
	if len(got) != 2 || got[0].Name != "y" {
		t.Errorf("Load = %v", got)
	}

	broken := StoreSource{Store: fakeScorer{err: errors.New("locked")}}
	if got := Load(context.Background(), broken, nil); len(got) != 0 {
		t.Errorf("Load = %v, want empty", got)
	}
}

func TestLoadCapsEntries(t *testing.T) {
	rows := make([]sqlite.PlayerBest, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, sqlite.PlayerBest{Player: "p", Best: i})
	}
	got := Load(context.Background(), StoreSource{Store: fakeScorer{rows: rows}}, nil)
	if len(got) != MaxEntries {
		t.Errorf("got %d entries, want %d", len(got), MaxEntries)
	}
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(failingSource{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSelect(t *testing.T) {
	store := fakeScorer{}

	if _, ok := Select("http://example.test/lb", "board.json", store).(HTTPSource); !ok {
		t.Error("URL should win over file and store")
	}
	if src, ok := Select("", "board.json", store).(FileSource); !ok || src.Path != "board.json" {
		t.Error("file should win over store")
	}
	if _, ok := Select("", "", store).(StoreSource); !ok {
		t.Error("store should be the fallback")
	}
	if Select("", "", nil) != nil {
		t.Error("nothing configured should yield no source")
	}
}
