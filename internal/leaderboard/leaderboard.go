// Package leaderboard reads the ranked list of players shown next to the game.
// The list is read-only: nothing here records scores.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reaction/internal/storage/sqlite"
)

// MaxEntries caps how many rows are kept from any source.
const MaxEntries = 10

// maxBodyBytes limits how much of a remote document is read.
const maxBodyBytes = 1 << 20

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Source fetches the leaderboard.
type Source interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Load fetches from src and degrades every failure to an empty list.
// The result is ordered by score, highest first, and holds at most MaxEntries rows.
func Load(ctx context.Context, src Source, logger *log.Logger) []Entry {
	if src == nil {
		return []Entry{}
	}
	entries, err := src.Fetch(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("leaderboard unavailable", "err", err)
		}
		return []Entry{}
	}
	return rank(entries)
}

// Decode parses a JSON array of {name, score} objects.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

func rank(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// FileSource reads a JSON document from disk.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (f FileSource) Fetch(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open leaderboard file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// HTTPSource fetches a JSON document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch implements Source.
func (h HTTPSource) Fetch(ctx context.Context) ([]Entry, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch leaderboard: unexpected status %s", resp.Status)
	}
	return Decode(resp.Body)
}

// TopScorer is the part of the best-score store the leaderboard reads.
type TopScorer interface {
	TopBests(ctx context.Context, limit int) ([]sqlite.PlayerBest, error)
}

// StoreSource lists the best scores kept by the best-score store.
type StoreSource struct {
	Store TopScorer
}

// Fetch implements Source.
func (s StoreSource) Fetch(ctx context.Context) ([]Entry, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("no score store configured")
	}
	rows, err := s.Store.TopBests(ctx, MaxEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, Entry{Name: r.Player, Score: r.Best})
	}
	return entries, nil
}

// Select picks the leaderboard source: a URL wins over a file, and with
// neither the best-score store is listed. It returns nil when nothing is configured.
func Select(url, file string, store TopScorer) Source {
	switch {
	case url != "":
		return HTTPSource{URL: url}
	case file != "":
		return FileSource{Path: file}
	case store != nil:
		return StoreSource{Store: store}
	default:
		return nil
	}
}

// Handler serves the leaderboard as a JSON array. Failures produce an empty array.
func Handler(src Source, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries := Load(r.Context(), src, logger)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(entries); err != nil && logger != nil {
			logger.Warn("write leaderboard", "err", err)
		}
	})
}
