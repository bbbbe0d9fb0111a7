package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	mateFEN  = "8/8/8/6q1/8/3k4/8/3K4 b - - 0 1"
)

func openTestArchive(t *testing.T, dir string) *Archive {
	t.Helper()
	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open(%q): %v", dir, err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive(t *testing.T) {
	a := openTestArchive(t, "")

	if _, err := a.Lookup(startFEN); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup on empty archive error = %v, want ErrNotFound", err)
	}

	saves := []Record{
		{FEN: startFEN, Depth: 3, Score: 0, BestMove: "e2e4", PV: []string{"e2e4", "e7e5", "g1f3"}},
		{FEN: mateFEN, Depth: 2, Score: 10999, Mate: true, BestMove: "g5d2", PV: []string{"g5d2"}},
		{FEN: startFEN, Depth: 4, Score: 10, BestMove: "d2d4", PV: []string{"d2d4"}},
	}
	for _, r := range saves {
		if err := a.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	t.Run("Lookup", func(t *testing.T) {
		r, err := a.Lookup(startFEN)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if r.Depth != 4 || r.BestMove != "d2d4" {
			t.Errorf("Lookup = %+v, want the depth 4 analysis", r)
		}
		if r.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}

		r, err = a.Lookup(mateFEN)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if !r.Mate || len(r.PV) != 1 {
			t.Errorf("Lookup = %+v", r)
		}
	})

	t.Run("History", func(t *testing.T) {
		records, err := a.History(startFEN)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(records) != 2 || records[0].Depth != 3 || records[1].Depth != 4 {
			t.Errorf("History = %+v, want depths 3 then 4", records)
		}

		records, err = a.History("8/8/8/8/8/8/8/8 w - - 0 1")
		if err != nil || len(records) != 0 {
			t.Errorf("History of unknown position = %v, %v", records, err)
		}
	})

	t.Run("Recent", func(t *testing.T) {
		records, err := a.Recent(2)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(records) != 2 || records[0].BestMove != "d2d4" || records[1].BestMove != "g5d2" {
			t.Errorf("Recent(2) = %+v", records)
		}

		records, err = a.Recent(0)
		if err != nil || len(records) != 3 {
			t.Errorf("Recent(0) = %d records, %v, want 3", len(records), err)
		}
	})
}

func TestSaveKeepsCreatedAt(t *testing.T) {
	a := openTestArchive(t, "")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := a.Save(Record{FEN: startFEN, CreatedAt: at}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r, err := a.Lookup(startFEN)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !r.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, at)
	}
}

func TestSaveRejectsEmptyFEN(t *testing.T) {
	a := openTestArchive(t, "")
	if err := a.Save(Record{}); err == nil {
		t.Error("Save with empty FEN succeeded")
	}
}

func TestArchivePersists(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Save(Record{FEN: startFEN, Depth: 5, BestMove: "e2e4"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a = openTestArchive(t, dir)
	r, err := a.Lookup(startFEN)
	if err != nil {
		t.Fatalf("Lookup after reopen: %v", err)
	}
	if r.Depth != 5 {
		t.Errorf("Depth = %d, want 5", r.Depth)
	}
	// Sequence numbers keep growing across reopen.
	if err := a.Save(Record{FEN: startFEN, Depth: 6}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	records, err := a.History(startFEN)
	if err != nil || len(records) != 2 || records[1].Depth != 6 {
		t.Errorf("History = %+v, %v", records, err)
	}
}

func TestArchiveDirByPlatform(t *testing.T) {
	home := filepath.Join("home", "ada")
	noHome := func() (string, error) { return "", errors.New("no home") }

	tests := []struct {
		name    string
		goos    string
		env     map[string]string
		noHome  bool
		want    string
		wantErr bool
	}{
		{"linux", "linux", nil, false, filepath.Join(home, ".local", "share", "gigibot", "archive"), false},
		{"linux xdg", "linux", map[string]string{"XDG_DATA_HOME": "xdg"}, false, filepath.Join("xdg", "gigibot", "archive"), false},
		{"macos", "darwin", nil, false, filepath.Join(home, "Library", "Application Support", "gigibot", "archive"), false},
		{"macos ignores xdg", "darwin", map[string]string{"XDG_DATA_HOME": "xdg"}, false,
			filepath.Join(home, "Library", "Application Support", "gigibot", "archive"), false},
		{"windows", "windows", map[string]string{"APPDATA": "roaming"}, false, filepath.Join("roaming", "gigibot", "archive"), false},
		{"windows without appdata", "windows", nil, false, filepath.Join(home, "AppData", "Roaming", "gigibot", "archive"), false},
		{"override", "linux", map[string]string{EnvDir: "elsewhere"}, true, "elsewhere", false},
		{"no home", "linux", nil, true, "", true},
		{"no home with xdg", "freebsd", map[string]string{"XDG_DATA_HOME": "xdg"}, true, filepath.Join("xdg", "gigibot", "archive"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := platform{
				goos:   tc.goos,
				getenv: func(k string) string { return tc.env[k] },
				home:   func() (string, error) { return home, nil },
			}
			if tc.noHome {
				p.home = noHome
			}

			got, err := p.archiveDir()
			if (err != nil) != tc.wantErr {
				t.Fatalf("archiveDir() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("archiveDir() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveDir(t *testing.T) {
	override := filepath.Join(t.TempDir(), "archive")
	t.Setenv(EnvDir, override)

	dir, err := ResolveDir(DefaultFlag)
	if err != nil {
		t.Fatalf("ResolveDir(%q): %v", DefaultFlag, err)
	}
	if dir != override {
		t.Errorf("ResolveDir(%q) = %q, want %q", DefaultFlag, dir, override)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("archive directory was not created: %v", err)
	}

	if dir, err := ResolveDir("some/dir"); err != nil || dir != "some/dir" {
		t.Errorf("ResolveDir(some/dir) = %q, %v", dir, err)
	}
}
