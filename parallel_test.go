package cryptdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absfs/absfs"
)

func saveDocs(t *testing.T, s *Store, n int) []string {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("doc-%02d", i)
		if err := s.Save(names[i], "pw", strings.Repeat("entry ", i+1)); err != nil {
			t.Fatalf("Save(%s) error = %v", names[i], err)
		}
	}
	return names
}

func corrupt(t *testing.T, dir, name string) {
	t.Helper()
	p := filepath.Join(dir, name+Extension)
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(p, raw, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyAll(t *testing.T) {
	s, dir := newDirStore(t)
	names := saveDocs(t, s, 10)
	corrupt(t, dir, "doc-03")
	corrupt(t, dir, "doc-07")

	configs := map[string]ParallelConfig{
		"sequential": {MaxWorkers: 1},
		"parallel":   {MaxWorkers: 4, MinDocsForParallel: 2},
		"default":    DefaultParallelConfig(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			results, err := s.VerifyAll(names, cfg)
			if err != nil {
				t.Fatalf("VerifyAll() error = %v", err)
			}
			if len(results) != len(names) {
				t.Fatalf("got %d results, want %d", len(results), len(names))
			}

			for i, r := range results {
				if r.Name != names[i] {
					t.Errorf("results[%d].Name = %q, want %q", i, r.Name, names[i])
				}
				bad := r.Name == "doc-03" || r.Name == "doc-07"
				if bad && !IsIntegrityError(r.Err) {
					t.Errorf("%s: error = %v, want IntegrityError", r.Name, r.Err)
				}
				if !bad && r.Err != nil {
					t.Errorf("%s: unexpected error %v", r.Name, r.Err)
				}
			}
		})
	}
}

func TestVerifyAll_AllDocuments(t *testing.T) {
	s, _ := newDirStore(t)

	results, err := s.VerifyAll(nil, DefaultParallelConfig())
	if err != nil || len(results) != 0 {
		t.Errorf("VerifyAll() on empty store = %v, %v", results, err)
	}

	saveDocs(t, s, 5)
	results, err = s.VerifyAll(nil, DefaultParallelConfig())
	if err != nil {
		t.Fatalf("VerifyAll() error = %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", r.Name, r.Err)
		}
	}
}

func TestVerifyAll_MissingAndInvalid(t *testing.T) {
	s, _ := newDirStore(t)
	saveDocs(t, s, 1)

	results, err := s.VerifyAll([]string{"doc-00", "nope", "../escape"}, ParallelConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil {
		t.Errorf("doc-00: unexpected error %v", results[0].Err)
	}
	if !IsIOError(results[1].Err) {
		t.Errorf("missing document error = %v, want IOError", results[1].Err)
	}
	if !IsValidationError(results[2].Err) {
		t.Errorf("invalid name error = %v, want ValidationError", results[2].Err)
	}

	if _, err := s.VerifyAll(nil, ParallelConfig{MaxWorkers: -1}); !IsValidationError(err) {
		t.Errorf("VerifyAll() with bad config error = %v, want ValidationError", err)
	}
}

// panicFS panics when a particular container is opened
type panicFS struct {
	absfs.FileSystem
	target string
}

func (fs *panicFS) Open(name string) (absfs.File, error) {
	if strings.HasSuffix(name, fs.target) {
		panic("test panic in verification")
	}
	return fs.FileSystem.Open(name)
}

func TestVerifyAll_PanicRecovery(t *testing.T) {
	s, _ := newDirStore(t)
	names := saveDocs(t, s, 8)

	ps, err := NewStore(&panicFS{FileSystem: s.fs, target: "doc-05" + Extension}, s.Dir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	results, err := ps.VerifyAll(names, ParallelConfig{MaxWorkers: 4, MinDocsForParallel: 2})
	if err != nil {
		t.Fatalf("VerifyAll() error = %v", err)
	}

	for _, r := range results {
		if r.Name == "doc-05" {
			if r.Err == nil || !strings.Contains(r.Err.Error(), "panic") {
				t.Errorf("doc-05: error = %v, want recovered panic", r.Err)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", r.Name, r.Err)
		}
	}
}
