package cryptdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// Store keeps encrypted documents as .enc files in one directory of an
// absfs.FileSystem. It reads and writes whole containers only; all
// cryptography is delegated to its Codec.
type Store struct {
	fs    absfs.FileSystem
	dir   string
	codec *Codec
}

// DocumentInfo describes a stored document without decrypting it
type DocumentInfo struct {
	Name    string    // Display name (file name without extension)
	Path    string    // Path on the underlying filesystem
	Size    int64     // Container size in bytes
	ModTime time.Time // Last modification time
}

// NewStore creates a store rooted at dir. A nil codec selects the default.
func NewStore(fs absfs.FileSystem, dir string, codec *Codec) (*Store, error) {
	if fs == nil {
		return nil, fmt.Errorf("base filesystem cannot be nil")
	}
	if dir == "" {
		dir = "/"
	}
	if codec == nil {
		codec = defaultCodec
	}

	return &Store{
		fs:    fs,
		dir:   path.Clean(dir),
		codec: codec,
	}, nil
}

// Dir returns the directory the store scans and writes
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the container path for a document name
func (s *Store) Path(name string) string {
	return path.Join(s.dir, name+Extension)
}

// Save encodes content and replaces the document in one rename. A fresh
// salt is drawn on every save. If anything fails the previous version is
// left untouched and no temporary file remains.
func (s *Store) Save(name, password, content string) error {
	if err := ValidateDocumentName(name); err != nil {
		return err
	}

	data, err := s.codec.Encode(password, content)
	if err != nil {
		return err
	}

	if info, err := s.fs.Stat(s.dir); err != nil || !info.IsDir() {
		if err := s.fs.MkdirAll(s.dir, 0700); err != nil {
			return NewIOError("mkdir", s.dir, err)
		}
	}

	return s.writeAtomic(s.Path(name), data)
}

// Load reads and decodes a document
func (s *Store) Load(name, password string) (string, error) {
	if err := ValidateDocumentName(name); err != nil {
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	p := s.Path(name)
	data, err := s.readFile(p)
	if err != nil {
		return "", err
	}

	text, err := s.codec.Decode(password, data)
	if err != nil {
		return "", withPath(err, p)
	}
	return text, nil
}

// ReadContainer reads a document's container without decrypting it
func (s *Store) ReadContainer(name string) (*Container, error) {
	if err := ValidateDocumentName(name); err != nil {
		return nil, err
	}

	p := s.Path(name)
	data, err := s.readFile(p)
	if err != nil {
		return nil, err
	}

	c, err := ParseContainer(data)
	if err != nil {
		return nil, withPath(err, p)
	}
	return c, nil
}

// Verify checks a document's integrity digest. No password is needed.
func (s *Store) Verify(name string) error {
	c, err := s.ReadContainer(name)
	if err != nil {
		return err
	}
	if err := c.Verify(); err != nil {
		return withPath(err, s.Path(name))
	}
	return nil
}

// Exists reports whether a document is present
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateDocumentName(name); err != nil {
		return false, err
	}

	p := s.Path(name)
	if _, err := s.fs.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewIOError("stat", p, err)
	}
	return true, nil
}

// Remove deletes a document
func (s *Store) Remove(name string) error {
	if err := ValidateDocumentName(name); err != nil {
		return err
	}

	p := s.Path(name)
	if err := s.fs.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return &IOError{
				Operation: "remove",
				Path:      p,
				Message:   "document not found",
				Err:       fmt.Errorf("%w: %w", ErrDocumentNotFound, err),
			}
		}
		return NewIOError("remove", p, err)
	}
	return nil
}

// List returns the documents in the store directory sorted by name.
// Hidden files, including in-flight temporary files, are skipped. A
// missing directory is an empty store.
func (s *Store) List() ([]DocumentInfo, error) {
	dir, err := s.fs.Open(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewIOError("list", s.dir, err)
	}
	names, err := dir.Readdirnames(-1)
	dir.Close()
	if err != nil {
		return nil, NewIOError("list", s.dir, err)
	}

	docs := make([]DocumentInfo, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(n, ".") || !strings.HasSuffix(n, Extension) {
			continue
		}
		name := strings.TrimSuffix(n, Extension)
		if name == "" {
			continue
		}

		p := path.Join(s.dir, n)
		info, err := s.fs.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue // removed while listing
			}
			return nil, NewIOError("stat", p, err)
		}
		if info.IsDir() {
			continue
		}

		docs = append(docs, DocumentInfo{
			Name:    name,
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

func (s *Store) readFile(p string) ([]byte, error) {
	f, err := s.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &IOError{
				Operation: "open",
				Path:      p,
				Message:   "document not found",
				Err:       fmt.Errorf("%w: %w", ErrDocumentNotFound, err),
			}
		}
		return nil, NewIOError("open", p, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, NewIOError("read", p, err)
	}
	return data, nil
}

// writeAtomic writes data to a temporary sibling of target, syncs it and
// renames it into place
func (s *Store) writeAtomic(target string, data []byte) error {
	tmp := path.Join(path.Dir(target), "."+path.Base(target)+"."+uuid.NewString()+".tmp")

	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return NewIOError("create", tmp, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return NewIOError("write", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return NewIOError("sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return NewIOError("close", tmp, err)
	}

	if err := s.fs.Rename(tmp, target); err != nil {
		if rmErr := s.fs.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return NewIOError("rename", target, fmt.Errorf("%w (temporary file %s left behind)", err, tmp))
		}
		return NewIOError("rename", target, err)
	}
	return nil
}
