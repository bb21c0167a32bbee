// Package dirfs exposes one operating-system directory as an
// absfs.FileSystem. Paths are slash-separated and resolved relative to the
// root, so "/notes/a.enc" names root/notes/a.enc.
package dirfs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// FileSystem is an absfs.FileSystem confined to a root directory
type FileSystem struct {
	root string
	cwd  string
}

// New creates a filesystem rooted at root, which must be an existing directory
func New(root string) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dirfs: %s is not a directory", abs)
	}
	return &FileSystem{root: abs, cwd: "/"}, nil
}

// Root returns the absolute OS path of the root directory
func (fs *FileSystem) Root() string {
	return fs.root
}

func (fs *FileSystem) resolve(name string) string {
	if !path.IsAbs(name) {
		name = path.Join(fs.cwd, name)
	}
	return filepath.Join(fs.root, filepath.FromSlash(path.Clean(name)))
}

func (fs *FileSystem) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	p := fs.resolve(name)
	if flag&os.O_CREATE != 0 {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(p, flag, perm)
}

func (fs *FileSystem) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(fs.resolve(name), perm)
}

func (fs *FileSystem) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(fs.resolve(name), perm)
}

func (fs *FileSystem) Remove(name string) error {
	return os.Remove(fs.resolve(name))
}

func (fs *FileSystem) RemoveAll(name string) error {
	return os.RemoveAll(fs.resolve(name))
}

func (fs *FileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(fs.resolve(oldpath), fs.resolve(newpath))
}

func (fs *FileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.resolve(name))
}

func (fs *FileSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.resolve(name), mode)
}

func (fs *FileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fs.resolve(name), atime, mtime)
}

func (fs *FileSystem) Chown(name string, uid, gid int) error {
	return os.Chown(fs.resolve(name), uid, gid)
}

func (fs *FileSystem) Separator() uint8 {
	return '/'
}

func (fs *FileSystem) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (fs *FileSystem) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Join(fs.cwd, dir)
	}
	info, err := os.Stat(fs.resolve(dir))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "chdir", Path: dir, Err: fmt.Errorf("not a directory")}
	}
	fs.cwd = path.Clean(dir)
	return nil
}

func (fs *FileSystem) Getwd() (string, error) {
	return fs.cwd, nil
}

func (fs *FileSystem) TempDir() string {
	return os.TempDir()
}

func (fs *FileSystem) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs *FileSystem) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
}

func (fs *FileSystem) Truncate(name string, size int64) error {
	return os.Truncate(fs.resolve(name), size)
}
