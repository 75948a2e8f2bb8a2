package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local writes uploads into Dir and serves them under Prefix.
type Local struct {
	Dir    string
	Prefix string
}

var _ Store = (*Local)(nil)

func NewLocal(dir, prefix string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("images: empty upload dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if prefix == "" {
		prefix = "/uploads"
	}
	return &Local{Dir: dir, Prefix: strings.TrimRight(prefix, "/")}, nil
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validName(name) {
		return "", fmt.Errorf("images: invalid name %q", name)
	}

	tmp, err := os.CreateTemp(l.Dir, name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0o644)
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, filepath.Join(l.Dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return path.Join(l.Prefix, name), nil
}

// Path returns the file for a served name. Names that would leave Dir are
// reported as missing.
func (l *Local) Path(name string) (string, error) {
	if !validName(name) {
		return "", fs.ErrNotExist
	}
	p := filepath.Join(l.Dir, name)
	st, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return "", fs.ErrNotExist
	}
	return p, nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
