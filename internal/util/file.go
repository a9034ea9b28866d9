package util

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// ErrUnsafeName is returned for file names that would leave the target
// directory.
var ErrUnsafeName = errors.New("file name is not a single path element")

// WriteFile writes data to dir/name, creating dir on the way. The content is
// written to a temporary file first and renamed into place, so a reader never
// sees a half written certificate.
func WriteFile(dir, name string, data []byte) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", errors.Wrapf(ErrUnsafeName, "%q", name)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}

	tmp, err := os.CreateTemp(dir, ".certgen-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint: errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "write temp file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(err, "rename into place")
	}
	return path, nil
}
