package fsstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/dDS/lib/datastore"
)

// ensureDirectory makes dir and its parents. An existing non-directory at dir is an error.
func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		log.Debugf("created directory %s", dir)
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return datastore.Errorf(datastore.RetCTypeMismatch, "path %s is a file, not a directory", dir)
	}
	return nil
}

// readObject reads the file at path. A missing file is reported with ok == false.
func readObject(path string) (value []byte, ok bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if info.IsDir() {
		return nil, false, datastore.Errorf(datastore.RetCTypeMismatch, "%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// writeObject writes data to path through a temporary file in the same
// directory that is synced and then renamed into place.
func writeObject(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDirectory(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
