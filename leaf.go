package filestore

import (
	"os"
	"path/filepath"

	ipath "github.com/mlflow-go/filestore/internal/path"
)

// listLeafFiles returns the key -> raw file contents map for every file
// directly inside dir (a params/, tags/, or experiment tags/
// directory). A missing dir is treated as empty, since older on-disk
// layouts, or runs that never received any param/tag, may not have
// created it.
func listLeafFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(dir + string(os.PathSeparator) + e.Name())
		if err != nil {
			return nil, err
		}
		out[e.Name()] = string(data)
	}
	return out, nil
}

// writeLeafFile truncate-writes value into dir/key, creating dir (and
// the nested directories of a slash-bearing key) if necessary and
// rejecting path-escape attempts via internal/path.
func writeLeafFile(dir, key, value string) error {
	file, err := ipath.KeyFile(dir, key)
	if err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(file)); err != nil {
		return err
	}
	return os.WriteFile(file, []byte(value), 0o644)
}

// readLeafFile returns the contents of dir/key and whether it exists.
func readLeafFile(dir, key string) (string, bool, error) {
	file, err := ipath.KeyFile(dir, key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// deleteLeafFile removes dir/key, reporting whether it existed.
func deleteLeafFile(dir, key string) (existed bool, err error) {
	file, err := ipath.KeyFile(dir, key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(file); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
