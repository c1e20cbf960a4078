package filestore

import (
	"os"
	"time"

	ipath "github.com/mlflow-go/filestore/internal/path"
)

func ensureDir(dir string) error { return ipath.EnsureDir(dir) }

func removeAll(dir string) error { return os.RemoveAll(dir) }

func nowMillis() int64 { return time.Now().UnixMilli() }

func int64Ptr(v int64) *int64 { return &v }
