package meta

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name string `yaml:"name"`
}

func TestCodec_WriteRead(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meta.yaml")
	c := NewCodec()

	require.NoError(t, c.Write(p, &doc{Name: "exp-1"}))

	var out doc
	require.NoError(t, c.Read(p, &out))
	assert.Equal(t, "exp-1", out.Name)
}

func TestCodec_ReadMissingFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec()

	var out doc
	err := c.Read(filepath.Join(dir, "missing.yaml"), &out)
	require.Error(t, err)
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.True(t, re.NotExist)
}

func TestCodec_ReadRetriesOnTransientEmptyFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	c := &Codec{MaxRetries: 3, RetryBackoff: time.Millisecond}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(2 * time.Millisecond)
		_ = os.WriteFile(p, []byte("name: exp-1\n"), 0o644)
	}()

	var out doc
	err := c.Read(p, &out)
	wg.Wait()
	require.NoError(t, err)
	assert.Equal(t, "exp-1", out.Name)
}

func TestCodec_ReadStillEmptyAfterRetriesFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	c := &Codec{MaxRetries: 2, RetryBackoff: time.Millisecond}
	var out doc
	err := c.Read(p, &out)
	require.Error(t, err)
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.False(t, re.NotExist)
}

func TestCodec_ConcurrentReadsCollapse(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(p, []byte("name: exp-1\n"), 0o644))

	c := NewCodec()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out doc
			assert.NoError(t, c.Read(p, &out))
			assert.Equal(t, "exp-1", out.Name)
		}()
	}
	wg.Wait()
}
