package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"linkaudit/internal/models"
)

type fileData struct {
	Checked map[string]fileEntry `json:"checked"`
}

type fileEntry struct {
	Info      models.HeaderInfo `json:"info"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// File is a JSON file backed cache. Results are kept in memory and written
// back on Flush.
type File struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu   sync.RWMutex
	data fileData
}

// OpenFile loads path if it exists. A missing or empty file starts an empty cache.
func OpenFile(path string, ttl time.Duration) (*File, error) {
	data, err := loadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load cache %s", path)
	}
	return &File{path: path, ttl: ttl, now: time.Now, data: data}, nil
}

func (c *File) Read(_ context.Context, key string) (models.HeaderInfo, bool, error) {
	c.mu.RLock()
	e, ok := c.data.Checked[key]
	c.mu.RUnlock()
	if !ok {
		return models.HeaderInfo{}, false, nil
	}
	if c.ttl > 0 && c.now().Sub(e.CheckedAt) >= c.ttl {
		return models.HeaderInfo{}, false, nil
	}
	return e.Info, true, nil
}

func (c *File) Write(_ context.Context, key string, info models.HeaderInfo) error {
	c.mu.Lock()
	c.data.Checked[key] = fileEntry{Info: info, CheckedAt: c.now().UTC()}
	c.mu.Unlock()
	return nil
}

func (c *File) Flush() error {
	c.mu.RLock()
	snapshot := make(map[string]fileEntry, len(c.data.Checked))
	for k, v := range c.data.Checked {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	payload, err := json.MarshalIndent(fileData{Checked: snapshot}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode cache")
	}
	dir := filepath.Dir(c.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create cache dir")
		}
	}
	return errors.Wrap(os.WriteFile(c.path, payload, 0o644), "write cache")
}

func loadFile(path string) (fileData, error) {
	data := fileData{Checked: make(map[string]fileEntry)}
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, err
	}
	if len(payload) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return fileData{}, err
	}
	if data.Checked == nil {
		data.Checked = make(map[string]fileEntry)
	}
	return data, nil
}
