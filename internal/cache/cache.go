package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	cacheVersion    = 1
	cacheDirName    = "ciryl"
	offsetCacheName = "offsets"
	entryExt        = ".bin"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCacheCorrupt = errors.New("cache corrupt")
)

// OffsetEntry is the sync offset remembered for one song.
type OffsetEntry struct {
	Version   uint8
	Artist    string
	Title     string
	OffsetMs  int
	UpdatedAt int64
}

// DiskCache keeps offsets in memory and mirrors them to one gob file per
// song. A DiskCache with an empty base path only lives in memory.
type DiskCache struct {
	basePath string
	mu       sync.RWMutex
	memCache map[string]*OffsetEntry
}

// Open uses dir, or the user cache directory when dir is empty. It never
// fails: if the directory cannot be created the cache stays in memory.
func Open(dir string) *DiskCache {
	c, err := NewDiskCache(dir)
	if err != nil {
		return &DiskCache{memCache: make(map[string]*OffsetEntry)}
	}
	return c
}

func NewDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		cacheDir, err := getCacheDirectory()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(cacheDir, offsetCacheName)
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	return &DiskCache{
		basePath: dir,
		memCache: make(map[string]*OffsetEntry),
	}, nil
}

func getCacheDirectory() (string, error) {
	// xdg cache home takes priority
	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache != "" {
		return filepath.Join(xdgCache, cacheDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".cache", cacheDirName), nil
}

func (c *DiskCache) Path() string { return c.basePath }

func generateKey(artist, title string) string {
	normalized := artist + "|" + title
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:12])
}

func (c *DiskCache) getFilePath(key string) string {
	if c.basePath == "" {
		return ""
	}
	return filepath.Join(c.basePath, key+entryExt)
}

func (c *DiskCache) Get(artist, title string) (*OffsetEntry, error) {
	if artist == "" && title == "" {
		return nil, ErrCacheMiss
	}

	key := generateKey(artist, title)

	c.mu.RLock()
	entry, exists := c.memCache[key]
	c.mu.RUnlock()

	if exists {
		return entry, nil
	}

	if c.basePath == "" {
		return nil, ErrCacheMiss
	}

	entry, err := c.readFromDisk(c.getFilePath(key))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.memCache[key] = entry
	c.mu.Unlock()

	return entry, nil
}

// Offset returns the stored offset for a song, 0 when there is none.
func (c *DiskCache) Offset(artist, title string) int {
	entry, err := c.Get(artist, title)
	if err != nil {
		return 0
	}
	return entry.OffsetMs
}

func (c *DiskCache) Set(artist, title string, offsetMs int) error {
	if artist == "" && title == "" {
		return errors.New("invalid cache entry")
	}

	key := generateKey(artist, title)
	entry := &OffsetEntry{
		Version:   cacheVersion,
		Artist:    artist,
		Title:     title,
		OffsetMs:  offsetMs,
		UpdatedAt: time.Now().Unix(),
	}

	c.mu.Lock()
	c.memCache[key] = entry
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	return c.writeToDisk(c.getFilePath(key), entry)
}

func (c *DiskCache) readFromDisk(filePath string) (*OffsetEntry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	defer file.Close()

	var entry OffsetEntry
	decoder := gob.NewDecoder(file)
	err = decoder.Decode(&entry)
	if err != nil {
		return nil, ErrCacheCorrupt
	}

	// version mismatch means stale format
	if entry.Version != cacheVersion {
		_ = os.Remove(filePath)
		return nil, ErrCacheCorrupt
	}

	return &entry, nil
}

func (c *DiskCache) writeToDisk(filePath string, entry *OffsetEntry) error {
	// write to temp file first, then rename for atomicity
	tmpPath := filePath + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	encoder := gob.NewEncoder(file)
	err = encoder.Encode(entry)
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Sync()
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, filePath)
}

func (c *DiskCache) Clear() error {
	c.mu.Lock()
	c.memCache = make(map[string]*OffsetEntry)
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), entryExt) {
			_ = os.Remove(filepath.Join(c.basePath, entry.Name()))
		}
	}

	return nil
}

// Prune removes files that no longer decode.
func (c *DiskCache) Prune() (int, error) {
	if c.basePath == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), entryExt) {
			continue
		}

		filePath := filepath.Join(c.basePath, dirEntry.Name())
		if _, err := c.readFromDisk(filePath); err != nil {
			_ = os.Remove(filePath)
			pruned++
		}
	}

	return pruned, nil
}

func (c *DiskCache) ListAll() ([]*OffsetEntry, error) {
	if c.basePath == "" {
		c.mu.RLock()
		defer c.mu.RUnlock()
		result := make([]*OffsetEntry, 0, len(c.memCache))
		for _, entry := range c.memCache {
			result = append(result, entry)
		}
		return result, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var result []*OffsetEntry

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), entryExt) {
			continue
		}

		entry, err := c.readFromDisk(filepath.Join(c.basePath, dirEntry.Name()))
		if err != nil {
			continue
		}

		result = append(result, entry)
	}

	return result, nil
}

func (c *DiskCache) Delete(artist, title string) error {
	if artist == "" && title == "" {
		return errors.New("invalid artist or title")
	}

	key := generateKey(artist, title)

	c.mu.Lock()
	delete(c.memCache, key)
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	err := os.Remove(c.getFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
