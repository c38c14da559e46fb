package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elvinq/carbazar/pkg/logger"
	"go.uber.org/zap"
)

// Moderation and lifecycle actions recorded in the trail.
const (
	ActionUserBlock    = "user.block"
	ActionUserUnblock  = "user.unblock"
	ActionCarTakedown  = "car.takedown"
	ActionCarReinstate = "car.reinstate"
	ActionCarDelete    = "car.delete"
)

// Entry is one recorded moderation or lifecycle event.
type Entry struct {
	ActorID   uint      `json:"actor_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only JSONL audit trail. Every entry is synced to disk
// before Record returns.
type Log struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates the audit log file (and its directory) if needed and opens it
// for appending.
func Open(filePath string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Log{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends one entry and syncs it to disk.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit: failed to marshal entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	if _, err := l.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	if err := l.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every recorded entry, oldest first. Lines that fail to
// parse are skipped.
func (l *Log) ReadAll() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
