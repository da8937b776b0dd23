package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/CosmWasm/tinyjson"
	"github.com/sasha-s/go-deadlock"
)

// Memory keeps state in maps. With a filename set every commit rewrites a
// JSON snapshot so a later OpenMemory can pick the state up again.
type Memory struct {
	mu       deadlock.RWMutex
	db       map[string]map[string]string
	filename string
}

func NewMemory() *Memory {
	return &Memory{db: map[string]map[string]string{}}
}

// OpenMemory loads filename when it exists. An empty filename disables snapshots.
func OpenMemory(filename string) (*Memory, error) {
	m := NewMemory()
	m.filename = filename
	if filename == "" {
		return m, nil
	}
	if err := m.loadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory) Get(_ context.Context, ns, key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[ns][key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (m *Memory) Commit(_ context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		if w.Value == nil {
			delete(m.db[w.NS], w.Key)
			continue
		}
		bucket := m.db[w.NS]
		if bucket == nil {
			bucket = map[string]string{}
			m.db[w.NS] = bucket
		}
		bucket[w.Key] = *w.Value
	}
	if m.filename == "" {
		return nil
	}
	return m.saveToFile()
}

func (m *Memory) Close() error {
	return nil
}

// Len counts the keys held under ns.
func (m *Memory) Len(ns string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db[ns])
}

// saveToFile writes the full map, keys and values hex encoded since both may be binary.
func (m *Memory) saveToFile() error {
	snap := snapshot{}
	for ns, bucket := range m.db {
		for k, v := range bucket {
			snap.Entries = append(snap.Entries, snapshotEntry{
				NS:    ns,
				Key:   hex.EncodeToString([]byte(k)),
				Value: hex.EncodeToString([]byte(v)),
			})
		}
	}
	sort.Slice(snap.Entries, func(i, j int) bool {
		if snap.Entries[i].NS != snap.Entries[j].NS {
			return snap.Entries[i].NS < snap.Entries[j].NS
		}
		return snap.Entries[i].Key < snap.Entries[j].Key
	})
	data, err := tinyjson.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(m.filename, data, 0644)
}

func (m *Memory) loadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := tinyjson.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	for _, e := range snap.Entries {
		k, err := hex.DecodeString(e.Key)
		if err != nil {
			return fmt.Errorf("snapshot key %q: %w", e.Key, err)
		}
		v, err := hex.DecodeString(e.Value)
		if err != nil {
			return fmt.Errorf("snapshot value for %q: %w", e.Key, err)
		}
		bucket := m.db[e.NS]
		if bucket == nil {
			bucket = map[string]string{}
			m.db[e.NS] = bucket
		}
		bucket[string(k)] = string(v)
	}
	return nil
}

//tinyjson:json
type snapshot struct {
	Entries []snapshotEntry `json:"entries"`
}

//tinyjson:json
type snapshotEntry struct {
	NS    string `json:"ns"`
	Key   string `json:"k"`
	Value string `json:"v"`
}
