package store

import (
	"context"
	"fmt"
	"sort"
)

type undo struct {
	ns   string
	key  string
	prev *string
	had  bool
}

// Tx buffers the writes of one call on top of a Backend. Reads see the
// buffered writes first. Nothing reaches the backend before Commit.
type Tx struct {
	ctx     context.Context
	backend Backend
	dirty   map[string]map[string]*string
	journal []undo
	err     error
}

// Begin opens an overlay, it holds no backend resources until Commit.
func Begin(ctx context.Context, b Backend) *Tx {
	return &Tx{
		ctx:     ctx,
		backend: b,
		dirty:   map[string]map[string]*string{},
	}
}

// Get returns nil when the key is missing or deleted in this tx.
func (t *Tx) Get(ns, key string) *string {
	if m := t.dirty[ns]; m != nil {
		if v, ok := m[key]; ok {
			if v == nil {
				return nil
			}
			val := *v
			return &val
		}
	}
	if t.err != nil {
		return nil
	}
	v, err := t.backend.Get(t.ctx, ns, key)
	if err != nil {
		// sticky, Commit refuses to run afterwards
		t.err = fmt.Errorf("read %s: %w", ns, err)
		return nil
	}
	return v
}

func (t *Tx) Set(ns, key, value string) {
	t.put(ns, key, &value)
}

func (t *Tx) Delete(ns, key string) {
	t.put(ns, key, nil)
}

func (t *Tx) put(ns, key string, v *string) {
	m := t.dirty[ns]
	if m == nil {
		m = map[string]*string{}
		t.dirty[ns] = m
	}
	prev, had := m[key]
	t.journal = append(t.journal, undo{ns: ns, key: key, prev: prev, had: had})
	m[key] = v
}

// Mark returns a savepoint for RevertTo.
func (t *Tx) Mark() int {
	return len(t.journal)
}

// RevertTo drops every write made after mark.
func (t *Tx) RevertTo(mark int) {
	if mark < 0 || mark > len(t.journal) {
		return
	}
	for i := len(t.journal) - 1; i >= mark; i-- {
		u := t.journal[i]
		if u.had {
			t.dirty[u.ns][u.key] = u.prev
		} else {
			delete(t.dirty[u.ns], u.key)
		}
	}
	t.journal = t.journal[:mark]
}

// Err reports a failed backend read.
func (t *Tx) Err() error {
	return t.err
}

// Writes lists the net effect of the tx ordered by namespace and key.
func (t *Tx) Writes() []Write {
	out := make([]Write, 0, len(t.journal))
	for ns, m := range t.dirty {
		for k, v := range m {
			out = append(out, Write{NS: ns, Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NS != out[j].NS {
			return out[i].NS < out[j].NS
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Commit hands the net writes to the backend in one batch.
func (t *Tx) Commit() error {
	if t.err != nil {
		return t.err
	}
	writes := t.Writes()
	if len(writes) == 0 {
		return nil
	}
	return t.backend.Commit(t.ctx, writes)
}
