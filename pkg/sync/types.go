package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Snapshot records a set of BIOS settings at one point in time.
type Snapshot struct {
	VersionID string
	Checksum  string
	Timestamp time.Time
	Settings  map[string]string
}

// ChangeSet describes the move from one snapshot to another.
type ChangeSet struct {
	Base   *Snapshot
	Target *Snapshot
	Diff   *DiffResult
}

// DiffResult lists settings per kind of change. Changed holds [before, after].
type DiffResult struct {
	Added   map[string]string
	Removed map[string]string
	Changed map[string][2]string
}

// NewSnapshot captures settings with a fresh version id and a content checksum.
func NewSnapshot(settings map[string]string, at time.Time) *Snapshot {
	copied := make(map[string]string, len(settings))
	for k, v := range settings {
		copied[k] = v
	}
	return &Snapshot{
		VersionID: uuid.NewString(),
		Checksum:  Checksum(copied),
		Timestamp: at,
		Settings:  copied,
	}
}

// Checksum hashes settings independently of map order.
func Checksum(settings map[string]string) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%q=%q\n", k, settings[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compare builds the ChangeSet from base to target. Nil snapshots count as empty.
func Compare(base, target *Snapshot) *ChangeSet {
	diff := &DiffResult{
		Added:   map[string]string{},
		Removed: map[string]string{},
		Changed: map[string][2]string{},
	}
	before := settingsOf(base)
	after := settingsOf(target)
	for k, v := range after {
		old, ok := before[k]
		switch {
		case !ok:
			diff.Added[k] = v
		case old != v:
			diff.Changed[k] = [2]string{old, v}
		}
	}
	for k, v := range before {
		if _, ok := after[k]; !ok {
			diff.Removed[k] = v
		}
	}
	return &ChangeSet{Base: base, Target: target, Diff: diff}
}

// Empty reports whether the diff holds no change at all.
func (d *DiffResult) Empty() bool {
	return d == nil || len(d.Added)+len(d.Removed)+len(d.Changed) == 0
}

func settingsOf(s *Snapshot) map[string]string {
	if s == nil {
		return nil
	}
	return s.Settings
}
