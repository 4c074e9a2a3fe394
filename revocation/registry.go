// Package revocation keeps the authenticated set of revoked document
// fingerprints. Every entry is mirrored into a sparse Merkle map keyed
// by content hash, so any lookup can carry a witness against the
// published root and relying parties can detect silent tampering with
// the persisted file.
package revocation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/attestia/zkattest/common"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/merklemap"
)

// ErrIO marks a failed durable write. The in-memory set stays ahead of
// the file until a later write succeeds.
var ErrIO = errors.New("revocation registry write failed")

// Registry maps document content hashes to revocation timestamps.
// A zero leaf means not revoked. Mutations are serialized; reads take
// the same lock because they walk the shared tree.
type Registry struct {
	mu      sync.Mutex
	path    string
	tree    *merklemap.Map
	entries map[string]int64
	log     *slog.Logger
}

// Open loads the registry from path, or starts empty when the file is
// missing. A corrupt file also starts empty: losing the local copy is
// recoverable as long as the pinned root exposes it, so it is surfaced
// as a warning rather than an error.
func Open(path string, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		path:    path,
		tree:    merklemap.New(merklemap.DefaultDepth),
		entries: make(map[string]int64),
		log:     log,
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("revocation registry starting empty", "path", path)
		return r
	}
	if err != nil {
		log.Warn("revocation registry unreadable, starting empty", "path", path, "error", err)
		return r
	}
	persisted := make(map[string]string)
	if err := json.Unmarshal(raw, &persisted); err != nil {
		log.Warn("revocation registry corrupt, starting empty", "path", path, "error", err)
		return r
	}
	for key, value := range persisted {
		fp, err := field.FromDecimalString(key)
		if err != nil {
			log.Warn("revocation registry corrupt, starting empty", "path", path, "error", err)
			return emptied(r)
		}
		ts, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ts < 0 {
			log.Warn("revocation registry corrupt, starting empty", "path", path, "entry", key)
			return emptied(r)
		}
		r.entries[key] = ts
		r.tree.Set(fp, field.FromUint64(uint64(ts)))
	}
	log.Info("revocation registry loaded", "path", path, "entries", len(r.entries))
	return r
}

func emptied(r *Registry) *Registry {
	r.entries = make(map[string]int64)
	r.tree = merklemap.New(merklemap.DefaultDepth)
	return r
}

// Revoke marks fingerprint revoked at the given time and persists the
// full map. Revoking again only moves the timestamp.
func (r *Registry) Revoke(fingerprint field.Element, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := at.Unix()
	r.entries[fingerprint.String()] = ts
	r.tree.Set(fingerprint, field.FromUint64(uint64(ts)))
	if err := r.persistLocked(); err != nil {
		r.log.Warn("revocation persist failed", "path", r.path, "error", err)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.log.Info("document revoked", "fingerprint", fingerprint.String(), "timestamp", ts)
	return nil
}

// RevokeNow revokes at the current time.
func (r *Registry) RevokeNow(fingerprint field.Element) error {
	return r.Revoke(fingerprint, time.Now())
}

// IsRevoked reports whether fingerprint carries a non-zero leaf.
func (r *Registry) IsRevoked(fingerprint field.Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[fingerprint.String()]
	return ok
}

// Timestamp returns the revocation time for fingerprint.
func (r *Registry) Timestamp(fingerprint field.Element) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.entries[fingerprint.String()]
	return ts, ok
}

// Witness returns the current root together with the sibling path for
// fingerprint, taken under one lock so they describe the same state.
func (r *Registry) Witness(fingerprint field.Element) (field.Element, merklemap.Witness) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.Root(), r.tree.Witness(fingerprint)
}

// Status is one consistent view of a fingerprint: the root, the
// sibling path and the revocation state all from the same lock, so a
// concurrent revoke cannot tear a prover's inputs apart.
type Status struct {
	Root      field.Element
	Witness   merklemap.Witness
	Revoked   bool
	RevokedAt int64
}

// Status snapshots fingerprint under a single lock acquisition.
func (r *Registry) Status(fingerprint field.Element) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.entries[fingerprint.String()]
	return Status{
		Root:      r.tree.Root(),
		Witness:   r.tree.Witness(fingerprint),
		Revoked:   ok,
		RevokedAt: ts,
	}
}

// Root returns the element authenticating the whole revocation set.
func (r *Registry) Root() field.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.Root()
}

// Len returns the number of revoked fingerprints.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// persistLocked rewrites the whole map through a temp file so a crash
// never leaves a half-written registry.
func (r *Registry) persistLocked() error {
	persisted := make(map[string]string, len(r.entries))
	for key, ts := range r.entries {
		persisted[key] = strconv.FormatInt(ts, 10)
	}
	buf, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return err
	}
	return common.AtomicWriteFile(r.path, buf)
}
