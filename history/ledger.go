// Package history keeps the append-only audit trail of verification
// attempts. Every attempt lands here, repeats included; records are
// never mutated or deleted once written.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/attestia/zkattest/common"
	"github.com/attestia/zkattest/field"
)

// ErrWrite marks a failed durable append. A verification cannot be
// reported recorded without it, so callers fail the request.
var ErrWrite = errors.New("history ledger write failed")

// Record is one verification attempt. DocumentHash and InfoHash are
// decimal field elements, the document's content hash and the claim
// fingerprint, matching the persisted file byte for byte.
type Record struct {
	Timestamp    int64  `json:"timestamp"`
	DocumentHash string `json:"documentHash"`
	InfoHash     string `json:"infoHash"`
	Query        string `json:"query"`
	Result       bool   `json:"result"`
	ProofType    string `json:"proofType"`
}

// Ledger rewrites the whole file on every append. That is O(n) per
// write and fine at this scale; swapping in an append-only store
// would not change the interface.
type Ledger struct {
	mu      sync.Mutex
	path    string
	records []Record
	log     *slog.Logger
}

// Open loads the ledger from path, or starts empty when the file is
// missing or corrupt. History loss is survivable and warned about;
// failed appends are not, see Append.
func Open(path string, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	l := &Ledger{path: path, log: log}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("history ledger starting empty", "path", path)
		return l
	}
	if err != nil {
		log.Warn("history ledger unreadable, starting empty", "path", path, "error", err)
		return l
	}
	if err := json.Unmarshal(raw, &l.records); err != nil {
		log.Warn("history ledger corrupt, starting empty", "path", path, "error", err)
		l.records = nil
		return l
	}
	log.Info("history ledger loaded", "path", path, "records", len(l.records))
	return l
}

// Append records one verification attempt at the given time and
// persists the whole ledger before returning.
func (l *Ledger) Append(at time.Time, documentHash, infoHash field.Element, query string, result bool, proofType string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := Record{
		Timestamp:    at.Unix(),
		DocumentHash: documentHash.String(),
		InfoHash:     infoHash.String(),
		Query:        query,
		Result:       result,
		ProofType:    proofType,
	}
	l.records = append(l.records, rec)
	if err := l.persistLocked(); err != nil {
		l.records = l.records[:len(l.records)-1]
		l.log.Error("history append failed", "path", l.path, "error", err)
		return Record{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return rec, nil
}

// ForDocument returns the records for one document hash in append
// order.
func (l *Ledger) ForDocument(documentHash field.Element) []Record {
	return l.filter(func(r Record) bool { return r.DocumentHash == documentHash.String() })
}

// ForClaim returns the records for one claim fingerprint in append
// order.
func (l *Ledger) ForClaim(infoHash field.Element) []Record {
	return l.filter(func(r Record) bool { return r.InfoHash == infoHash.String() })
}

// All returns a copy of every record in append order.
func (l *Ledger) All() []Record {
	return l.filter(func(Record) bool { return true })
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Ledger) filter(keep func(Record) bool) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Record
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (l *Ledger) persistLocked() error {
	buf, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return err
	}
	return common.AtomicWriteFile(l.path, buf)
}
