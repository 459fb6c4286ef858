package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"medblock/pkg/platform/sentinel"
)

// LevelDB key layout. Entries are stored under two axes so both
// by-reference lookup and sequential replay work without scanning:
//   entry_<ref>     -> Entry JSON
//   index_<height>  -> ref
//   height_latest   -> last height as decimal
const (
	keyEntryPrefix = "entry_"
	keyIndexPrefix = "index_"
	keyLatest      = "height_latest"
)

// LevelChain is the durable local ledger backend: the same hash chain as
// HashChain, persisted in LevelDB so references survive restarts.
type LevelChain struct {
	mu   sync.Mutex
	db   *leveldb.DB
	head Ref
	next uint64
	now  func() time.Time
}

// OpenLevelChain opens (or creates) the chain database at path and
// recovers the head from the stored height.
func OpenLevelChain(path string) (*LevelChain, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	c := &LevelChain{db: db, head: genesisRef, now: time.Now}
	if raw, err := db.Get([]byte(keyLatest), nil); err == nil {
		height, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("corrupt ledger height %q", raw)
		}
		ref, err := db.Get([]byte(keyIndexPrefix+strconv.FormatUint(height, 10)), nil)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("recover ledger head: %w", err)
		}
		c.head = Ref(ref)
		c.next = height + 1
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		db.Close()
		return nil, fmt.Errorf("read ledger height: %w", err)
	}
	return c, nil
}

func (c *LevelChain) Close() error { return c.db.Close() }

func (c *LevelChain) Notarize(ctx context.Context, digest string, metadata map[string]string) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{
		Index:       c.next,
		PrevRef:     c.head,
		Digest:      digest,
		Metadata:    copyMetadata(metadata),
		NotarizedAt: c.now().UTC(),
	}
	entry.Ref = chainRef(entry.PrevRef, entry.Index, entry.Digest, entry.Metadata, entry.NotarizedAt)

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal ledger entry: %w", err)
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(keyEntryPrefix+string(entry.Ref)), data)
	batch.Put([]byte(keyIndexPrefix+strconv.FormatUint(entry.Index, 10)), []byte(entry.Ref))
	batch.Put([]byte(keyLatest), []byte(strconv.FormatUint(entry.Index, 10)))
	if err := c.db.Write(batch, nil); err != nil {
		return "", fmt.Errorf("%w: write ledger entry: %v", sentinel.ErrUnavailable, err)
	}

	c.head = entry.Ref
	c.next = entry.Index + 1
	return entry.Ref, nil
}

func (c *LevelChain) Confirmed(_ context.Context, ref Ref) (bool, error) {
	ok, err := c.db.Has([]byte(keyEntryPrefix+string(ref)), nil)
	if err != nil {
		return false, fmt.Errorf("%w: read ledger entry: %v", sentinel.ErrUnavailable, err)
	}
	return ok, nil
}

func (c *LevelChain) Metadata(_ context.Context, ref Ref) (map[string]string, error) {
	raw, err := c.db.Get([]byte(keyEntryPrefix+string(ref)), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger entry: %v", sentinel.ErrUnavailable, err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("corrupt ledger entry %s: %w", ref, err)
	}
	return entry.Metadata, nil
}

// EntryAt returns the entry at a chain height, for replay and audits.
func (c *LevelChain) EntryAt(height uint64) (Entry, error) {
	ref, err := c.db.Get([]byte(keyIndexPrefix+strconv.FormatUint(height, 10)), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%w: read ledger index: %v", sentinel.ErrUnavailable, err)
	}
	raw, err := c.db.Get([]byte(keyEntryPrefix+string(ref)), nil)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: read ledger entry: %v", sentinel.ErrUnavailable, err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("corrupt ledger entry %s: %w", ref, err)
	}
	return entry, nil
}
