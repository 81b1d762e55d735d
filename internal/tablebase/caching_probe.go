package tablebase

import (
	"encoding/binary"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/hailam/haloengine/internal/board"
	"github.com/hailam/haloengine/internal/storage"
)

// CachingProber layers a two-tier cache in front of another Prober: an
// in-process ristretto cache absorbs the repeated probes a single search
// makes of the same position, and a BadgerDB-backed store on disk makes
// those results survive across engine runs. Both tiers are keyed on the
// position's Zobrist key.
type CachingProber struct {
	inner Prober
	mem   *ristretto.Cache[uint64, ProbeResult]
	disk  *storage.Store
}

// NewCachingProber wraps inner with a ristretto+Badger cache. disk may be
// nil, in which case only the in-process tier is used.
func NewCachingProber(inner Prober, disk *storage.Store) (*CachingProber, error) {
	mem, err := ristretto.NewCache(&ristretto.Config[uint64, ProbeResult]{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &CachingProber{inner: inner, mem: mem, disk: disk}, nil
}

func probeCacheKey(key uint64) []byte {
	var b [9]byte
	b[0] = 'p'
	binary.BigEndian.PutUint64(b[1:], key)
	return b[:]
}

func encodeProbeResult(r ProbeResult) []byte {
	var b [9]byte
	if r.Found {
		b[0] = 1
	}
	b[1] = byte(int8(r.WDL))
	binary.BigEndian.PutUint32(b[2:6], uint32(r.DTZ))
	return b[:6]
}

func decodeProbeResult(b []byte) (ProbeResult, bool) {
	if len(b) < 6 {
		return ProbeResult{}, false
	}
	return ProbeResult{
		Found: b[0] == 1,
		WDL:   WDL(int8(b[1])),
		DTZ:   int(int32(binary.BigEndian.Uint32(b[2:6]))),
	}, true
}

func (cp *CachingProber) Probe(pos *board.BoardState) ProbeResult {
	if result, ok := cp.mem.Get(pos.Key); ok {
		return result
	}

	if cp.disk != nil {
		if raw, ok, err := cp.disk.Get(probeCacheKey(pos.Key)); err == nil && ok {
			if result, ok := decodeProbeResult(raw); ok {
				cp.mem.Set(pos.Key, result, 1)
				return result
			}
		}
	}

	result := cp.inner.Probe(pos)
	cp.mem.Set(pos.Key, result, 1)
	if cp.disk != nil && result.Found {
		_ = cp.disk.Set(probeCacheKey(pos.Key), encodeProbeResult(result))
	}
	return result
}

// ProbeRoot is not cached: it needs the full legal move list and is only
// ever called once per root position per search.
func (cp *CachingProber) ProbeRoot(pos *board.BoardState) RootResult {
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachingProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachingProber) Available() bool {
	return cp.inner.Available()
}

// Close releases the disk tier, if any.
func (cp *CachingProber) Close() error {
	cp.mem.Close()
	if cp.disk != nil {
		return cp.disk.Close()
	}
	return nil
}
