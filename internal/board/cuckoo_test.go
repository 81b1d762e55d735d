package board

import "testing"

// TestCuckooLookupMatchesBruteForce cross-checks CuckooLookup against an
// exhaustive scan: any reversible non-pawn quiet move must be found by the
// table, and its key difference must round-trip to the same from/to pair.
func TestCuckooLookupMatchesBruteForce(t *testing.T) {
	found := 0
	for c := White; c <= Black; c++ {
		for pt := Knight; pt <= King; pt++ {
			for sq1 := A1; sq1 <= H8; sq1++ {
				for sq2 := sq1 + 1; sq2 <= H8; sq2++ {
					if !isReversibleSlide(pt, sq1, sq2) {
						continue
					}
					diff := zobristPiece[c][pt][sq1] ^ zobristPiece[c][pt][sq2] ^ zobristSideToMove
					m, ok := CuckooLookup(diff)
					if !ok {
						t.Fatalf("no cuckoo entry for %v %v %v-%v", c, pt, sq1, sq2)
					}
					if (m.From() != sq1 || m.To() != sq2) && (m.From() != sq2 || m.To() != sq1) {
						t.Fatalf("cuckoo entry for %v-%v resolved to unrelated move %v", sq1, sq2, m)
					}
					found++
				}
			}
		}
	}
	if found == 0 {
		t.Fatal("expected at least one reversible move to be found")
	}
}

func TestCuckooLookupRejectsNoise(t *testing.T) {
	if _, ok := CuckooLookup(0xdeadbeefcafef00d); ok {
		t.Fatal("expected random key difference to not match any cuckoo entry")
	}
}
