package board

import "testing"

func TestSeeGESimpleCapture(t *testing.T) {
	// White rook takes undefended black knight: should clear any reasonable threshold.
	b, err := ParseFEN("4k3/8/8/3n4/4R3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewCapture(E4, D5)
	if !SeeGE(b, m, 0) {
		t.Errorf("expected rook takes undefended knight to be SEE >= 0")
	}
	if !SeeGE(b, m, SeeValues[Knight]-1) {
		t.Errorf("expected rook takes undefended knight to clear threshold just below knight value")
	}
}

func TestSeeGELosingCapture(t *testing.T) {
	// White queen takes a pawn defended by a rook (d8): losing exchange.
	b, err := ParseFEN("3rk3/8/8/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewCapture(D1, D5)
	if SeeGE(b, m, 0) {
		t.Errorf("expected queen takes rook-defended pawn to be a losing exchange")
	}
}

func TestSeeMatchesGEBoundary(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := b.GenerateLoudMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		score := See(b, m)
		if !SeeGE(b, m, score) {
			t.Errorf("See(%v) = %d but SeeGE(%v, %d) is false", m, score, m, score)
		}
		if SeeGE(b, m, score+1) {
			t.Errorf("See(%v) = %d but SeeGE(%v, %d) is true", m, score, m, score+1)
		}
	}
}
