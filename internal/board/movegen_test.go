package board

import "testing"

// every move GenerateLegalMoves produces must round-trip cleanly through
// ApplyMove/UnmakeMove and must not leave the moving side's own king in
// check, matching IsLegal's contract.
func TestGenerateLegalMovesAreActuallyLegal(t *testing.T) {
	positions := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}

	for _, fen := range positions {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		us := b.SideToMove
		them := us.Other()

		moves := b.GenerateLegalMoves()
		if moves.Len() == 0 {
			t.Fatalf("%q: expected at least one legal move", fen)
		}

		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)

			piece := b.mailbox[m.From()]
			if piece == NoPiece || piece.Color() != us {
				t.Fatalf("%q: move %v does not move a %v piece", fen, m, us)
			}

			before := *b
			undo := b.ApplyMove(m)
			if !undo.Valid {
				t.Fatalf("%q: legal move %v rejected by ApplyMove", fen, m)
			}
			if b.IsSquareAttacked(b.KingSquare[us], them) {
				t.Errorf("%q: move %v leaves %v king in check", fen, m, us)
			}
			b.UnmakeMove(m, undo)
			if *b != before {
				t.Fatalf("%q: UnmakeMove(%v) did not restore the position", fen, m)
			}
		}
	}
}

// a set of pseudo-legal-only moves (those that leave the king exposed) must
// be rejected by IsLegal even though GeneratePseudoLegalMoves includes them.
func TestPseudoLegalIncludesIllegalPins(t *testing.T) {
	// Black rook on d8 pins the white knight on d5 against the white king on
	// d1; moving the knight off the d-file is pseudo-legal but not legal.
	b, err := ParseFEN("3r3k/8/8/3N4/8/8/8/3K4 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	pseudo := b.GeneratePseudoLegalMoves()
	legal := b.GenerateLegalMoves()

	off := NewMove(D5, C3)
	foundPseudo := false
	for i := 0; i < pseudo.Len(); i++ {
		if pseudo.Get(i) == off {
			foundPseudo = true
		}
	}
	if !foundPseudo {
		t.Fatal("expected knight-off-the-pin to appear in pseudo-legal moves")
	}
	if b.IsLegal(off) {
		t.Fatal("expected knight-off-the-pin to be illegal")
	}
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i) == off {
			t.Fatal("expected knight-off-the-pin to be excluded from legal moves")
		}
	}
}

func TestCheckmateAndStalemateDetection(t *testing.T) {
	// Fool's mate position: white to move is checkmated.
	mate, err := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !mate.IsCheckmate() {
		t.Error("expected fool's mate position to be checkmate")
	}
	if mate.IsStalemate() {
		t.Error("checkmate should not also report as stalemate")
	}

	stale, err := ParseFEN("k7/8/1Q6/8/8/8/8/1K6 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !stale.IsStalemate() {
		t.Error("expected position to be stalemate")
	}
	if stale.IsCheckmate() {
		t.Error("stalemate should not also report as checkmate")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	kk, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !kk.IsInsufficientMaterial() {
		t.Error("bare kings should be insufficient material")
	}

	kkn, err := ParseFEN("4k3/8/8/8/8/8/8/3NK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !kkn.IsInsufficientMaterial() {
		t.Error("king and knight vs king should be insufficient material")
	}

	kqk, err := ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if kqk.IsInsufficientMaterial() {
		t.Error("king and queen vs king should be sufficient material")
	}
}
