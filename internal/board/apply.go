package board

// ApplyMove applies a move to the board state and returns the information
// needed to undo it. Updates bitboards, mailbox, castling rights, the
// fifty-move counter, and all three Zobrist keys incrementally (spec §4.A).
func (b *BoardState) ApplyMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece: NoPiece,
		CastleSquares: b.CastleSquares,
		EnPassant:     b.EnPassant,
		FiftyMoveCount: b.FiftyMoveCount,
		Key:           b.Key,
		PawnKey:       b.PawnKey,
		NonPawnKey:    b.NonPawnKey,
		Checkers:      b.Checkers,
		ThreatBB:      b.ThreatBB,
		RepetitionPly: b.RepetitionPly,
		HasRepetition: b.HasRepetition,
		ThreeFoldRep:  b.ThreeFoldRep,
	}

	us := b.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	piece := b.mailbox[from]
	if piece == NoPiece {
		return undo
	}
	undo.Valid = true
	pt := piece.Type()

	b.Key ^= zobristSideToMove
	b.Key ^= ZobristCastleSquares(b.CastleSquares)
	if b.EnPassant != NoSquare {
		b.Key ^= zobristEnPassant[b.EnPassant.File()]
	}
	b.EnPassant = NoSquare

	switch {
	case m.IsCastle():
		b.applyCastle(us, from, to, m.Flag() == ASideCastle)
	case m.IsEnPassant():
		var capSq Square
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		captured := b.mailbox[capSq]
		undo.CapturedPiece = captured
		b.removePieceSq(capSq, captured)
		b.movePieceSq(from, to)
	default:
		if captured := b.mailbox[to]; captured != NoPiece {
			undo.CapturedPiece = captured
			b.removePieceSq(to, captured)
		}
		b.movePieceSq(from, to)
		if m.IsPromotion() {
			promo := m.Promotion()
			b.removePieceSq(to, NewPiece(Pawn, us))
			b.addPieceSq(to, NewPiece(promo, us))
		}
	}

	if pt == King {
		homeRank := Bitboard(0)
		if us == White {
			homeRank = Rank1
		} else {
			homeRank = Rank8
		}
		b.CastleSquares &^= homeRank
	}
	b.CastleSquares &^= SquareBB(from) | SquareBB(to)

	b.Key ^= ZobristCastleSquares(b.CastleSquares)

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSq := Square((int(from) + int(to)) / 2)
		if b.hasLegalEPCapture(epSq, them) {
			b.EnPassant = epSq
			b.Key ^= zobristEnPassant[epSq.File()]
		}
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		b.FiftyMoveCount = 0
	} else {
		b.FiftyMoveCount++
	}
	b.HalfTurnCount++

	b.SideToMove = them
	b.UpdateCheckers()
	b.UpdateThreats()
	b.RepetitionPly = 0
	b.HasRepetition = false
	b.ThreeFoldRep = false

	return undo
}

// applyCastle moves the king and its own rook. to is the rook's square
// (king-captures-own-rook encoding).
func (b *BoardState) applyCastle(us Color, kingFrom, rookFrom Square, aSide bool) {
	rank := kingFrom.Rank()
	var kingTo, rookTo Square
	if aSide {
		kingTo = NewSquare(2, rank)
		rookTo = NewSquare(3, rank)
	} else {
		kingTo = NewSquare(6, rank)
		rookTo = NewSquare(5, rank)
	}

	king := b.mailbox[kingFrom]
	rook := b.mailbox[rookFrom]

	b.removePieceSq(kingFrom, king)
	b.removePieceSq(rookFrom, rook)
	b.addPieceSq(kingTo, king)
	b.addPieceSq(rookTo, rook)
}

// hasLegalEPCapture reports whether an enemy pawn could legally capture en
// passant on epSq right now (spec §4.A: EP square is only set when this
// holds).
func (b *BoardState) hasLegalEPCapture(epSq Square, enemySide Color) bool {
	attackers := PawnAttacks(epSq, enemySide.Other()) & b.Pieces[enemySide][Pawn]
	for attackers != 0 {
		from := attackers.PopLSB()
		// Simulate the capture on a scratch copy to confirm it doesn't
		// leave the enemy king in check (a pinned pawn cannot take EP).
		scratch := *b
		capturedSq := epSq
		if enemySide == White {
			capturedSq = epSq - 8
		} else {
			capturedSq = epSq + 8
		}
		scratch.removePieceSq(capturedSq, scratch.mailbox[capturedSq])
		pawn := scratch.mailbox[from]
		scratch.removePieceSq(from, pawn)
		scratch.addPieceSq(epSq, pawn)
		ksq := scratch.KingSquare[enemySide]
		if scratch.AttackersByColorRaw(ksq, enemySide.Other()) == 0 {
			return true
		}
	}
	return false
}

// AttackersByColorRaw is a small helper so hasLegalEPCapture does not need
// attacks.go's Position-shaped helpers (BoardState already exposes
// AttackersByColor with full occupancy semantics; this forwards to it).
func (b *BoardState) AttackersByColorRaw(sq Square, c Color) Bitboard {
	return b.AttackersByColor(sq, c, b.AllOccupied)
}

// UnmakeMove reverses ApplyMove using the saved UndoInfo.
func (b *BoardState) UnmakeMove(m Move, undo UndoInfo) {
	them := b.SideToMove
	us := them.Other()
	from, to := m.From(), m.To()

	b.CastleSquares = undo.CastleSquares
	b.EnPassant = undo.EnPassant
	b.FiftyMoveCount = undo.FiftyMoveCount
	b.Key = undo.Key
	b.PawnKey = undo.PawnKey
	b.NonPawnKey = undo.NonPawnKey
	b.Checkers = undo.Checkers
	b.ThreatBB = undo.ThreatBB
	b.RepetitionPly = undo.RepetitionPly
	b.HasRepetition = undo.HasRepetition
	b.ThreeFoldRep = undo.ThreeFoldRep
	b.SideToMove = us
	b.HalfTurnCount--

	switch {
	case m.IsCastle():
		b.unapplyCastle(us, from, to, m.Flag() == ASideCastle)
	case m.IsEnPassant():
		piece := NewPiece(Pawn, us)
		b.removePieceSqRaw(to, piece)
		b.addPieceSqRaw(from, piece)
		var capSq Square
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		b.addPieceSqRaw(capSq, undo.CapturedPiece)
	default:
		if m.IsPromotion() {
			promo := m.Promotion()
			b.removePieceSqRaw(to, NewPiece(promo, us))
			b.addPieceSqRaw(from, NewPiece(Pawn, us))
		} else {
			piece := b.mailbox[to]
			b.removePieceSqRaw(to, piece)
			b.addPieceSqRaw(from, piece)
		}
		if undo.CapturedPiece != NoPiece {
			b.addPieceSqRaw(to, undo.CapturedPiece)
		}
	}
}

func (b *BoardState) unapplyCastle(us Color, kingFrom, rookFrom Square, aSide bool) {
	rank := kingFrom.Rank()
	var kingTo, rookTo Square
	if aSide {
		kingTo = NewSquare(2, rank)
		rookTo = NewSquare(3, rank)
	} else {
		kingTo = NewSquare(6, rank)
		rookTo = NewSquare(5, rank)
	}

	king := b.mailbox[kingTo]
	rook := b.mailbox[rookTo]
	b.removePieceSqRaw(kingTo, king)
	b.removePieceSqRaw(rookTo, rook)
	b.addPieceSqRaw(rookFrom, rook)
	b.addPieceSqRaw(kingFrom, king)
}

// addPieceSqRaw/removePieceSqRaw mutate bitboards/mailbox without touching
// Zobrist keys, used while unwinding a move (the keys are restored wholesale
// from UndoInfo instead).
func (b *BoardState) addPieceSqRaw(sq Square, piece Piece) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)
	b.Pieces[c][pt] |= bb
	b.Occupied[c] |= bb
	b.AllOccupied |= bb
	b.mailbox[sq] = piece
	if pt == King {
		b.KingSquare[c] = sq
	}
}

func (b *BoardState) removePieceSqRaw(sq Square, piece Piece) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)
	b.Pieces[c][pt] &^= bb
	b.Occupied[c] &^= bb
	b.AllOccupied &^= bb
	b.mailbox[sq] = NoPiece
}
