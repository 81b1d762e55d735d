package board

// GenerateLegalMoves generates all legal moves for the position.
func (b *BoardState) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	b.generateAllMoves(ml)
	return b.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (b *BoardState) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	b.generateAllMoves(ml)
	return ml
}

// GenerateLoudMoves generates captures and promotions only.
func (b *BoardState) GenerateLoudMoves() *MoveList {
	ml := NewMoveList()
	b.generateLoudMoves(ml)
	return b.filterLegalMoves(ml)
}

// GenerateQuietMoves generates quiet (non-capture, non-promotion) moves only.
func (b *BoardState) GenerateQuietMoves() *MoveList {
	ml := NewMoveList()
	b.generateAllMoves(ml)
	quiet := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.IsQuiet() {
			quiet.Add(m)
		}
	}
	return b.filterLegalMoves(quiet)
}

// generateAllMoves generates all pseudo-legal moves.
func (b *BoardState) generateAllMoves(ml *MoveList) {
	us := b.SideToMove
	occupied := b.AllOccupied

	b.generatePawnMoves(ml, us, b.Occupied[us.Other()], occupied)

	knights := b.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		addPieceMoves(ml, b, from, KnightAttacks(from)&^b.Occupied[us])
	}

	bishops := b.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		addPieceMoves(ml, b, from, BishopAttacks(from, occupied)&^b.Occupied[us])
	}

	rooks := b.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		addPieceMoves(ml, b, from, RookAttacks(from, occupied)&^b.Occupied[us])
	}

	queens := b.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		addPieceMoves(ml, b, from, QueenAttacks(from, occupied)&^b.Occupied[us])
	}

	b.generateKingMoves(ml, us)
	b.generateCastlingMoves(ml, us)
}

// addPieceMoves emits a quiet or capture move per target square, consulting
// the mailbox directly rather than requiring the caller to split the target
// bitboard against enemy occupancy.
func addPieceMoves(ml *MoveList, b *BoardState, from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		if b.mailbox[to] != NoPiece {
			ml.Add(NewCapture(from, to))
		} else {
			ml.Add(NewMove(from, to))
		}
	}
}

// generatePawnMoves generates all pawn moves, including double pushes,
// promotions, and en passant.
func (b *BoardState) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := b.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}

	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewDoublePawnPush(Square(int(to)-2*pushDir), to))
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir-1), to))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to, false)
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to, true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to, true)
	}

	if b.EnPassant != NoSquare {
		epBB := SquareBB(b.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			ml.Add(NewEnPassant(epAttackers.PopLSB(), b.EnPassant))
		}
	}
}

// addPromotions adds all four promotion moves, quiet or capture.
func addPromotions(ml *MoveList, from, to Square, isCapture bool) {
	ml.Add(NewPromotion(from, to, Queen, isCapture))
	ml.Add(NewPromotion(from, to, Rook, isCapture))
	ml.Add(NewPromotion(from, to, Bishop, isCapture))
	ml.Add(NewPromotion(from, to, Knight, isCapture))
}

// generateKingMoves generates king moves (non-castling).
func (b *BoardState) generateKingMoves(ml *MoveList, us Color) {
	from := b.KingSquare[us]
	addPieceMoves(ml, b, from, KingAttacks(from)&^b.Occupied[us])
}

// generateCastlingMoves emits castle moves encoded king-captures-own-rook:
// To() is the square of the castling rook, not the king's final square.
func (b *BoardState) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	kingFrom := b.KingSquare[us]
	rank := kingFrom.Rank()
	homeRank := Rank1
	if us == Black {
		homeRank = Rank8
	}
	rights := b.CastleSquares & homeRank

	hSideRook := NewSquare(7, rank)
	aSideRook := NewSquare(0, rank)

	if rights.IsSet(hSideRook) {
		path := SquareBB(NewSquare(5, rank)) | SquareBB(NewSquare(6, rank))
		if b.AllOccupied&path&^SquareBB(kingFrom) == 0 {
			if !b.IsSquareAttacked(kingFrom, them) &&
				!b.IsSquareAttacked(NewSquare(5, rank), them) &&
				!b.IsSquareAttacked(NewSquare(6, rank), them) {
				ml.Add(NewCastle(kingFrom, hSideRook, false))
			}
		}
	}

	if rights.IsSet(aSideRook) {
		path := SquareBB(NewSquare(1, rank)) | SquareBB(NewSquare(2, rank)) | SquareBB(NewSquare(3, rank))
		if b.AllOccupied&path&^SquareBB(kingFrom) == 0 {
			if !b.IsSquareAttacked(kingFrom, them) &&
				!b.IsSquareAttacked(NewSquare(3, rank), them) &&
				!b.IsSquareAttacked(NewSquare(2, rank), them) {
				ml.Add(NewCastle(kingFrom, aSideRook, true))
			}
		}
	}
}

// generateLoudMoves generates capture and promotion moves, the staged move
// generator's first non-TT phase (spec §4.F).
func (b *BoardState) generateLoudMoves(ml *MoveList) {
	us := b.SideToMove
	them := us.Other()
	enemies := b.Occupied[them]
	occupied := b.AllOccupied

	pawns := b.Pieces[us][Pawn]
	var attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir+1), to))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewCapture(Square(int(to)-pushDir-1), to))
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to, true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to, true)
	}

	empty := ^occupied
	var push1 Bitboard
	if us == White {
		push1 = pawns.North() & empty & Rank8
	} else {
		push1 = pawns.South() & empty & Rank1
	}
	for push1 != 0 {
		to := push1.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to, false)
	}

	if b.EnPassant != NoSquare {
		epBB := SquareBB(b.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			ml.Add(NewEnPassant(epAttackers.PopLSB(), b.EnPassant))
		}
	}

	for pt := Knight; pt <= King; pt++ {
		pieces := b.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks Bitboard
			switch pt {
			case Knight:
				attacks = KnightAttacks(from)
			case Bishop:
				attacks = BishopAttacks(from, occupied)
			case Rook:
				attacks = RookAttacks(from, occupied)
			case Queen:
				attacks = QueenAttacks(from, occupied)
			case King:
				attacks = KingAttacks(from)
			}
			attacks &= enemies
			for attacks != 0 {
				ml.Add(NewCapture(from, attacks.PopLSB()))
			}
		}
	}
}

// filterLegalMoves filters out illegal moves (those that leave the king in check).
func (b *BoardState) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if b.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether m, assumed pseudo-legal (or merely "plausible" —
// e.g. a move recalled from the transposition table), is safe to apply: it
// must move an existing piece of the side to move and must not leave that
// side's king in check.
func (b *BoardState) IsLegal(m Move) bool {
	us := b.SideToMove
	them := us.Other()
	from := m.From()

	piece := b.mailbox[from]
	if piece == NoPiece || piece.Color() != us {
		return false
	}

	ksq := b.KingSquare[us]
	if from == ksq && !m.IsCastle() {
		occ := b.AllOccupied &^ SquareBB(from)
		return b.AttackersByColor(m.To(), them, occ) == 0
	}

	undo := b.ApplyMove(m)
	if !undo.Valid {
		return false
	}
	attacked := b.IsSquareAttacked(ksq, them)
	b.UnmakeMove(m, undo)
	return !attacked
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (b *BoardState) HasLegalMoves() bool {
	ml := b.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if b.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (b *BoardState) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (b *BoardState) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}

// IsDrawByRule reports fifty-move and insufficient-material draws. It does
// not consider repetition or stalemate: GameState owns repetition (it needs
// move history) and stalemate requires legal-move generation the search
// already performs at the node, so callers combine these independently.
func (b *BoardState) IsDrawByRule() bool {
	if b.FiftyMoveCount >= 100 {
		return true
	}
	return b.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side has enough material to checkmate.
func (b *BoardState) IsInsufficientMaterial() bool {
	if b.Pieces[White][Pawn]|b.Pieces[Black][Pawn] != 0 ||
		b.Pieces[White][Rook]|b.Pieces[Black][Rook] != 0 ||
		b.Pieces[White][Queen]|b.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := b.Pieces[White][Knight].PopCount() + b.Pieces[White][Bishop].PopCount()
	bMinors := b.Pieces[Black][Knight].PopCount() + b.Pieces[Black][Bishop].PopCount()

	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}
