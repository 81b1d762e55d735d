package board

import "fmt"

// DebugMoveValidation enables extra consistency checks (king-square sanity,
// hash-restoration checks) around move application. Off by default; toggled
// by the UCI "debug" option.
var DebugMoveValidation = false

// BoardState is a complete, trivially-copyable snapshot of a chess position.
// It carries no history — GameState owns the stack of BoardState values that
// makes repetition detection possible.
type BoardState struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards (cached for efficiency)
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	mailbox [64]Piece

	SideToMove    Color
	EnPassant     Square
	FiftyMoveCount int16
	HalfTurnCount  int16

	// CastleSquares is a bitboard of rook home squares that still carry
	// castling rights, replacing a side-flag bitmask so that Chess960 rook
	// starting files are representable.
	CastleSquares Bitboard

	// RepetitionPly/HasRepetition together represent an optional distance
	// (in plies) to the nearest earlier occurrence of this key.
	RepetitionPly int16
	HasRepetition bool
	ThreeFoldRep  bool

	Key        uint64
	PawnKey    uint64
	NonPawnKey [2]uint64

	PinnedPieces [2]Bitboard

	KingSquare [2]Square
	Checkers   Bitboard

	// ThreatBB[pt] is the set of squares where a piece of type pt belonging
	// to the side to move is attacked by a strictly lesser-valued attacker.
	// Recomputed on every make/unmake; feeds threat-aware history/pruning.
	ThreatBB [6]Bitboard
}

// NewBoardState creates the starting position.
func NewBoardState() *BoardState {
	b, _ := ParseFEN(StartFEN)
	return b
}

// Copy creates a value copy of the board state. BoardState has no pointers
// or slices, so this is a plain struct copy.
func (b *BoardState) Copy() *BoardState {
	nb := *b
	return &nb
}

// GetSquarePiece returns the piece at the given square, or NoPiece if empty.
func (b *BoardState) GetSquarePiece(sq Square) Piece {
	return b.mailbox[sq]
}

// PieceAt is an alias of GetSquarePiece kept for readability at call sites
// migrated from the mailbox-free representation.
func (b *BoardState) PieceAt(sq Square) Piece {
	return b.mailbox[sq]
}

// IsEmpty returns true if the square is empty.
func (b *BoardState) IsEmpty(sq Square) bool {
	return b.mailbox[sq] == NoPiece
}

// IsOccupied returns true if the square holds a piece.
func (b *BoardState) IsOccupied(sq Square) bool {
	return b.mailbox[sq] != NoPiece
}

// GetPiecesBB returns the combined occupancy of both sides.
func (b *BoardState) GetPiecesBB() Bitboard {
	return b.AllOccupied
}

// GetEmptyBB returns the complement of GetPiecesBB.
func (b *BoardState) GetEmptyBB() Bitboard {
	return ^b.AllOccupied
}

// GetPiecesBBSide returns all pieces belonging to colour.
func (b *BoardState) GetPiecesBBSide(colour Color) Bitboard {
	return b.Occupied[colour]
}

// GetPiecesBBOf returns the bitboard for a specific (type, colour) pair.
func (b *BoardState) GetPiecesBBOf(pt PieceType, colour Color) Bitboard {
	return b.Pieces[colour][pt]
}

// GetPiecesBBType returns the combined bitboard of a piece type for both sides.
func (b *BoardState) GetPiecesBBType(pt PieceType) Bitboard {
	return b.Pieces[White][pt] | b.Pieces[Black][pt]
}

// GetKingSq returns the king square for colour.
func (b *BoardState) GetKingSq(colour Color) Square {
	return b.KingSquare[colour]
}

// addPieceSq places a piece on an empty square, updating bitboards, mailbox,
// and the three Zobrist keys. Castling/en-passant/side-to-move keys are not
// touched here — callers fold those in separately.
func (b *BoardState) addPieceSq(sq Square, piece Piece) {
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

	key := zobristPiece[c][pt][sq]
	b.Key ^= key
	if pt == Pawn {
		b.PawnKey ^= key
	} else {
		b.NonPawnKey[c] ^= key
	}
}

// removePieceSq clears a square known to hold piece, updating bitboards,
// mailbox, and Zobrist keys symmetrically with addPieceSq.
func (b *BoardState) removePieceSq(sq Square, piece Piece) {
	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)

	b.Pieces[c][pt] &^= bb
	b.Occupied[c] &^= bb
	b.AllOccupied &^= bb
	b.mailbox[sq] = NoPiece

	key := zobristPiece[c][pt][sq]
	b.Key ^= key
	if pt == Pawn {
		b.PawnKey ^= key
	} else {
		b.NonPawnKey[c] ^= key
	}
}

// clearSq removes whatever occupies sq, if anything.
func (b *BoardState) clearSq(sq Square) {
	if p := b.mailbox[sq]; p != NoPiece {
		b.removePieceSq(sq, p)
	}
}

// movePieceSq relocates a piece from one empty-destination square to
// another, without touching captures; callers must clearSq(to) first for
// captures.
func (b *BoardState) movePieceSq(from, to Square) Piece {
	piece := b.mailbox[from]
	if piece == NoPiece {
		return NoPiece
	}
	b.removePieceSq(from, piece)
	b.addPieceSq(to, piece)
	return piece
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (b *BoardState) updateOccupied() {
	b.Occupied[White] = Empty
	b.Occupied[Black] = Empty
	for pt := Pawn; pt <= King; pt++ {
		b.Occupied[White] |= b.Pieces[White][pt]
		b.Occupied[Black] |= b.Pieces[Black][pt]
	}
	b.AllOccupied = b.Occupied[White] | b.Occupied[Black]
}

// rebuildMailbox recomputes mailbox from the piece bitboards. Used after
// bulk bitboard manipulation (FEN loading) rather than after individual
// make/unmake moves, which keep the mailbox incrementally consistent.
func (b *BoardState) rebuildMailbox() {
	for sq := A1; sq <= H8; sq++ {
		b.mailbox[sq] = NoPiece
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				b.mailbox[sq] = NewPiece(pt, c)
			}
		}
	}
}

func (b *BoardState) findKings() {
	b.KingSquare[White] = b.Pieces[White][King].LSB()
	b.KingSquare[Black] = b.Pieces[Black][King].LSB()
}

// String returns a visual representation of the board state.
func (b *BoardState) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := b.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", b.SideToMove)
	s += fmt.Sprintf("Castle squares: %s\n", b.CastleSquares.String())
	s += fmt.Sprintf("En passant: %s\n", b.EnPassant)
	s += fmt.Sprintf("Fifty-move count: %d\n", b.FiftyMoveCount)
	s += fmt.Sprintf("Half turn: %d\n", b.HalfTurnCount)
	s += fmt.Sprintf("Key: %016x\n", b.Key)
	return s
}

// Clear resets the board state to empty.
func (b *BoardState) Clear() {
	*b = BoardState{
		EnPassant:     NoSquare,
		HalfTurnCount: 1,
	}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		b.mailbox[sq] = NoPiece
	}
}

// Validate checks basic structural invariants (spec §3).
func (b *BoardState) Validate() error {
	if b.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if b.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (b.Pieces[White][Pawn]|b.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// InCheck returns true if the side to move is in check.
func (b *BoardState) InCheck() bool {
	return b.Checkers != 0
}

// Material returns the material balance (positive favors white).
func (b *BoardState) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += b.Pieces[White][pt].PopCount() * PieceValue[pt]
		score -= b.Pieces[Black][pt].PopCount() * PieceValue[pt]
	}
	return score
}

// ComputePinned computes pieces pinned to the king for the side to move.
func (b *BoardState) ComputePinned() Bitboard {
	us := b.SideToMove
	them := us.Other()
	ksq := b.KingSquare[us]
	pinned := Bitboard(0)

	snipers := RookAttacks(ksq, 0) & (b.Pieces[them][Rook] | b.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & b.AllOccupied
		if blockers.PopCount() == 1 && blockers&b.Occupied[us] != 0 {
			pinned |= blockers
		}
	}

	snipers = BishopAttacks(ksq, 0) & (b.Pieces[them][Bishop] | b.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & b.AllOccupied
		if blockers.PopCount() == 1 && blockers&b.Occupied[us] != 0 {
			pinned |= blockers
		}
	}

	return pinned
}

// UpdateThreats recomputes ThreatBB: for each victim piece type, the
// squares occupied by the side to move's pieces of that type which are
// attacked by a strictly lesser-valued enemy attacker. Drives threat-aware
// history and pruning (spec §3, §4.H static-eval threat term).
func (b *BoardState) UpdateThreats() {
	us := b.SideToMove
	them := us.Other()
	occ := b.AllOccupied

	pawnAtk := Bitboard(0)
	p := b.Pieces[them][Pawn]
	for p != 0 {
		sq := p.PopLSB()
		pawnAtk |= PawnAttacks(sq, them)
	}
	knightAtk := Bitboard(0)
	n := b.Pieces[them][Knight]
	for n != 0 {
		knightAtk |= KnightAttacks(n.PopLSB())
	}
	bishopAtk := Bitboard(0)
	bi := b.Pieces[them][Bishop]
	for bi != 0 {
		bishopAtk |= BishopAttacks(bi.PopLSB(), occ)
	}
	rookAtk := Bitboard(0)
	r := b.Pieces[them][Rook]
	for r != 0 {
		rookAtk |= RookAttacks(r.PopLSB(), occ)
	}
	minorAtk := knightAtk | bishopAtk

	for pt := Pawn; pt <= King; pt++ {
		b.ThreatBB[pt] = 0
	}
	b.ThreatBB[Knight] = b.Pieces[us][Knight] & pawnAtk
	b.ThreatBB[Bishop] = b.Pieces[us][Bishop] & pawnAtk
	b.ThreatBB[Rook] = b.Pieces[us][Rook] & (pawnAtk | minorAtk)
	b.ThreatBB[Queen] = b.Pieces[us][Queen] & (pawnAtk | minorAtk | rookAtk)
}

// NullMoveUndo stores state for unmake of a null move.
type NullMoveUndo struct {
	EnPassant Square
	Key       uint64
}

// ApplyNullMove flips the side to move, clears en passant, and bumps the
// fifty-move counter (spec §4.A).
func (b *BoardState) ApplyNullMove() NullMoveUndo {
	undo := NullMoveUndo{EnPassant: b.EnPassant, Key: b.Key}

	if b.EnPassant != NoSquare {
		b.Key ^= zobristEnPassant[b.EnPassant.File()]
	}
	b.EnPassant = NoSquare
	b.FiftyMoveCount++
	b.SideToMove = b.SideToMove.Other()
	b.Key ^= zobristSideToMove
	b.UpdateCheckers()
	return undo
}

// UnmakeNullMove reverses ApplyNullMove.
func (b *BoardState) UnmakeNullMove(undo NullMoveUndo) {
	b.EnPassant = undo.EnPassant
	b.Key = undo.Key
	b.FiftyMoveCount--
	b.SideToMove = b.SideToMove.Other()
	b.UpdateCheckers()
}

// HasNonPawnMaterial returns true if the side to move has non-pawn, non-king
// material (used to avoid null move pruning / zugzwang-prone endgames).
func (b *BoardState) HasNonPawnMaterial() bool {
	us := b.SideToMove
	return b.Pieces[us][Knight]|b.Pieces[us][Bishop]|b.Pieces[us][Rook]|b.Pieces[us][Queen] != 0
}

// InferMoveFlag infers which MoveFlag matches a bare from/to pair in the
// current position, ignoring promotions (the caller supplies those
// separately, e.g. from a UCI move suffix). Grounded on
// BoardState::infer_move_flag in the original engine.
func (b *BoardState) InferMoveFlag(from, to Square) MoveFlag {
	piece := b.mailbox[from]
	if piece == NoPiece {
		return Quiet
	}
	if piece.Type() == King {
		delta := int(to) - int(from)
		if delta == 2 {
			return HSideCastle
		}
		if delta == -2 {
			return ASideCastle
		}
	}
	if piece.Type() == Pawn {
		if to == b.EnPassant {
			return EnPassant
		}
		if abs(int(to)-int(from)) == 16 {
			return PawnDoubleMove
		}
	}
	if b.mailbox[to] != NoPiece {
		return Capture
	}
	return Quiet
}
