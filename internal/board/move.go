package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: flag (see MoveFlag)
//
// Castling is encoded king-captures-own-rook: To() is the square of the
// castling rook, not the king's final square. This keeps the encoding
// Chess960-compatible without a separate representation.
type Move uint16

// MoveFlag distinguishes the kind of move a Move encodes.
type MoveFlag uint8

const (
	Quiet MoveFlag = iota
	PawnDoubleMove
	ASideCastle
	HSideCastle
	Capture
	EnPassant

	dontUse1
	dontUse2

	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

// Uninitialized is the zero-value move, matching a1a1 quiet.
const Uninitialized Move = 0

// NoMove is an alias for Uninitialized kept for readability at call sites
// that mean "no move available" rather than "the literal zero move".
const NoMove = Uninitialized

// NewMoveWithFlag builds a move from its three encoded fields.
func NewMoveWithFlag(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

// NewMove creates a plain quiet move (flag Quiet); use NewCapture for a
// plain capture.
func NewMove(from, to Square) Move {
	return NewMoveWithFlag(from, to, Quiet)
}

// NewCapture creates a plain capture move.
func NewCapture(from, to Square) Move {
	return NewMoveWithFlag(from, to, Capture)
}

// NewDoublePawnPush creates a pawn double-push move.
func NewDoublePawnPush(from, to Square) Move {
	return NewMoveWithFlag(from, to, PawnDoubleMove)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return NewMoveWithFlag(from, to, EnPassant)
}

// NewCastle creates a castling move. to is the castling rook's square
// (king-captures-own-rook encoding), and aSide distinguishes the a-file
// rook (queenside in standard chess) from the h-file rook (kingside).
func NewCastle(from, to Square, aSide bool) Move {
	if aSide {
		return NewMoveWithFlag(from, to, ASideCastle)
	}
	return NewMoveWithFlag(from, to, HSideCastle)
}

// promotionQuietFlag/promotionCaptureFlag map a promotion piece (Knight..Queen) to its quiet and
// capture promotion flags.
var promotionQuietFlag = [4]MoveFlag{KnightPromotion, BishopPromotion, RookPromotion, QueenPromotion}
var promotionCaptureFlag = [4]MoveFlag{KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture}

// NewPromotion creates a promotion move (quiet or capture depending on isCapture).
func NewPromotion(from, to Square, promo PieceType, isCapture bool) Move {
	idx := promo - Knight
	if isCapture {
		return NewMoveWithFlag(from, to, promotionCaptureFlag[idx])
	}
	return NewMoveWithFlag(from, to, promotionQuietFlag[idx])
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square. For castling moves this is the
// castling rook's square, not the king's landing square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 12) & 0xF)
}

// IsPromotion returns true if this is a promotion move (quiet or capture).
func (m Move) IsPromotion() bool {
	return m.Flag() >= KnightPromotion
}

// Promotion returns the promotion piece type. Only valid if IsPromotion().
func (m Move) Promotion() PieceType {
	f := m.Flag()
	if f >= KnightPromotionCapture {
		return PieceType(f-KnightPromotionCapture) + Knight
	}
	return PieceType(f-KnightPromotion) + Knight
}

// IsCastle returns true if this is a castling move (either side).
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == ASideCastle || f == HSideCastle
}

// IsASideCastle returns true for an a-side (queenside, standard chess) castle.
func (m Move) IsASideCastle() bool {
	return m.Flag() == ASideCastle
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == EnPassant
}

// IsCapture returns true if the flag itself encodes a capture (en passant,
// plain capture, or capture-promotion). This does not require board state.
func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == Capture || f == EnPassant || f >= KnightPromotionCapture
}

// IsQuiet returns true if this move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// IsLoud returns true for captures and promotions, the staged generator's
// "loud" category.
func (m Move) IsLoud() bool {
	return m.IsCapture() || m.IsPromotion()
}

var promotionChars = [4]byte{'n', 'b', 'r', 'q'}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
// Castling is rendered in standard king-to-g/c form; callers that need the
// Chess960 king-captures-own-rook wire form should format it separately
// (see internal/uci for the UCI_Chess960-aware formatter).
func (m Move) String() string {
	if m == Uninitialized {
		return "0000"
	}

	from, to := m.From(), m.To()
	if m.IsCastle() {
		rank := from.Rank()
		if m.Flag() == ASideCastle {
			to = NewSquare(2, rank)
		} else {
			to = NewSquare(6, rank)
		}
	}

	s := from.String() + to.String()
	if m.IsPromotion() {
		s += string(promotionChars[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses a UCI format move string against a board state, inferring
// the correct flag (capture, en passant, castle, promotion) from context.
func ParseMove(s string, b *BoardState) (Move, error) {
	if len(s) < 4 {
		return Uninitialized, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Uninitialized, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Uninitialized, err
	}

	piece := b.PieceAt(from)
	if piece == NoPiece {
		return Uninitialized, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()
	isCapture := !b.IsEmpty(to) && to != from

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return Uninitialized, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo, isCapture), nil
	}

	if pt == King {
		delta := int(to) - int(from)
		if delta == 2 {
			return NewCastle(from, NewSquare(7, from.Rank()), false), nil
		}
		if delta == -2 {
			return NewCastle(from, NewSquare(0, from.Rank()), true), nil
		}
		// Chess960 king-captures-own-rook form, submitted directly on the wire.
		if b.PieceAt(to) == NewPiece(Rook, piece.Color()) {
			if to > from {
				return NewCastle(from, to, false), nil
			}
			return NewCastle(from, to, true), nil
		}
	}

	if pt == Pawn {
		if to == b.EnPassant {
			return NewEnPassant(from, to), nil
		}
		if abs(int(to)-int(from)) == 16 {
			return NewDoublePawnPush(from, to), nil
		}
	}

	if isCapture {
		return NewCapture(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	CapturedPiece Piece
	CastleSquares Bitboard
	EnPassant     Square
	FiftyMoveCount int16
	Key           uint64
	PawnKey       uint64
	NonPawnKey    [2]uint64
	Checkers      Bitboard
	ThreatBB      [6]Bitboard
	RepetitionPly  int16
	HasRepetition  bool
	ThreeFoldRep   bool
	Valid         bool
}
