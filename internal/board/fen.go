package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a BoardState.
func ParseFEN(fen string) (*BoardState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := &BoardState{
		EnPassant:     NoSquare,
		HalfTurnCount: 1,
	}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		b.mailbox[sq] = NoPiece
	}

	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastleSquares(b, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		b.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		b.FiftyMoveCount = int16(hmc)
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		b.HalfTurnCount = int16(fmn)*2 - int16(b.SideToMove)
	}

	b.updateOccupied()
	b.findKings()
	b.Key = b.ComputeKey()
	b.PawnKey = b.ComputePawnKey()
	b.NonPawnKey[White] = b.ComputeNonPawnKey(White)
	b.NonPawnKey[Black] = b.ComputeNonPawnKey(Black)
	b.UpdateCheckers()
	b.UpdateThreats()

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}

	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *BoardState, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				sq := NewSquare(file, rank)
				bb := SquareBB(sq)
				co := piece.Color()
				pt := piece.Type()
				b.Pieces[co][pt] |= bb
				b.mailbox[sq] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastleSquares parses the castling rights field into CastleSquares,
// a bitboard of rook home squares. Standard KQkq notation maps to the
// corner squares; Chess960 "KQkq meaning the outermost rook on each side"
// is approximated the same way since this module does not decode Shredder-
// FEN rook-file letters (outside spec scope).
func parseCastleSquares(b *BoardState, castling string) error {
	if castling == "-" {
		b.CastleSquares = Empty
		return nil
	}
	for _, c := range castling {
		switch c {
		case 'K':
			b.CastleSquares |= SquareBB(H1)
		case 'Q':
			b.CastleSquares |= SquareBB(A1)
		case 'k':
			b.CastleSquares |= SquareBB(H8)
		case 'q':
			b.CastleSquares |= SquareBB(A8)
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return nil
}

// castleSquaresString renders CastleSquares back to KQkq notation.
func (b *BoardState) castleSquaresString() string {
	if b.CastleSquares == Empty {
		return "-"
	}
	s := ""
	if b.CastleSquares.IsSet(H1) {
		s += "K"
	}
	if b.CastleSquares.IsSet(A1) {
		s += "Q"
	}
	if b.CastleSquares.IsSet(H8) {
		s += "k"
	}
	if b.CastleSquares.IsSet(A8) {
		s += "q"
	}
	return s
}

// ToFEN returns the FEN representation of the board state.
func (b *BoardState) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := b.PieceAt(sq)
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castleSquaresString())

	sb.WriteByte(' ')
	sb.WriteString(b.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(b.FiftyMoveCount)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa((int(b.HalfTurnCount) + int(b.SideToMove)) / 2))

	return sb.String()
}
