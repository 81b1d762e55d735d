package engine

import "github.com/hailam/haloengine/internal/board"

// Correction history tables adjust the static evaluation using the error the
// search actually found at a node, keyed on a cheap structural hash (pawn
// structure or non-pawn material/placement) rather than the full position —
// so the lesson carries over to positions that share that structure but
// differ elsewhere. Based on the teacher's single-table correction history,
// split into the pawn and non-pawn variants and given the saturated gravity
// update used by every history table in this engine.

const (
	correctionEntries  = 16384
	correctionMaxValue = 16384
	correctionScale    = 256
)

func updateCorrectionEntry(entry *int16, change, maxValue, scale int) {
	v := int(*entry)
	v += scale*change - v*abs(change)*scale/maxValue
	if v > maxValue {
		v = maxValue
	} else if v < -maxValue {
		v = -maxValue
	}
	*entry = int16(v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PawnCorrectionHistory is PawnCorrHistory[side][pawn_hash mod 16384].
type PawnCorrectionHistory struct {
	table [2][correctionEntries]int16
}

func NewPawnCorrectionHistory() *PawnCorrectionHistory {
	return &PawnCorrectionHistory{}
}

func (h *PawnCorrectionHistory) Get(side board.Color, b *board.BoardState) int {
	return int(h.table[side][b.PawnKey%correctionEntries])
}

// Update records the gap between the search's result and the adjusted
// static eval, scaled by depth, and folds it in with the gravity formula.
func (h *PawnCorrectionHistory) Update(side board.Color, b *board.BoardState, searchScore, adjustedEval, depth int) {
	change := (searchScore - adjustedEval) * depth
	updateCorrectionEntry(&h.table[side][b.PawnKey%correctionEntries], change, correctionMaxValue, correctionScale)
}

func (h *PawnCorrectionHistory) Clear() {
	h.table = [2][correctionEntries]int16{}
}

// NonPawnCorrectionHistory is NonPawnCorrHistory[side][non_pawn_hash mod
// 16384] per colour: each colour's non-pawn key selects an entry in that
// colour's table, and Get/Update combine the white and black entries.
type NonPawnCorrectionHistory struct {
	table [2][2][correctionEntries]int16
}

func NewNonPawnCorrectionHistory() *NonPawnCorrectionHistory {
	return &NonPawnCorrectionHistory{}
}

func (h *NonPawnCorrectionHistory) Get(side board.Color, b *board.BoardState) int {
	total := 0
	for _, pieceSide := range [2]board.Color{board.White, board.Black} {
		total += int(h.table[side][pieceSide][b.NonPawnKey[pieceSide]%correctionEntries])
	}
	return total
}

func (h *NonPawnCorrectionHistory) Update(side board.Color, b *board.BoardState, searchScore, adjustedEval, depth int) {
	change := (searchScore - adjustedEval) * depth
	for _, pieceSide := range [2]board.Color{board.White, board.Black} {
		updateCorrectionEntry(&h.table[side][pieceSide][b.NonPawnKey[pieceSide]%correctionEntries], change, correctionMaxValue, correctionScale)
	}
}

func (h *NonPawnCorrectionHistory) Clear() {
	h.table = [2][2][correctionEntries]int16{}
}

// ContinuationCorrectionHistory is ContinuationCorrHistory, indexed like
// ContinuationHistory: per side, keyed on the piece/to-square of the move
// one ply back, so the correction follows "after move X, my eval tends to
// be off by Y" patterns rather than raw position structure.
type ContinuationCorrectionHistory struct {
	table [2][12][64]int16
}

func NewContinuationCorrectionHistory() *ContinuationCorrectionHistory {
	return &ContinuationCorrectionHistory{}
}

func (h *ContinuationCorrectionHistory) Get(side board.Color, prevPiece board.Piece, prevTo board.Square) int {
	if prevPiece == board.NoPiece {
		return 0
	}
	return int(h.table[side][prevPiece][prevTo])
}

func (h *ContinuationCorrectionHistory) Update(side board.Color, prevPiece board.Piece, prevTo board.Square, searchScore, adjustedEval, depth int) {
	if prevPiece == board.NoPiece {
		return
	}
	change := (searchScore - adjustedEval) * depth
	updateCorrectionEntry(&h.table[side][prevPiece][prevTo], change, correctionMaxValue, correctionScale)
}

func (h *ContinuationCorrectionHistory) Clear() {
	h.table = [2][12][64]int16{}
}

// CorrectionHistory aggregates all correction sources into a single
// additive adjustment to static eval. The adjustment is applied to every
// static eval; per spec §4.D's gate, the tables are only updated when the
// best move at the node was quiet and the node wasn't in check.
type CorrectionHistory struct {
	Pawn           *PawnCorrectionHistory
	NonPawn        *NonPawnCorrectionHistory
	Continuation   *ContinuationCorrectionHistory
}

func NewCorrectionHistory() *CorrectionHistory {
	return &CorrectionHistory{
		Pawn:         NewPawnCorrectionHistory(),
		NonPawn:      NewNonPawnCorrectionHistory(),
		Continuation: NewContinuationCorrectionHistory(),
	}
}

// Correct returns the adjustment to add to a raw static eval for b, from the
// perspective of side. prevPiece/prevTo identify the move one ply back (pass
// board.NoPiece when there isn't one, e.g. at the root) to fold in the
// continuation-correction term.
func (ch *CorrectionHistory) Correct(side board.Color, b *board.BoardState, prevPiece board.Piece, prevTo board.Square) int {
	total := ch.Pawn.Get(side, b) + ch.NonPawn.Get(side, b)/2 + ch.Continuation.Get(side, prevPiece, prevTo)
	return total / correctionScale
}

// Update folds a search result into every correction table, gated on the
// caller having already checked the best-move-was-quiet / not-in-check
// conditions from spec §4.D.
func (ch *CorrectionHistory) Update(side board.Color, b *board.BoardState, prevPiece board.Piece, prevTo board.Square, searchScore, adjustedEval, depth int) {
	if depth < 1 {
		return
	}
	ch.Pawn.Update(side, b, searchScore, adjustedEval, depth)
	ch.NonPawn.Update(side, b, searchScore, adjustedEval, depth)
	ch.Continuation.Update(side, prevPiece, prevTo, searchScore, adjustedEval, depth)
}

func (ch *CorrectionHistory) Clear() {
	ch.Pawn.Clear()
	ch.NonPawn.Clear()
	ch.Continuation.Clear()
}
