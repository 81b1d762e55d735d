package engine

import "github.com/hailam/haloengine/internal/board"

// genPhase is the staged move generator's internal state machine. Moves come
// out of next() in phase order; the caller (the search's move loop) never
// sees a full generate-then-sort list, only one move at a time, so pruning
// decisions made before a phase starts (e.g. skipQuiets) can skip the work
// of generating and scoring moves that would've been thrown away anyway.
type genPhase int

const (
	phaseTT genPhase = iota
	phaseGenLoud
	phaseGoodLoud
	phaseGenQuiet
	phaseQuiet
	phaseBadLoud
	phaseDone

	phaseProbcutTT
	phaseProbcutLoud
)

type scoredMove struct {
	move  board.Move
	score int
}

// StagedMoveGenerator is the lazy, prioritized move iterator consumed by the
// search worker's move loop: TT move, then loud moves split into good/bad by
// a SEE-with-history gate, then quiets, then the deferred bad-loud moves.
type StagedMoveGenerator struct {
	pos     *board.BoardState
	orderer *MoveOrderer

	ttMove   board.Move
	prevMove board.Move
	ply      int

	phase genPhase

	loud    []scoredMove
	loudIdx int

	quiet    []scoredMove
	quietIdx int

	badLoud    []scoredMove
	badLoudIdx int

	skip bool // skip_quiets() was called

	probcut          bool
	probcutThreshold int

	// contTables holds the continuation-history subtables stashed by the
	// moves 1, 2, and 4 plies back (nil where there is no such ply), set by
	// the caller before the quiet-generation phase runs.
	contTables [3]*PieceToHistory
}

// SetContinuationContext supplies the continuation-history subtables for
// the moves 1, 2, and 4 plies back, used to score quiet moves per spec §3.
func (g *StagedMoveGenerator) SetContinuationContext(ply1, ply2, ply4 *PieceToHistory) {
	g.contTables[0] = ply1
	g.contTables[1] = ply2
	g.contTables[2] = ply4
}

// NewStagedMoveGenerator builds a generator for the main search's move loop.
func NewStagedMoveGenerator(pos *board.BoardState, orderer *MoveOrderer, ttMove, prevMove board.Move, ply int) *StagedMoveGenerator {
	return &StagedMoveGenerator{
		pos:      pos,
		orderer:  orderer,
		ttMove:   ttMove,
		prevMove: prevMove,
		ply:      ply,
		phase:    phaseTT,
	}
}

// NewProbcutMoveGenerator builds a generator for probcut's reduced mode: it
// starts at a probcut-TT-move phase and only ever emits loud moves that pass
// threshold, skipping the quiet phases entirely.
func NewProbcutMoveGenerator(pos *board.BoardState, orderer *MoveOrderer, ttMove board.Move, threshold int) *StagedMoveGenerator {
	return &StagedMoveGenerator{
		pos:              pos,
		orderer:          orderer,
		ttMove:           ttMove,
		ply:              0,
		phase:            phaseProbcutTT,
		probcut:          true,
		probcutThreshold: threshold,
	}
}

// SkipQuiets jumps the generator straight to the bad-loud phase, dropping any
// quiet moves not yet emitted. Called by the search after LMP/futility
// decides quiets at this node aren't worth generating or continuing through.
func (g *StagedMoveGenerator) SkipQuiets() {
	g.skip = true
}

func seeValue(pos *board.BoardState, m board.Move) int {
	if m.IsEnPassant() {
		return board.SeeValues[board.Pawn]
	}
	captured := pos.PieceAt(m.To())
	if captured == board.NoPiece {
		return 0
	}
	return board.SeeValues[captured.Type()]
}

func (g *StagedMoveGenerator) genLoud() {
	ml := g.pos.GenerateLoudMoves()
	g.loud = make([]scoredMove, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m == g.ttMove {
			continue
		}
		attacker := g.pos.PieceAt(m.From())
		score := seeValue(g.pos, m) * 5
		if attacker != board.NoPiece {
			var captured board.PieceType
			if m.IsEnPassant() {
				captured = board.Pawn
			} else if cp := g.pos.PieceAt(m.To()); cp != board.NoPiece {
				captured = cp.Type()
			}
			score += g.orderer.GetCaptureHistoryScore(attacker, m.To(), captured)
		}
		g.loud = append(g.loud, scoredMove{m, score})
	}
	sortScoredMoves(g.loud)
}

func (g *StagedMoveGenerator) genQuiet() {
	ml := g.pos.GenerateQuietMoves()
	g.quiet = make([]scoredMove, 0, ml.Len())
	side := g.pos.SideToMove
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m == g.ttMove {
			continue
		}
		piece := g.pos.PieceAt(m.From())
		if piece == board.NoPiece {
			continue
		}
		threatened := g.pos.ThreatBB[piece.Type()]&board.SquareBB(m.From()) != 0
		score := g.orderer.history[m.From()][m.To()]
		score += g.orderer.GetThreatHistoryScore(side, threatened, m.From(), m.To())
		score += g.orderer.GetPawnHistoryScore(side, g.pos.PawnKey, piece.Type(), m.To())
		for _, table := range g.contTables {
			if table != nil {
				score += table[piece][m.To()]
			}
		}
		g.quiet = append(g.quiet, scoredMove{m, score})
	}
	// Sorted up front in independent chunks of 5: each chunk is ordered by
	// score, but the chunks keep generation order relative to each other, so
	// a higher-scored quiet in a later chunk is emitted after lower ones.
	sortScoredMovesChunked(g.quiet, 5)
}

func sortScoredMoves(s []scoredMove) {
	for i := 0; i < len(s)-1; i++ {
		best := i
		for j := i + 1; j < len(s); j++ {
			if s[j].score > s[best].score {
				best = j
			}
		}
		if best != i {
			s[i], s[best] = s[best], s[i]
		}
	}
}

func sortScoredMovesChunked(s []scoredMove, chunk int) {
	for start := 0; start < len(s); start += chunk {
		end := start + chunk
		if end > len(s) {
			end = len(s)
		}
		sortScoredMoves(s[start:end])
	}
}

// seeThreshold computes the SEE-with-history gate for the good-loud phase:
// see_ge(move, −margin − history·k/1024).
func seeThreshold(margin, captureHist int) int {
	return -margin - captureHist/1024
}

// Next returns the next move from the generator along with whether it came
// from a loud phase (capture/promotion) and whether a move was produced at
// all. margin is the caller-supplied, depth/history-scaled SEE cutoff used
// in the good-loud phase (spec §4.H.12d computes this outside the
// generator; the generator just applies it).
func (g *StagedMoveGenerator) Next(margin int) (board.Move, bool, bool) {
	if g.probcut {
		return g.nextProbcut()
	}
	for {
		switch g.phase {
		case phaseTT:
			g.phase = phaseGenLoud
			if g.ttMove != board.NoMove && g.pos.IsLegal(g.ttMove) {
				return g.ttMove, g.ttMove.IsCapture() || g.ttMove.IsPromotion(), true
			}
		case phaseGenLoud:
			g.genLoud()
			g.phase = phaseGoodLoud
		case phaseGoodLoud:
			if g.loudIdx >= len(g.loud) {
				g.phase = phaseGenQuiet
				continue
			}
			sm := g.loud[g.loudIdx]
			g.loudIdx++
			if board.SeeGE(g.pos, sm.move, seeThreshold(margin, sm.score)) {
				return sm.move, true, true
			}
			g.badLoud = append(g.badLoud, sm)
		case phaseGenQuiet:
			if g.skip {
				g.phase = phaseBadLoud
				continue
			}
			g.genQuiet()
			g.phase = phaseQuiet
		case phaseQuiet:
			if g.skip || g.quietIdx >= len(g.quiet) {
				g.phase = phaseBadLoud
				continue
			}
			sm := g.quiet[g.quietIdx]
			g.quietIdx++
			return sm.move, false, true
		case phaseBadLoud:
			if g.badLoudIdx >= len(g.badLoud) {
				g.phase = phaseDone
				continue
			}
			sm := g.badLoud[g.badLoudIdx]
			g.badLoudIdx++
			return sm.move, true, true
		case phaseDone:
			return board.NoMove, false, false
		}
	}
}

func (g *StagedMoveGenerator) nextProbcut() (board.Move, bool, bool) {
	for {
		switch g.phase {
		case phaseProbcutTT:
			g.phase = phaseProbcutLoud
			if g.ttMove != board.NoMove && g.ttMove.IsCapture() && g.pos.IsLegal(g.ttMove) &&
				board.SeeGE(g.pos, g.ttMove, g.probcutThreshold) {
				return g.ttMove, true, true
			}
		case phaseProbcutLoud:
			if g.loud == nil {
				g.genLoud()
			}
			for g.loudIdx < len(g.loud) {
				sm := g.loud[g.loudIdx]
				g.loudIdx++
				if board.SeeGE(g.pos, sm.move, g.probcutThreshold) {
					return sm.move, true, true
				}
			}
			g.phase = phaseDone
		default:
			return board.NoMove, false, false
		}
	}
}

// UpdateQuietHistory updates every quiet-history table touched by a quiet
// cutoff move, per spec §4.D.
func (g *StagedMoveGenerator) UpdateQuietHistory(m board.Move, depth int, isGood bool) {
	side := g.pos.SideToMove
	piece := g.pos.PieceAt(m.From())
	g.orderer.UpdateHistory(m, depth, isGood)
	g.orderer.UpdatePawnHistory(side, g.pos.PawnKey, piece.Type(), m.To(), depth, isGood)
	threatened := g.pos.ThreatBB[piece.Type()]&board.SquareBB(m.From()) != 0
	g.orderer.UpdateThreatHistory(side, threatened, m.From(), m.To(), depth, isGood)
}

// UpdateLoudHistory updates capture history for a loud cutoff move.
func (g *StagedMoveGenerator) UpdateLoudHistory(m board.Move, depth int, isGood bool) {
	attacker := g.pos.PieceAt(m.From())
	if attacker == board.NoPiece {
		return
	}
	var captured board.PieceType
	if m.IsEnPassant() {
		captured = board.Pawn
	} else if cp := g.pos.PieceAt(m.To()); cp != board.NoPiece {
		captured = cp.Type()
	}
	g.orderer.UpdateCaptureHistory(attacker, m.To(), captured, depth, isGood)
}
