package board

// GameState owns the history of board states needed for repetition
// detection. BoardState itself carries no memory of how it was reached;
// GameState is the stack of BoardState snapshots that makes that possible
// (spec §3, §4.A). Search pushes and pops positions onto this same stack as
// it walks the tree, so repetition checks see both real game history and
// moves played so far in the current search.
type GameState struct {
	states []BoardState
}

// NewGameState creates a GameState starting from b.
func NewGameState(b *BoardState) *GameState {
	gs := &GameState{states: make([]BoardState, 1, 64)}
	gs.states[0] = *b
	return gs
}

// NewGameStateFromFEN parses fen and wraps it in a GameState.
func NewGameStateFromFEN(fen string) (*GameState, error) {
	b, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return NewGameState(b), nil
}

// Board returns the current position.
func (g *GameState) Board() *BoardState {
	return &g.states[len(g.states)-1]
}

// PrevBoard returns the position one ply before the current one.
func (g *GameState) PrevBoard() *BoardState {
	return &g.states[len(g.states)-2]
}

// Ply returns the number of positions on the stack, i.e. one more than the
// number of moves applied since the GameState was created or since
// ApplyRealMove last trimmed the history.
func (g *GameState) Ply() int {
	return len(g.states)
}

// ApplyMove plays m, pushing the resulting position onto the stack and
// updating its repetition bookkeeping.
func (g *GameState) ApplyMove(m Move) UndoInfo {
	next := *g.Board()
	undo := next.ApplyMove(m)
	g.states = append(g.states, next)
	g.updateRepetition()
	return undo
}

// RevertMove pops the most recently applied position off the stack. Unlike
// BoardState.UnmakeMove, the caller does not need to retain UndoInfo: the
// full prior snapshot is simply discarded.
func (g *GameState) RevertMove() {
	g.states = g.states[:len(g.states)-1]
}

// ApplyNullMove pushes a null-move position.
func (g *GameState) ApplyNullMove() {
	next := *g.Board()
	next.ApplyNullMove()
	g.states = append(g.states, next)
	g.updateRepetition()
}

// RevertNullMove pops a null-move position.
func (g *GameState) RevertNullMove() {
	g.states = g.states[:len(g.states)-1]
}

// ApplyRealMove plays a move known to be part of the actual game (as
// opposed to search's speculative tree), and trims history older than the
// last irreversible (fifty-move-resetting) move: no repetition check ever
// needs to look further back than that, so retaining it would only waste
// memory over a long game.
func (g *GameState) ApplyRealMove(m Move) {
	g.ApplyMove(m)
	if g.Board().FiftyMoveCount == 0 {
		g.states = append(g.states[:0:0], g.states[len(g.states)-1])
	}
}

// IsRepetition reports a draw by repetition visible from distanceFromRoot
// plies into the current search: either a three-fold repetition anywhere
// in history, or a two-fold repetition that occurred within the search tree
// itself (strictly after the root), which search treats as a draw to
// avoid needing a third occurrence that may never come.
func (g *GameState) IsRepetition(distanceFromRoot int) bool {
	b := g.Board()
	return b.ThreeFoldRep || (b.HasRepetition && int(b.RepetitionPly) < distanceFromRoot)
}

// IsTwoFoldRepetition reports whether the current position has occurred
// at least once before in the retained history.
func (g *GameState) IsTwoFoldRepetition() bool {
	return g.Board().HasRepetition
}

// updateRepetition scans backward in strides of two plies (repetition
// requires both sides to return to the same position) from the current
// position up to the fifty-move horizon, recording the ply distance to the
// nearest earlier occurrence of the same key, if any.
func (g *GameState) updateRepetition() {
	i := len(g.states) - 1
	cur := &g.states[i]
	cur.ThreeFoldRep = false
	cur.HasRepetition = false
	cur.RepetitionPly = 0

	maxPly := i
	if int(cur.FiftyMoveCount) < maxPly {
		maxPly = int(cur.FiftyMoveCount)
	}

	for ply := 4; ply <= maxPly; ply += 2 {
		if cur.Key == g.states[i-ply].Key {
			cur.RepetitionPly = int16(ply)
			cur.HasRepetition = true
			cur.ThreeFoldRep = g.states[i-ply].HasRepetition
			break
		}
	}
}

// UpcomingRepetition reports whether some legal move available right now
// would walk the position directly into a repetition, without needing to
// apply every legal move and recheck. It uses the cuckoo table of
// reversible piece moves to recognize, from the XOR difference of two
// Zobrist keys several plies apart, that the difference corresponds to a
// single reversible move whose path is currently clear — meaning the
// position two (or more) plies ago is one ply away from recurring.
// Grounded on the upcoming-cycle detection method of van Kervinck (cited in
// the cuckoo table construction).
func (g *GameState) UpcomingRepetition(distanceFromRoot int) bool {
	i := len(g.states) - 1
	cur := &g.states[i]
	maxPly := i
	if int(cur.FiftyMoveCount) < maxPly {
		maxPly = int(cur.FiftyMoveCount)
	}

	if maxPly < 3 {
		return false
	}

	other := cur.Key ^ g.states[i-1].Key ^ zobristSideToMove
	occ := cur.AllOccupied

	for ply := 3; ply <= maxPly; ply += 2 {
		other ^= g.states[i-(ply-1)].Key ^ g.states[i-ply].Key ^ zobristSideToMove

		if other != 0 {
			continue
		}

		diff := cur.Key ^ g.states[i-ply].Key
		m, ok := CuckooLookup(diff)
		if !ok {
			continue
		}

		if occ&Between(m.From(), m.To()) != 0 {
			continue
		}

		if ply < distanceFromRoot {
			return true
		}
		if g.states[i-ply].HasRepetition {
			return true
		}
	}

	return false
}

// UpcomingRepetitionInHistory is UpcomingRepetition's algorithm adapted for
// callers that track only a flat buffer of position keys rather than a full
// GameState (the search worker keeps its own position-key ring buffer for
// speed — see Worker.posHistoryBuffer). history[historyLen-1] must be the
// current position's key; curKey/curOccupied/fiftyMoveCount describe the
// current position itself. The flat buffer carries no repetition flags, so
// unlike UpcomingRepetition it reports only cycles whose earlier position
// lies inside the search tree (ply < distanceFromRoot).
func UpcomingRepetitionInHistory(history []uint64, historyLen int, curKey uint64, curOccupied Bitboard, fiftyMoveCount, distanceFromRoot int) bool {
	i := historyLen - 1
	if i < 3 {
		return false
	}
	maxPly := i
	if fiftyMoveCount < maxPly {
		maxPly = fiftyMoveCount
	}
	if maxPly < 3 {
		return false
	}

	other := curKey ^ history[i-1] ^ zobristSideToMove

	for ply := 3; ply <= maxPly; ply += 2 {
		other ^= history[i-(ply-1)] ^ history[i-ply] ^ zobristSideToMove

		if other != 0 {
			continue
		}

		diff := curKey ^ history[i-ply]
		m, ok := CuckooLookup(diff)
		if !ok {
			continue
		}

		if curOccupied&Between(m.From(), m.To()) != 0 {
			continue
		}

		if ply < distanceFromRoot {
			return true
		}
	}

	return false
}
