package engine

import (
	"sync/atomic"

	"github.com/hailam/haloengine/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher is the single-threaded search entry point used for Multi-PV
// analysis, where each requested line is searched to completion one at a
// time rather than split across Lazy SMP workers. It is a thin wrapper
// around a dedicated Worker so Multi-PV gets the exact same negamax
// (staged move generation, SEE pruning, cycle detection, correction
// history) as the main Lazy SMP search, just driven serially.
type Searcher struct {
	worker   *Worker
	stopFlag atomic.Bool
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	s := &Searcher{}
	pawnTable := NewPawnTable(1)
	sharedHistory := NewSharedHistory()
	s.worker = NewWorker(0, tt, pawnTable, sharedHistory, &s.stopFlag)
	return s
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped reports whether the search has been signaled to stop.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.worker.Reset()
}

// ClearOrderer clears the worker's move-ordering and correction-history state.
func (s *Searcher) ClearOrderer() {
	s.worker.orderer.Clear()
	s.worker.corrHistory.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.worker.Nodes()
}

// SetRootHistory sets the position history from the game (for repetition detection).
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.worker.SetRootHistory(hashes)
}

// SetExcludedMoves sets the moves to exclude at root (for Multi-PV).
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.worker.SetExcludedMoves(moves)
}

// Search performs the search at the given depth.
func (s *Searcher) Search(pos *board.BoardState, depth int) (board.Move, int) {
	s.worker.InitSearch(pos.Copy())
	return s.worker.SearchDepth(depth, -Infinity, Infinity)
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	return s.worker.GetPV()
}
