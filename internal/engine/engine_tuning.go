package engine

// Search feature toggles. Kept as constants (rather than UCI-settable
// fields) so the compiler can fold off disabled branches; flip one to false
// here to isolate a heuristic while debugging a regression.
const (
	EnableThreatExt       = true
	EnableHindsightDepth  = true
	EnableRFP             = true
	EnableRazoring        = true
	EnableNMP             = true
	EnableProbcut         = true
	EnableMulticut        = true
	EnableFutilityPruning = true
	EnableSEEPruning      = true
	EnableLMP             = true
	EnableHistoryPruning  = true
	EnableSingularExt     = true
)

// Pruning/extension margins and depth thresholds, Stockfish-derived.
const (
	lazyEvalMargin           = 400
	historyPruningThreshold  = -2000
	threatExtensionMinDepth  = 5
	threatExtensionThreshold = RookValue
	probcutDepth             = 5
	multicutDepth            = 8
	multicutMoves            = 6
	multicutRequired         = 3
)

// lmpThreshold[depth] bounds the move count explored before Late Move
// Pruning starts skipping quiets, indexed by remaining depth (depth <= 7).
var lmpThreshold = [8]int{0, 5, 8, 13, 20, 29, 40, 53}
