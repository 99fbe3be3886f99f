package engine

// DebugLevel controls how chatty a mutation is about its work
type DebugLevel int

const (
	DebugOff DebugLevel = iota
	DebugSQL            // print statement shape and batch layout
	DebugTrace          // also print timing per call
)
