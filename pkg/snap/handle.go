package snap

// Handle identifies one of the eight compass resize affordances on a
// widget's border.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists all eight compass handles in a stable order.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

// North reports whether the handle moves the top edge.
func (h Handle) North() bool { return h == HandleN || h == HandleNE || h == HandleNW }

// South reports whether the handle moves the bottom edge.
func (h Handle) South() bool { return h == HandleS || h == HandleSE || h == HandleSW }

// East reports whether the handle moves the right edge.
func (h Handle) East() bool { return h == HandleE || h == HandleNE || h == HandleSE }

// West reports whether the handle moves the left edge.
func (h Handle) West() bool { return h == HandleW || h == HandleNW || h == HandleSW }

// Valid reports whether h is one of the eight compass handles.
func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}
