package engine

// Evaluate returns the material balance of the position; positive favours White.
func Evaluate(p *Position) float32 {
	var score float32
	p.each(func(pc *Piece) {
		if pc.Color == White {
			score += pc.Kind.Value()
		} else {
			score -= pc.Kind.Value()
		}
	})
	return score
}
