// Package scoring turns a set of die faces into Farkle points.
package scoring

const numSides = 6

// Point values for the fixed combinations.
const (
	StraightPoints    = 1500
	ThreePairsPoints  = 1500
	TwoTripletsPoints = 2500
	SingleOnePoints   = 100
	SingleFivePoints  = 50
)

// Result is the outcome of scoring a set of faces.
// Used counts the dice that took part in some scoring combination.
type Result struct {
	Points int `json:"points"`
	Used   int `json:"used"`
}

// Busted reports whether nothing in the scored faces was worth points.
func (r Result) Busted() bool { return r.Points == 0 }

type counts [numSides + 1]int

func countFaces(faces []int) counts {
	var c counts
	for _, f := range faces {
		if f >= 1 && f <= numSides {
			c[f]++
		}
	}
	return c
}

// Score computes the points for faces and how many of them were used.
//
// Six-dice specials (straight, three pairs, two triplets) are only checked
// when exactly six faces are given and take precedence over everything else.
func Score(faces []int) Result {
	if len(faces) == 0 {
		return Result{}
	}

	c := countFaces(faces)

	if len(faces) == 6 {
		if pts, ok := sixDiceSpecial(c); ok {
			return Result{Points: pts, Used: 6}
		}
	}

	var res Result

	// Multiples consume their dice before singles are counted.
	for face := 1; face <= numSides; face++ {
		n := c[face]
		if n < 3 {
			continue
		}
		res.Points += multipleBase(face) * (n - 2)
		res.Used += n
		c[face] = 0
	}

	res.Points += c[1] * SingleOnePoints
	res.Used += c[1]
	res.Points += c[5] * SingleFivePoints
	res.Used += c[5]

	return res
}

// ScoringIndices returns, in ascending order, the positions of faces that
// participate in some scoring combination under the same precedence as Score.
func ScoringIndices(faces []int) []int {
	if len(faces) == 0 {
		return nil
	}

	c := countFaces(faces)
	if len(faces) == 6 {
		if _, ok := sixDiceSpecial(c); ok {
			all := make([]int, len(faces))
			for i := range faces {
				all[i] = i
			}
			return all
		}
	}

	var idx []int
	for i, f := range faces {
		if f < 1 || f > numSides {
			continue
		}
		if c[f] >= 3 || f == 1 || f == 5 {
			idx = append(idx, i)
		}
	}
	return idx
}

// HasScore reports whether faces contain any scoring combination.
func HasScore(faces []int) bool {
	return Score(faces).Points > 0
}

// IsValidSelection scores a player's selection. A selection is valid only
// when every selected die contributes; otherwise the whole selection is
// worth nothing.
func IsValidSelection(faces []int) (Result, bool) {
	res := Score(faces)
	if res.Points == 0 || res.Used != len(faces) {
		return Result{}, false
	}
	return res, true
}

func multipleBase(face int) int {
	if face == 1 {
		return 1000
	}
	return face * 100
}

func sixDiceSpecial(c counts) (int, bool) {
	if isStraight(c) {
		return StraightPoints, true
	}
	if countOf(c, 2) == 3 {
		return ThreePairsPoints, true
	}
	if countOf(c, 3) == 2 {
		return TwoTripletsPoints, true
	}
	return 0, false
}

func isStraight(c counts) bool {
	for face := 1; face <= numSides; face++ {
		if c[face] != 1 {
			return false
		}
	}
	return true
}

// countOf returns how many faces appear exactly n times.
func countOf(c counts, n int) int {
	total := 0
	for face := 1; face <= numSides; face++ {
		if c[face] == n {
			total++
		}
	}
	return total
}
