package rules

import (
	"github.com/google/cel-go/cel"
	"github.com/sirupsen/logrus"

	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/policy"
)

// ContextFromSnapshot converts a snapshot into the variables a strategy
// expression can see.
func ContextFromSnapshot(s engine.Snapshot, p policy.Policy) map[string]any {
	cur := s.CurrentPlayer()
	best := 0
	for i, pl := range s.Players {
		if i != s.Current && pl.TotalScore > best {
			best = pl.TotalScore
		}
	}
	faces := make([]int64, 0, dice.PoolSize)
	for _, f := range s.Faces(dice.Available) {
		faces = append(faces, int64(f))
	}
	return map[string]any{
		"turn_total":      int64(s.TurnTotal),
		"pending":         int64(s.Pending.Points),
		"live":            int64(s.TurnTotal + s.Pending.Points),
		"dice_left":       int64(s.Available),
		"threshold":       p.Threshold(s.Available),
		"total_score":     int64(cur.TotalScore),
		"target":          int64(s.Target),
		"on_board":        cur.OnBoard,
		"opening_minimum": int64(s.OpeningMinimum),
		"best_opponent":   int64(best),
		"faces":           faces,
	}
}

// ExprStrategy decides with a CEL expression: true rolls again, false
// banks. Evaluation failures fall back to the threshold policy.
type ExprStrategy struct {
	Expr     string
	program  cel.Program
	fallback policy.Policy
	log      logrus.FieldLogger
}

// NewExprStrategy compiles expr. fallback supplies the threshold variable
// and the decision when evaluation fails.
func NewExprStrategy(reg *Registry, expr string, fallback policy.Policy, log logrus.FieldLogger) (*ExprStrategy, error) {
	prog, err := reg.Compile(expr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &ExprStrategy{Expr: expr, program: prog, fallback: fallback, log: log}, nil
}

func (e *ExprStrategy) Decide(s engine.Snapshot) policy.Action {
	out, _, err := e.program.Eval(ContextFromSnapshot(s, e.fallback))
	if err != nil {
		e.log.WithError(err).WithField("strategy", e.Expr).Warn("strategy evaluation failed")
		return e.fallback.Decide(s)
	}
	if keep, ok := out.Value().(bool); ok && keep {
		return policy.Continue
	}
	return policy.Bank
}
