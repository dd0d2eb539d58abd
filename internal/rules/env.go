package rules

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/haarrywhiite/Farkle/internal/scoring"
)

// Registry manages the CEL environment strategies are compiled in.
type Registry struct {
	env *cel.Env
}

// NewRegistry declares the turn variables and the score() helper.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("turn_total", cel.IntType),
		cel.Variable("pending", cel.IntType),
		cel.Variable("live", cel.IntType),
		cel.Variable("dice_left", cel.IntType),
		cel.Variable("threshold", cel.DoubleType),
		cel.Variable("total_score", cel.IntType),
		cel.Variable("target", cel.IntType),
		cel.Variable("on_board", cel.BoolType),
		cel.Variable("opening_minimum", cel.IntType),
		cel.Variable("best_opponent", cel.IntType),
		cel.Variable("faces", cel.ListType(cel.IntType)),
		ext.Lists(),
		ext.Math(),

		cel.Function("score",
			cel.Overload("score_list_int",
				[]*cel.Type{cel.ListType(cel.IntType)},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					faces, err := toFaces(arg)
					if err != nil {
						return types.NewErr("%v", err)
					}
					return types.Int(scoring.Score(faces).Points)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build strategy environment: %w", err)
	}
	return &Registry{env: env}, nil
}

var reflectIntSlice = reflect.TypeOf([]int64{})

func toFaces(arg ref.Val) ([]int, error) {
	native, err := arg.ConvertToNative(reflectIntSlice)
	if err != nil {
		return nil, err
	}
	raw := native.([]int64)
	faces := make([]int, len(raw))
	for i, f := range raw {
		faces[i] = int(f)
	}
	return faces, nil
}

// Compile checks expression and returns a program that must yield a bool.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("failed to compile strategy %q: %w", expression, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("strategy %q must evaluate to bool, not %s", expression, ast.OutputType())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan strategy %q: %w", expression, err)
	}
	return prog, nil
}
