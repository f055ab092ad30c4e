package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/querykit/querykit/dsl"
	"github.com/querykit/querykit/sqltemplate"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
}

// explainResult is the output of one compiled query descriptor.
type explainResult struct {
	SQL        string         `json:"sql"`
	Parameters map[string]any `json:"parameters"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <query.yaml>",
		Short: "Compile a YAML query descriptor to a SQL template",
		Long: `Compile a YAML query descriptor to a parameterized SQL template.

The descriptor mirrors the dsl builder: select, from, joins, where,
order_by, limit and offset. Predicates are nested nodes with column/op/value,
between, all, any and not forms.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Errors are reported through our own output path
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], cmd)
		},
	}

	return cmd
}

func runExplain(opts *ExplainOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading query descriptor", err)
	}

	var spec querySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return WrapExitError(ExitFailure, "parsing query descriptor", err)
	}

	query, err := spec.build()
	if err != nil {
		return WrapExitError(ExitFailure, "invalid query descriptor", err)
	}

	formatter.VerboseLog("compiling descriptor %s", path)

	sql, params := sqltemplate.Compile(query)
	result := explainResult{SQL: sql, Parameters: params}

	if formatter.Format == "json" {
		return formatter.PrintJSON(result)
	}

	formatter.Printf("%s\n", result.SQL)
	names := make([]string, 0, len(result.Parameters))
	for name := range result.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		formatter.Printf("  %s = %v\n", name, result.Parameters[name])
	}
	return nil
}

// querySpec is the YAML shape of a query descriptor.
type querySpec struct {
	Select  []string       `yaml:"select"`
	From    string         `yaml:"from"`
	Joins   []joinSpec     `yaml:"joins"`
	Where   *predicateSpec `yaml:"where"`
	OrderBy []orderSpec    `yaml:"order_by"`
	Limit   *int           `yaml:"limit"`
	Offset  *int           `yaml:"offset"`
}

type joinSpec struct {
	Kind  string         `yaml:"kind"` // inner | left | right | full_outer
	Table string         `yaml:"table"`
	Alias string         `yaml:"alias"`
	On    *predicateSpec `yaml:"on"`
}

type orderSpec struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"` // asc (default) | desc
}

// predicateSpec is a recursive predicate node. Exactly one form must be set:
// a column/op comparison, a between range, all, any, or not.
type predicateSpec struct {
	Column string `yaml:"column"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`

	Between *betweenSpec `yaml:"between"`

	All []predicateSpec `yaml:"all"`
	Any []predicateSpec `yaml:"any"`
	Not *predicateSpec  `yaml:"not"`
}

type betweenSpec struct {
	Column  string `yaml:"column"`
	Start   any    `yaml:"start"`
	End     any    `yaml:"end"`
	Negated bool   `yaml:"negated"`
}

var joinKinds = map[string]dsl.JoinType{
	"inner":      dsl.JoinInner,
	"left":       dsl.JoinLeft,
	"right":      dsl.JoinRight,
	"full_outer": dsl.JoinFullOuter,
}

var comparisonOps = map[string]dsl.Operator{
	"eq":          dsl.OpEq,
	"ne":          dsl.OpNe,
	"gt":          dsl.OpGt,
	"gte":         dsl.OpGte,
	"lt":          dsl.OpLt,
	"lte":         dsl.OpLte,
	"like":        dsl.OpLike,
	"not_like":    dsl.OpNotLike,
	"in":          dsl.OpIn,
	"not_in":      dsl.OpNotIn,
	"is_null":     dsl.OpIsNull,
	"is_not_null": dsl.OpIsNotNull,
}

func (s querySpec) build() (*dsl.Query, error) {
	q := dsl.NewQuery()
	if len(s.Select) > 0 {
		q.Select(s.Select...)
	}
	if s.From != "" {
		q.From(s.From)
	}

	for i, join := range s.Joins {
		kind, ok := joinKinds[join.Kind]
		if !ok {
			return nil, fmt.Errorf("join %d: unknown kind %q", i, join.Kind)
		}
		if join.Table == "" {
			return nil, fmt.Errorf("join %d: table is required", i)
		}
		if join.On == nil {
			return nil, fmt.Errorf("join %d: on condition is required", i)
		}
		condition, err := join.On.build()
		if err != nil {
			return nil, fmt.Errorf("join %d: %w", i, err)
		}
		q.Join(dsl.NewJoinClause(kind, join.Table, join.Alias, condition))
	}

	if s.Where != nil {
		where, err := s.Where.build()
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		q.Where(where)
	}

	for i, order := range s.OrderBy {
		if order.Column == "" {
			return nil, fmt.Errorf("order_by %d: column is required", i)
		}
		switch strings.ToLower(order.Direction) {
		case "", "asc":
			q.OrderBy(order.Column)
		case "desc":
			q.OrderBy(order.Column, dsl.SortDesc)
		default:
			return nil, fmt.Errorf("order_by %d: unknown direction %q", i, order.Direction)
		}
	}

	if s.Limit != nil {
		q.Limit(*s.Limit)
	}
	if s.Offset != nil {
		q.Offset(*s.Offset)
	}
	return q, nil
}

func (s predicateSpec) build() (dsl.Predicate, error) {
	switch {
	case s.Between != nil:
		if s.Between.Column == "" {
			return nil, fmt.Errorf("between: column is required")
		}
		if s.Between.Start == nil || s.Between.End == nil {
			return nil, fmt.Errorf("between: start and end are required")
		}
		return dsl.NewBetweenPredicate(s.Between.Column, s.Between.Start, s.Between.End, s.Between.Negated), nil

	case len(s.All) > 0:
		children, err := buildChildren(s.All)
		if err != nil {
			return nil, err
		}
		return dsl.All(children...), nil

	case len(s.Any) > 0:
		children, err := buildChildren(s.Any)
		if err != nil {
			return nil, err
		}
		return dsl.Any(children...), nil

	case s.Not != nil:
		inner, err := s.Not.build()
		if err != nil {
			return nil, err
		}
		return dsl.Not(inner), nil

	case s.Op != "":
		if s.Column == "" {
			return nil, fmt.Errorf("comparison: column is required")
		}
		op, ok := comparisonOps[s.Op]
		if !ok {
			if s.Op == "ilike" {
				pattern, isString := s.Value.(string)
				if !isString {
					return nil, fmt.Errorf("ilike: value must be a string pattern")
				}
				return dsl.NewStringProperty(s.Column).ILike(pattern), nil
			}
			return nil, fmt.Errorf("comparison: unknown op %q", s.Op)
		}
		if op != dsl.OpIsNull && op != dsl.OpIsNotNull && s.Value == nil {
			return nil, fmt.Errorf("comparison: op %q requires a value", s.Op)
		}
		return dsl.NewSimplePredicate(s.Column, op, s.Value), nil
	}

	return nil, fmt.Errorf("predicate node must set one of: column/op, between, all, any, not")
}

func buildChildren(specs []predicateSpec) ([]dsl.Predicate, error) {
	children := make([]dsl.Predicate, 0, len(specs))
	for i, spec := range specs {
		child, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		children = append(children, child)
	}
	return children, nil
}
