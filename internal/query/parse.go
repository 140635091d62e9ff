package query

import (
	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// Condition is one clause of the conjunctive query surface: a field path,
// an operator string and the textual value to compare against.
type Condition struct {
	Path     string
	Operator string
	Value    string
}

// Comparison operator strings accepted by the condition surface.
const (
	OpEquals   = "==="
	OpIncludes = "includes"
	OpLt       = "<"
	OpLte      = "<="
	OpGt       = ">"
	OpGte      = ">="
	OpNe       = "!="
)

func errAST(msg string) error {
	return errors.NewASTError(msg)
}

// FromConditions compiles a non-empty condition list into a left-deep And
// chain. Value text is interpreted per the literal rule: true/false as
// booleans, numeric literals as integers when they fit and doubles
// otherwise, everything else as a string with surrounding quotes stripped.
func FromConditions(conditions []Condition) (Node, error) {
	if len(conditions) == 0 {
		return nil, errAST("at least one condition is required")
	}

	var root Node
	for _, condition := range conditions {
		leaf, err := conditionLeaf(condition)
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = leaf
			continue
		}
		root = And{Left: root, Right: leaf}
	}
	return root, nil
}

func conditionLeaf(condition Condition) (Node, error) {
	if condition.Path == "" {
		return nil, errors.NewASTError("condition is missing a field path")
	}

	value := document.ParseValueText(condition.Value)
	switch condition.Operator {
	case OpEquals:
		return Eq{Path: condition.Path, Value: value}, nil
	case OpIncludes:
		return Includes{Path: condition.Path, Value: value}, nil
	case OpLt:
		return Lt{Path: condition.Path, Value: value}, nil
	case OpLte:
		return Lte{Path: condition.Path, Value: value}, nil
	case OpGt:
		return Gt{Path: condition.Path, Value: value}, nil
	case OpGte:
		return Gte{Path: condition.Path, Value: value}, nil
	case OpNe:
		return Ne{Path: condition.Path, Value: value}, nil
	default:
		return nil, errors.NewUnknownOperatorError(condition.Operator).WithPath(condition.Path)
	}
}
