package sql

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	InsertStatementType
	UpdateStatementType
	DeleteStatementType
	CreateTableStatementType
	CreateIndexStatementType
	DropTableStatementType
)

type Statement interface {
	Type() StatementType
}

type SelectStatement struct {
	Table   string
	Columns []string // empty for SELECT *
	Joins   []JoinClause
	Where   Condition      // nil when no WHERE clause
	OrderBy *OrderByClause // nil when no ORDER BY clause
	Limit   int            // 0 when no LIMIT clause
}

type JoinClause struct {
	Type     string // INNER, LEFT, RIGHT
	Table    string
	LeftCol  string // may be table-qualified
	RightCol string // may be table-qualified
}

type OrderByClause struct {
	Column     string
	Descending bool
}

type InsertStatement struct {
	Table   string
	Columns []string // nil when values map positionally
	Values  []core.Value
}

type UpdateStatement struct {
	Table string
	Sets  []SetClause
	Where Condition
}

type SetClause struct {
	Column string
	Value  core.Value
}

type DeleteStatement struct {
	Table string
	Where Condition
}

type CreateTableStatement struct {
	Table   string
	Columns []core.Column
}

type CreateIndexStatement struct {
	Name   string
	Table  string
	Column string
}

type DropTableStatement struct {
	Table string
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s UpdateStatement) Type() StatementType {
	return UpdateStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

func (s CreateTableStatement) Type() StatementType {
	return CreateTableStatementType
}

func (s CreateIndexStatement) Type() StatementType {
	return CreateIndexStatementType
}

func (s DropTableStatement) Type() StatementType {
	return DropTableStatementType
}

// Condition is the WHERE tree: logical nodes over comparisons, built
// left-associative with AND and OR at equal precedence.
type Condition interface {
	ConditionType() ConditionType
}

type ConditionType int

const (
	LogicalConditionType ConditionType = iota
	ComparisonConditionType
)

type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

type LogicalCondition struct {
	Operator LogicalOperator
	Left     Condition
	Right    Condition
}

func (c LogicalCondition) ConditionType() ConditionType {
	return LogicalConditionType
}

type CompareOperator int

const (
	EqualsOperator CompareOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
)

type Comparison struct {
	Column   string // may be table-qualified
	Operator CompareOperator
	Value    core.Value
}

func (c Comparison) ConditionType() ConditionType {
	return ComparisonConditionType
}

// compareOperators maps operator token text to its CompareOperator.
var compareOperators = map[string]CompareOperator{
	"=":  EqualsOperator,
	"!=": NotEqualsOperator,
	"<>": NotEqualsOperator,
	"<":  LessThanOperator,
	">":  GreaterThanOperator,
	"<=": LessThanOrEqualOperator,
	">=": GreaterThanOrEqualOperator,
}
