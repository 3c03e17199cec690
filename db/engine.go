package db

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/op"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/sql"
)

// Engine executes parsed SQL statements against a database. Successful
// mutations persist a snapshot before the result is returned.
type Engine struct {
	Database *op.Database
}

func NewEngine(database *op.Database) *Engine {
	return &Engine{Database: database}
}

// Execute parses and runs a single SQL statement.
func (engine *Engine) Execute(query string) (QueryResult, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		return QueryResult{}, err
	}

	switch stmt := statement.(type) {
	case sql.SelectStatement:
		return engine.executeSelect(stmt)
	case sql.InsertStatement:
		return engine.executeInsert(stmt)
	case sql.UpdateStatement:
		return engine.executeUpdate(stmt)
	case sql.DeleteStatement:
		return engine.executeDelete(stmt)
	case sql.CreateTableStatement:
		return engine.executeCreateTable(stmt)
	case sql.CreateIndexStatement:
		return engine.executeCreateIndex(stmt)
	case sql.DropTableStatement:
		return engine.executeDropTable(stmt)
	}

	return QueryResult{}, core.NewExecutionError("unsupported statement")
}

func (engine *Engine) table(name string) (*op.Table, error) {
	table, ok := engine.Database.GetTable(name)
	if !ok {
		return nil, core.NewSchemaError("table '%s' does not exist", name)
	}
	return table, nil
}

// executeSelect runs the pipeline scan, join, filter, sort, limit, project.
func (engine *Engine) executeSelect(stmt sql.SelectStatement) (QueryResult, error) {
	table, err := engine.table(stmt.Table)
	if err != nil {
		return QueryResult{}, err
	}

	rows := table.Scan()
	joined := len(stmt.Joins) > 0
	if joined {
		rows, err = engine.applyJoins(table, rows, stmt.Joins)
		if err != nil {
			return QueryResult{}, err
		}
	}

	if stmt.Where != nil {
		filtered := make([]*core.Row, 0, len(rows))
		for _, row := range rows {
			keep, err := evaluateCondition(row, stmt.Where)
			if err != nil {
				return QueryResult{}, err
			}
			if keep {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	if stmt.OrderBy != nil {
		sortRows(rows, stmt.OrderBy)
	}

	if stmt.Limit > 0 && len(rows) > stmt.Limit {
		rows = rows[:stmt.Limit]
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		if joined {
			if len(rows) > 0 {
				columns = engine.joinedColumns(table, stmt.Joins)
			}
		} else {
			columns = table.ColumnOrder
		}
	}

	return project(rows, columns), nil
}

// project builds result rows keyed by unqualified column name. A qualified
// projection falls back to the unqualified slot when the row carries no
// qualified key, so plain tables answer qualified selects too.
func project(rows []*core.Row, columns []string) QueryResult {
	resultColumns := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, column := range columns {
		name := unqualify(column)
		if !seen[name] {
			seen[name] = true
			resultColumns = append(resultColumns, name)
		}
	}

	resultRows := make([]map[string]core.Value, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]core.Value, len(resultColumns))
		for _, column := range columns {
			out[unqualify(column)] = lookupColumn(row, column)
		}
		resultRows = append(resultRows, out)
	}

	return QueryResult{
		Columns:  resultColumns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}
}

func unqualify(column string) string {
	if i := strings.IndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}
	return column
}

// lookupColumn resolves a possibly qualified column against a row, trying the
// qualified key first and falling back to the bare name.
func lookupColumn(row *core.Row, column string) core.Value {
	if value, ok := row.Data[column]; ok {
		return value
	}
	return row.Get(unqualify(column))
}

// joinedColumns reconstructs the column set of a merged row in deterministic
// order: each table's columns qualified, with the bare name claimed by the
// first table to use it.
func (engine *Engine) joinedColumns(base *op.Table, joins []sql.JoinClause) []string {
	var columns []string
	seen := make(map[string]bool)

	add := func(tableName string, order []string) {
		for _, column := range order {
			columns = append(columns, tableName+"."+column)
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}

	add(base.Name, base.ColumnOrder)
	for _, join := range joins {
		if joinTable, ok := engine.Database.GetTable(join.Table); ok {
			add(joinTable.Name, joinTable.ColumnOrder)
		}
	}

	return columns
}

// applyJoins folds the join clauses left to right with a nested-loop join.
// Merged rows carry every column twice, qualified and bare; on a bare-name
// collision the table merged last wins.
func (engine *Engine) applyJoins(base *op.Table, rows []*core.Row, joins []sql.JoinClause) ([]*core.Row, error) {
	current := rows
	merged := false

	for _, join := range joins {
		joinTable, err := engine.table(join.Table)
		if err != nil {
			return nil, err
		}

		probeLeft, probeRight := resolveJoinColumns(join)
		joinRows := joinTable.Scan()
		var joined []*core.Row

		switch join.Type {
		case "INNER":
			for _, leftRow := range current {
				for _, rightRow := range joinRows {
					if core.Equal(leftRow.Get(probeLeft), rightRow.Get(probeRight)) {
						joined = append(joined, mergeRows(leftRow, merged, base, rightRow, joinTable))
					}
				}
			}

		case "LEFT":
			for _, leftRow := range current {
				matched := false
				for _, rightRow := range joinRows {
					if core.Equal(leftRow.Get(probeLeft), rightRow.Get(probeRight)) {
						joined = append(joined, mergeRows(leftRow, merged, base, rightRow, joinTable))
						matched = true
					}
				}
				if !matched {
					joined = append(joined, padRight(leftRow, merged, base, joinTable))
				}
			}

		case "RIGHT":
			// A right join is a left join with the sides swapped: every row
			// of the join table survives, unmatched ones padded with NULLs.
			for _, rightRow := range joinRows {
				matched := false
				for _, leftRow := range current {
					if core.Equal(leftRow.Get(probeLeft), rightRow.Get(probeRight)) {
						joined = append(joined, mergeRows(leftRow, merged, base, rightRow, joinTable))
						matched = true
					}
				}
				if !matched {
					joined = append(joined, padLeft(rightRow, joinTable, base))
				}
			}

		default:
			return nil, core.NewExecutionError("unsupported join type '%s'", join.Type)
		}

		current = joined
		merged = true
	}

	return current, nil
}

// resolveJoinColumns strips table qualifiers from the ON operands and swaps
// them when the left operand names the join table, so the left probe always
// reads from the accumulated rows and the right probe from the join table.
func resolveJoinColumns(join sql.JoinClause) (string, string) {
	leftTable, leftColumn := splitQualified(join.LeftCol)
	rightTable, rightColumn := splitQualified(join.RightCol)

	if leftTable == join.Table && rightTable != join.Table {
		return rightColumn, leftColumn
	}
	return leftColumn, rightColumn
}

func splitQualified(column string) (string, string) {
	if i := strings.IndexByte(column, '.'); i >= 0 {
		return column[:i], column[i+1:]
	}
	return "", column
}

func mergeRows(leftRow *core.Row, leftMerged bool, base *op.Table, rightRow *core.Row, joinTable *op.Table) *core.Row {
	data := make(map[string]core.Value, len(leftRow.Data)+2*len(joinTable.ColumnOrder))

	if leftMerged {
		for k, v := range leftRow.Data {
			data[k] = v
		}
	} else {
		for _, column := range base.ColumnOrder {
			value := leftRow.Get(column)
			data[base.Name+"."+column] = value
			data[column] = value
		}
	}

	for _, column := range joinTable.ColumnOrder {
		value := rightRow.Get(column)
		data[joinTable.Name+"."+column] = value
		data[column] = value
	}

	return core.NewRow(data, leftRow.RowID)
}

// padRight keeps an unmatched left row, adding NULL under the join table's
// qualified column names.
func padRight(leftRow *core.Row, leftMerged bool, base *op.Table, joinTable *op.Table) *core.Row {
	data := make(map[string]core.Value, len(leftRow.Data)+len(joinTable.ColumnOrder))

	if leftMerged {
		for k, v := range leftRow.Data {
			data[k] = v
		}
	} else {
		for _, column := range base.ColumnOrder {
			value := leftRow.Get(column)
			data[base.Name+"."+column] = value
			data[column] = value
		}
	}

	for _, column := range joinTable.ColumnOrder {
		data[joinTable.Name+"."+column] = core.Null()
	}

	return core.NewRow(data, leftRow.RowID)
}

// padLeft keeps an unmatched join-table row, adding NULL under the base
// table's qualified column names.
func padLeft(rightRow *core.Row, joinTable *op.Table, base *op.Table) *core.Row {
	data := make(map[string]core.Value, 2*len(joinTable.ColumnOrder)+len(base.ColumnOrder))

	for _, column := range joinTable.ColumnOrder {
		value := rightRow.Get(column)
		data[joinTable.Name+"."+column] = value
		data[column] = value
	}

	for _, column := range base.ColumnOrder {
		data[base.Name+"."+column] = core.Null()
	}

	return core.NewRow(data, rightRow.RowID)
}

// sortRows orders rows by one column, stable so equal keys keep their scan
// order. NULL sorts as the empty string, which places it first ascending and
// last descending.
func sortRows(rows []*core.Row, orderBy *sql.OrderByClause) {
	key := func(row *core.Row) core.Value {
		value := lookupColumn(row, orderBy.Column)
		if value.IsNull() {
			return core.NewText("")
		}
		return value
	}

	less := func(a, b core.Value) bool {
		if cmp, ok := core.Compare(a, b); ok {
			return cmp < 0
		}
		// Text meets a non-text key only through the NULL sentinel, which
		// sorts before every other value.
		return a.Type == core.TextValue && b.Type != core.TextValue
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if orderBy.Descending {
			return less(key(rows[j]), key(rows[i]))
		}
		return less(key(rows[i]), key(rows[j]))
	})
}

// evaluateCondition walks the WHERE tree. Both sides of a logical node are
// always evaluated; there is no short-circuiting.
func evaluateCondition(row *core.Row, condition sql.Condition) (bool, error) {
	switch c := condition.(type) {
	case sql.LogicalCondition:
		left, err := evaluateCondition(row, c.Left)
		if err != nil {
			return false, err
		}
		right, err := evaluateCondition(row, c.Right)
		if err != nil {
			return false, err
		}
		if c.Operator == sql.LogicalAnd {
			return left && right, nil
		}
		return left || right, nil

	case sql.Comparison:
		return evaluateComparison(row, c), nil
	}

	return false, core.NewExecutionError("unsupported condition")
}

func evaluateComparison(row *core.Row, c sql.Comparison) bool {
	value := lookupColumn(row, c.Column)

	switch c.Operator {
	case sql.EqualsOperator:
		return core.Equal(value, c.Value)
	case sql.NotEqualsOperator:
		return !core.Equal(value, c.Value)
	}

	// Ordering operators never match NULL on either side.
	if value.IsNull() || c.Value.IsNull() {
		return false
	}

	cmp, ok := core.Compare(value, c.Value)
	if !ok {
		return false
	}

	switch c.Operator {
	case sql.LessThanOperator:
		return cmp < 0
	case sql.GreaterThanOperator:
		return cmp > 0
	case sql.LessThanOrEqualOperator:
		return cmp <= 0
	case sql.GreaterThanOrEqualOperator:
		return cmp >= 0
	}
	return false
}

func (engine *Engine) executeInsert(stmt sql.InsertStatement) (QueryResult, error) {
	table, err := engine.table(stmt.Table)
	if err != nil {
		return QueryResult{}, err
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		if len(stmt.Values) != len(table.ColumnOrder) {
			return QueryResult{}, core.NewExecutionError(
				"value count %d does not match table column count %d", len(stmt.Values), len(table.ColumnOrder))
		}
		columns = table.ColumnOrder
	} else if len(columns) != len(stmt.Values) {
		return QueryResult{}, core.NewExecutionError(
			"column count %d does not match value count %d", len(columns), len(stmt.Values))
	}

	data := make(map[string]core.Value, len(columns))
	for i, column := range columns {
		data[column] = stmt.Values[i]
	}

	row, err := table.Insert(data)
	if err != nil {
		return QueryResult{}, err
	}

	if err := engine.Database.Save(); err != nil {
		return QueryResult{}, err
	}

	return QueryResult{Message: fmt.Sprintf("Inserted 1 row (row_id=%d)", row.RowID)}, nil
}

// executeUpdate applies changes row by row. There is no statement-level
// atomicity: a constraint failure part way through leaves earlier rows
// updated in memory and nothing saved.
func (engine *Engine) executeUpdate(stmt sql.UpdateStatement) (QueryResult, error) {
	table, err := engine.table(stmt.Table)
	if err != nil {
		return QueryResult{}, err
	}

	updates := make(map[string]core.Value, len(stmt.Sets))
	for _, set := range stmt.Sets {
		updates[set.Column] = set.Value
	}

	slots, err := matchSlots(table, stmt.Where)
	if err != nil {
		return QueryResult{}, err
	}

	for _, slot := range slots {
		if _, err := table.Update(slot, updates); err != nil {
			return QueryResult{}, err
		}
	}

	if err := engine.Database.Save(); err != nil {
		return QueryResult{}, err
	}

	return QueryResult{Message: fmt.Sprintf("Updated %d row(s)", len(slots))}, nil
}

func (engine *Engine) executeDelete(stmt sql.DeleteStatement) (QueryResult, error) {
	table, err := engine.table(stmt.Table)
	if err != nil {
		return QueryResult{}, err
	}

	slots, err := matchSlots(table, stmt.Where)
	if err != nil {
		return QueryResult{}, err
	}

	for _, slot := range slots {
		if err := table.Delete(slot); err != nil {
			return QueryResult{}, err
		}
	}

	if err := engine.Database.Save(); err != nil {
		return QueryResult{}, err
	}

	return QueryResult{Message: fmt.Sprintf("Deleted %d row(s)", len(slots))}, nil
}

// matchSlots collects the slots of live rows matching the condition. Slots
// stay valid during the mutation loops because deletes tombstone in place.
func matchSlots(table *op.Table, where sql.Condition) ([]int, error) {
	var slots []int
	for slot, row := range table.Rows {
		if row == nil {
			continue
		}
		if where != nil {
			keep, err := evaluateCondition(row, where)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (engine *Engine) executeCreateTable(stmt sql.CreateTableStatement) (QueryResult, error) {
	if _, err := engine.Database.CreateTable(stmt.Table, stmt.Columns); err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Message: fmt.Sprintf("Created table '%s'", stmt.Table)}, nil
}

func (engine *Engine) executeCreateIndex(stmt sql.CreateIndexStatement) (QueryResult, error) {
	table, err := engine.table(stmt.Table)
	if err != nil {
		return QueryResult{}, err
	}

	if err := table.CreateIndex(stmt.Column, op.BTreeIndexKind); err != nil {
		return QueryResult{}, err
	}

	if err := engine.Database.Save(); err != nil {
		return QueryResult{}, err
	}

	return QueryResult{Message: fmt.Sprintf("Created index '%s' on %s(%s)", stmt.Name, stmt.Table, stmt.Column)}, nil
}

func (engine *Engine) executeDropTable(stmt sql.DropTableStatement) (QueryResult, error) {
	if err := engine.Database.DropTable(stmt.Table); err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Message: fmt.Sprintf("Dropped table '%s'", stmt.Table)}, nil
}
