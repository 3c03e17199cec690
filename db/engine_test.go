package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/op"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/ps"
)

func setupTestEngine(t *testing.T) *Engine {
	t.Helper()

	persistence, err := ps.NewMemoryPersistence("testdb")
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	database, err := op.OpenDatabase(&persistence)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	return NewEngine(database)
}

func mustExecute(t *testing.T, engine *Engine, query string) QueryResult {
	t.Helper()
	result, err := engine.Execute(query)
	if err != nil {
		t.Fatalf("Failed to execute %q: %v", query, err)
	}
	return result
}

// setupUsersTable creates a users table and seeds it with three rows.
func setupUsersTable(t *testing.T, engine *Engine) {
	t.Helper()
	mustExecute(t, engine, "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50), age INT)")
	mustExecute(t, engine, "INSERT INTO users VALUES (1, 'alice', 30)")
	mustExecute(t, engine, "INSERT INTO users VALUES (2, 'bob', 25)")
	mustExecute(t, engine, "INSERT INTO users (id, name) VALUES (3, 'carol')")
}

func names(result QueryResult) []string {
	out := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, row["name"].Text)
	}
	return out
}

func TestCreateInsertSelect(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustExecute(t, engine, "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50), age INT)")
	if result.Message != "Created table 'users'" {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	result = mustExecute(t, engine, "INSERT INTO users VALUES (1, 'alice', 30)")
	if result.Message != "Inserted 1 row (row_id=0)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	result = mustExecute(t, engine, "SELECT * FROM users")
	if !reflect.DeepEqual(result.Columns, []string{"id", "name", "age"}) {
		t.Errorf("Unexpected columns: %v", result.Columns)
	}
	if result.RowCount != 1 {
		t.Fatalf("Expected 1 row, got %d", result.RowCount)
	}
	if !core.Equal(result.Rows[0]["id"], core.NewInt(1)) {
		t.Errorf("Unexpected id: %v", result.Rows[0]["id"])
	}

	// Explicit column list projects in the requested order.
	result = mustExecute(t, engine, "SELECT name, id FROM users")
	if !reflect.DeepEqual(result.Columns, []string{"name", "id"}) {
		t.Errorf("Unexpected columns: %v", result.Columns)
	}
}

func TestSelectWhere(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"equals", "SELECT name FROM users WHERE id = 2", []string{"bob"}},
		{"not equals", "SELECT name FROM users WHERE id != 2", []string{"alice", "carol"}},
		{"less than", "SELECT name FROM users WHERE age < 30", []string{"bob"}},
		{"greater or equal", "SELECT name FROM users WHERE age >= 25", []string{"alice", "bob"}},
		{"equals null", "SELECT name FROM users WHERE age = NULL", []string{"carol"}},
		{"ordering skips null", "SELECT name FROM users WHERE age > 0", []string{"alice", "bob"}},
		{"and", "SELECT name FROM users WHERE age > 20 AND age < 28", []string{"bob"}},
		{"or", "SELECT name FROM users WHERE id = 1 OR id = 3", []string{"alice", "carol"}},
		// Logical operators bind left to right with equal precedence, so
		// a OR b AND c reads as (a OR b) AND c.
		{"left associative", "SELECT name FROM users WHERE id = 1 OR id = 2 AND age < 28", []string{"bob"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := mustExecute(t, engine, test.query)
			if got := names(result); !reflect.DeepEqual(got, test.want) {
				t.Errorf("Query %q returned %v, want %v", test.query, got, test.want)
			}
		})
	}
}

func TestOrderByAndLimit(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	ascending := mustExecute(t, engine, "SELECT name FROM users ORDER BY age ASC")
	descending := mustExecute(t, engine, "SELECT name FROM users ORDER BY age DESC")

	// NULL sorts as the empty string, placing carol first ascending.
	if got := names(ascending); !reflect.DeepEqual(got, []string{"carol", "bob", "alice"}) {
		t.Errorf("Ascending order: %v", got)
	}

	// Descending is the exact reverse of ascending.
	asc := names(ascending)
	desc := names(descending)
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("DESC is not the reverse of ASC: %v vs %v", asc, desc)
		}
	}

	limited := mustExecute(t, engine, "SELECT name FROM users ORDER BY age DESC LIMIT 2")
	if got := names(limited); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("Limited order: %v", got)
	}

	// A limit past the row count returns everything.
	if result := mustExecute(t, engine, "SELECT name FROM users LIMIT 99"); result.RowCount != 3 {
		t.Errorf("Expected 3 rows, got %d", result.RowCount)
	}
}

func setupJoinTables(t *testing.T, engine *Engine) {
	t.Helper()
	setupUsersTable(t, engine)
	mustExecute(t, engine, "CREATE TABLE orders (id INT PRIMARY KEY, user_id INT, total FLOAT)")
	mustExecute(t, engine, "INSERT INTO orders VALUES (10, 1, 9.5)")
	mustExecute(t, engine, "INSERT INTO orders VALUES (11, 1, 12.0)")
	mustExecute(t, engine, "INSERT INTO orders VALUES (12, 2, 3.25)")
	mustExecute(t, engine, "INSERT INTO orders VALUES (13, 99, 1.0)")
}

func TestInnerJoin(t *testing.T) {
	engine := setupTestEngine(t)
	setupJoinTables(t, engine)

	result := mustExecute(t, engine,
		"SELECT users.name, orders.total FROM users INNER JOIN orders ON users.id = orders.user_id ORDER BY orders.total ASC")
	if result.RowCount != 3 {
		t.Fatalf("Expected 3 rows, got %d", result.RowCount)
	}
	if got := names(result); !reflect.DeepEqual(got, []string{"bob", "alice", "alice"}) {
		t.Errorf("Unexpected join rows: %v", got)
	}
	if !core.Equal(result.Rows[0]["total"], core.NewFloat(3.25)) {
		t.Errorf("Unexpected total: %v", result.Rows[0]["total"])
	}
}

func TestLeftJoinPadsNulls(t *testing.T) {
	engine := setupTestEngine(t)
	setupJoinTables(t, engine)

	result := mustExecute(t, engine,
		"SELECT users.name, orders.total FROM users LEFT JOIN orders ON users.id = orders.user_id WHERE users.id = 3")
	if result.RowCount != 1 {
		t.Fatalf("Expected 1 row, got %d", result.RowCount)
	}
	if !result.Rows[0]["total"].IsNull() {
		t.Errorf("Expected NULL total for unmatched row, got %v", result.Rows[0]["total"])
	}
}

func TestRightJoinKeepsUnmatchedRows(t *testing.T) {
	engine := setupTestEngine(t)
	setupJoinTables(t, engine)

	result := mustExecute(t, engine,
		"SELECT users.name, orders.id FROM users RIGHT JOIN orders ON users.id = orders.user_id")
	if result.RowCount != 4 {
		t.Fatalf("Expected 4 rows, got %d", result.RowCount)
	}

	// The order with user_id 99 survives with a NULL name.
	nullNames := 0
	for _, row := range result.Rows {
		if row["name"].IsNull() {
			nullNames++
		}
	}
	if nullNames != 1 {
		t.Errorf("Expected exactly 1 padded row, got %d", nullNames)
	}
}

func TestJoinWildcardColumns(t *testing.T) {
	engine := setupTestEngine(t)
	setupJoinTables(t, engine)

	result := mustExecute(t, engine,
		"SELECT * FROM users INNER JOIN orders ON users.id = orders.user_id")
	if result.RowCount != 3 {
		t.Fatalf("Expected 3 rows, got %d", result.RowCount)
	}

	// Both tables declare an id column; the bare slot carries the join
	// table's value while the qualified keys stay distinct inside the row.
	want := []string{"id", "name", "age", "user_id", "total"}
	if !reflect.DeepEqual(result.Columns, want) {
		t.Errorf("Unexpected columns: %v", result.Columns)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	result := mustExecute(t, engine, "UPDATE users SET age = 40 WHERE age < 31")
	if result.Message != "Updated 2 row(s)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if got := mustExecute(t, engine, "SELECT name FROM users WHERE age = 40"); len(got.Rows) != 2 {
		t.Errorf("Expected 2 rows aged 40, got %d", len(got.Rows))
	}

	result = mustExecute(t, engine, "DELETE FROM users WHERE id = 1")
	if result.Message != "Deleted 1 row(s)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if got := mustExecute(t, engine, "SELECT * FROM users"); got.RowCount != 2 {
		t.Errorf("Expected 2 rows after delete, got %d", got.RowCount)
	}

	// Without WHERE, every row goes.
	result = mustExecute(t, engine, "DELETE FROM users")
	if result.Message != "Deleted 2 row(s)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestInsertArityErrors(t *testing.T) {
	engine := setupTestEngine(t)
	mustExecute(t, engine, "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50), age INT)")

	tests := []struct {
		name  string
		query string
	}{
		{"too few positional values", "INSERT INTO users VALUES (1, 'alice')"},
		{"too many positional values", "INSERT INTO users VALUES (1, 'alice', 30, TRUE)"},
		{"column list mismatch", "INSERT INTO users (id, name) VALUES (1)"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := engine.Execute(test.query)
			if err == nil {
				t.Fatal("Expected error")
			}
			var execErr *core.ExecutionError
			if !errors.As(err, &execErr) {
				t.Errorf("Expected ExecutionError, got %T: %v", err, err)
			}
		})
	}
}

func TestConstraintErrorsSurface(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	_, err := engine.Execute("INSERT INTO users VALUES (1, 'dup', 1)")
	if err == nil {
		t.Fatal("Expected duplicate key error")
	}
	var constraintErr *core.ConstraintError
	if !errors.As(err, &constraintErr) {
		t.Errorf("Expected ConstraintError, got %T: %v", err, err)
	}

	// The failed insert left nothing behind.
	if result := mustExecute(t, engine, "SELECT * FROM users"); result.RowCount != 3 {
		t.Errorf("Expected 3 rows, got %d", result.RowCount)
	}
}

func TestUnknownTableAndColumn(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	if _, err := engine.Execute("SELECT * FROM missing"); err == nil {
		t.Error("Expected error for unknown table")
	}
	if _, err := engine.Execute("INSERT INTO users (id, nickname) VALUES (9, 'x')"); err == nil {
		t.Error("Expected error for unknown column")
	}
}

func TestCreateIndexStatement(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	result := mustExecute(t, engine, "CREATE INDEX idx_age ON users (age)")
	if result.Message != "Created index 'idx_age' on users(age)" {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	table, _ := engine.Database.GetTable("users")
	if _, ok := table.Indexes["age"]; !ok {
		t.Error("Expected index on age")
	}

	// Queries answer the same with the index in place.
	result = mustExecute(t, engine, "SELECT name FROM users WHERE age = 25")
	if got := names(result); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Errorf("Unexpected rows with index: %v", got)
	}
}

func TestDropTableStatement(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	result := mustExecute(t, engine, "DROP TABLE users")
	if result.Message != "Dropped table 'users'" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
	if _, err := engine.Execute("SELECT * FROM users"); err == nil {
		t.Error("Expected error selecting dropped table")
	}
}

func TestMutationsPersist(t *testing.T) {
	persistence, err := ps.NewMemoryPersistence("testdb")
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	database, err := op.OpenDatabase(&persistence)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	engine := NewEngine(database)

	mustExecute(t, engine, "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50))")
	mustExecute(t, engine, "INSERT INTO users VALUES (1, 'alice')")
	mustExecute(t, engine, "INSERT INTO users VALUES (2, 'bob')")
	mustExecute(t, engine, "DELETE FROM users WHERE id = 1")

	// A second engine over the same persistence sees the committed state.
	reopened, err := op.OpenDatabase(&persistence)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	result := mustExecute(t, NewEngine(reopened), "SELECT name FROM users")
	if got := names(result); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Errorf("Unexpected rows after reload: %v", got)
	}
}

func TestSyntaxErrorsDoNotExecute(t *testing.T) {
	engine := setupTestEngine(t)
	setupUsersTable(t, engine)

	_, err := engine.Execute("SELEC * FROM users")
	if err == nil {
		t.Fatal("Expected syntax error")
	}
	var syntaxErr *core.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("Expected SyntaxError, got %T: %v", err, err)
	}
}
