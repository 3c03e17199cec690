package pesadb

import (
	"testing"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/db"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/ps"
)

// TestFunc is the signature for test functions that work with any persistence
type TestFunc func(t *testing.T, engine *db.Engine)

// runWithBothPersistence runs a test function with both memory and file persistence
func runWithBothPersistence(t *testing.T, testFunc TestFunc) {
	t.Run("Memory", func(t *testing.T) {
		persistence, err := ps.NewMemoryPersistence("company")
		if err != nil {
			t.Fatalf("Failed to initialize memory persistence: %v", err)
		}
		instance, err := Open(&persistence)
		if err != nil {
			t.Fatalf("Failed to open instance: %v", err)
		}
		testFunc(t, instance.Engine())
	})

	t.Run("File", func(t *testing.T) {
		persistence, err := ps.NewFilePersistence(t.TempDir(), "company")
		if err != nil {
			t.Fatalf("Failed to initialize file persistence: %v", err)
		}
		instance, err := Open(&persistence)
		if err != nil {
			t.Fatalf("Failed to open instance: %v", err)
		}
		testFunc(t, instance.Engine())
	})
}

func execute(t *testing.T, engine *db.Engine, query string) db.QueryResult {
	t.Helper()
	result, err := engine.Execute(query)
	if err != nil {
		t.Fatalf("Failed to execute %q: %v", query, err)
	}
	return result
}

// TestIntegrationWorkflow exercises a complete workflow: schema, data,
// indexes, joins, mutations.
func TestIntegrationWorkflow(t *testing.T) {
	runWithBothPersistence(t, func(t *testing.T, engine *db.Engine) {
		execute(t, engine, "CREATE TABLE employees (id INT PRIMARY KEY, name VARCHAR(50), department_id INT, salary INT)")
		execute(t, engine, "CREATE TABLE departments (id INT PRIMARY KEY, name VARCHAR(50))")

		execute(t, engine, "INSERT INTO departments VALUES (1, 'Engineering')")
		execute(t, engine, "INSERT INTO departments VALUES (2, 'Sales')")

		employees := []string{
			"INSERT INTO employees VALUES (1, 'Alice', 1, 80000)",
			"INSERT INTO employees VALUES (2, 'Bob', 1, 75000)",
			"INSERT INTO employees VALUES (3, 'Charlie', 2, 60000)",
			"INSERT INTO employees VALUES (4, 'Diana', 2, 65000)",
			"INSERT INTO employees VALUES (5, 'Eve', 1, 90000)",
		}
		for _, query := range employees {
			execute(t, engine, query)
		}

		execute(t, engine, "CREATE INDEX idx_salary ON employees (salary)")

		// Filter, sort, limit.
		result := execute(t, engine, "SELECT name FROM employees WHERE salary >= 65000 ORDER BY salary DESC LIMIT 2")
		if result.RowCount != 2 {
			t.Fatalf("Expected 2 rows, got %d", result.RowCount)
		}
		if result.Rows[0]["name"].Text != "Eve" || result.Rows[1]["name"].Text != "Alice" {
			t.Errorf("Unexpected top earners: %v", result.Rows)
		}

		// Join employees onto their department.
		result = execute(t, engine, "SELECT employees.name, departments.name FROM employees INNER JOIN departments ON employees.department_id = departments.id WHERE departments.name = 'Sales'")
		if result.RowCount != 2 {
			t.Errorf("Expected 2 sales employees, got %d", result.RowCount)
		}

		// Mutate and verify.
		result = execute(t, engine, "UPDATE employees SET salary = 70000 WHERE id = 3")
		if result.Message != "Updated 1 row(s)" {
			t.Errorf("Unexpected message: %q", result.Message)
		}
		execute(t, engine, "DELETE FROM employees WHERE id = 4")

		result = execute(t, engine, "SELECT * FROM employees")
		if result.RowCount != 4 {
			t.Errorf("Expected 4 rows after delete, got %d", result.RowCount)
		}
		result = execute(t, engine, "SELECT salary FROM employees WHERE id = 3")
		if !core.Equal(result.Rows[0]["salary"], core.NewInt(70000)) {
			t.Errorf("Unexpected salary: %v", result.Rows[0]["salary"])
		}
	})
}

// TestIntegrationDurability checks that a second instance over the same
// persistence sees everything the first one committed.
func TestIntegrationDurability(t *testing.T) {
	dir := t.TempDir()

	persistence, err := ps.NewFilePersistence(dir, "company")
	if err != nil {
		t.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance, err := Open(&persistence)
	if err != nil {
		t.Fatalf("Failed to open instance: %v", err)
	}
	engine := instance.Engine()

	execute(t, engine, "CREATE TABLE notes (id INT PRIMARY KEY, body VARCHAR(200))")
	execute(t, engine, "INSERT INTO notes VALUES (1, 'first')")
	execute(t, engine, "INSERT INTO notes VALUES (2, 'second')")
	execute(t, engine, "DELETE FROM notes WHERE id = 1")

	reopenedPersistence, err := ps.NewFilePersistence(dir, "company")
	if err != nil {
		t.Fatalf("Failed to reopen persistence: %v", err)
	}
	reopened, err := Open(&reopenedPersistence)
	if err != nil {
		t.Fatalf("Failed to reopen instance: %v", err)
	}

	result := execute(t, reopened.Engine(), "SELECT body FROM notes")
	if result.RowCount != 1 || result.Rows[0]["body"].Text != "second" {
		t.Errorf("Unexpected rows after reopen: %v", result.Rows)
	}

	// Constraints survive the round trip too.
	if _, err := reopened.Engine().Execute("INSERT INTO notes VALUES (2, 'dup')"); err == nil {
		t.Error("Expected duplicate key rejection after reopen")
	}
}

// TestIntegrationHistory restores an earlier revision through the archive.
func TestIntegrationHistory(t *testing.T) {
	persistence, err := ps.NewMemoryPersistence("company")
	if err != nil {
		t.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance, err := Open(&persistence)
	if err != nil {
		t.Fatalf("Failed to open instance: %v", err)
	}
	engine := instance.Engine()

	execute(t, engine, "CREATE TABLE notes (id INT PRIMARY KEY)")
	execute(t, engine, "INSERT INTO notes VALUES (1)")

	revisions, err := instance.Persistence.Revisions()
	if err != nil {
		t.Fatalf("Failed to list revisions: %v", err)
	}
	target := revisions[0].Id

	execute(t, engine, "INSERT INTO notes VALUES (2)")
	execute(t, engine, "INSERT INTO notes VALUES (3)")

	if err := instance.Database.RestoreRevision(target); err != nil {
		t.Fatalf("Failed to restore revision: %v", err)
	}

	result := execute(t, engine, "SELECT * FROM notes")
	if result.RowCount != 1 {
		t.Errorf("Expected 1 row after restore, got %d", result.RowCount)
	}
}
