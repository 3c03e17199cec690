// Package pesadb provides an embeddable relational database engine with a
// SQL surface, typed tables, B-tree and hash indexes, and atomic snapshot
// persistence backed by a Git revision archive.
//
// # Quick Start
//
// Create an in-memory database:
//
//	persistence, _ := ps.NewMemoryPersistence("app")
//	instance, _ := pesadb.Open(&persistence)
//	engine := instance.Engine()
//
//	engine.Execute("CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50), age INT)")
//	engine.Execute("INSERT INTO users (id, name, age) VALUES (1, 'Alice', 30)")
//
//	result, _ := engine.Execute("SELECT * FROM users WHERE age >= 18 ORDER BY name")
//	result.Display(os.Stdout)
//
// For durable storage use ps.NewFilePersistence; every save becomes a
// revision that can be listed and restored.
//
// # Supported SQL
//
// pesadb supports a subset of SQL including:
//   - CREATE/DROP TABLE
//   - CREATE INDEX
//   - INSERT, SELECT, UPDATE, DELETE
//   - WHERE with comparison operators, AND and OR
//   - ORDER BY, LIMIT
//   - JOINs: INNER, LEFT, RIGHT
//   - Column constraints: PRIMARY KEY, UNIQUE, NOT NULL, DEFAULT
package pesadb
