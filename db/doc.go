// Package db provides the SQL execution engine for pesadb.
//
// Engine parses a statement, runs it against the database, and persists a
// snapshot after every successful mutation. Selects run a fixed pipeline:
// scan, join, filter, sort, limit, project.
//
//	engine := db.NewEngine(database)
//
//	result, err := engine.Execute("CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50))")
//	result, err = engine.Execute("INSERT INTO users VALUES (1, 'alice')")
//	result, err = engine.Execute("SELECT name FROM users WHERE id = 1")
//
//	result.Display(os.Stdout)
//
// Tables can also be exported to and imported from CSV, locally or against
// http(s):// and s3:// targets:
//
//	err = engine.ExportTableCSV("users", "s3://backups/users.csv", &db.S3Config{Region: "eu-west-1"})
//	n, err := engine.ImportTableCSV("users", "seed/users.csv", nil)
package db
