// Package sql provides SQL lexing and parsing for the engine.
//
// The lexer tokenizes query text and the parser produces statement ASTs by
// recursive descent.
//
// # Lexer Usage
//
//	tokens, err := sql.Tokenize("SELECT * FROM users")
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT * FROM users WHERE id = 1")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Statements
//
//   - SelectStatement (JOIN, WHERE, ORDER BY, LIMIT)
//   - InsertStatement
//   - UpdateStatement
//   - DeleteStatement
//   - CreateTableStatement
//   - CreateIndexStatement
//   - DropTableStatement
//
/// Parsing is pure: the same text always yields a structurally identical AST,
// and no statement touches the database until it is executed.
package sql
