package sql

import (
	"strconv"
	"strings"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// Parser turns query text into a Statement via recursive descent. Each call
// to Parse is independent; the Parser carries no state between statements.
type Parser struct {
	query  string
	tokens []Token
	pos    int
}

func NewParser(query string) *Parser {
	return &Parser{query: query}
}

func (parser *Parser) Parse() (Statement, error) {
	tokens, err := Tokenize(parser.query)
	if err != nil {
		return nil, err
	}
	parser.tokens = tokens
	parser.pos = 0

	if len(tokens) == 0 {
		return nil, core.NewSyntaxError("empty query")
	}

	first := tokens[0]
	if first.Type != Keyword {
		return nil, core.NewSyntaxError("expected statement keyword, got %s", first.Value)
	}

	parser.advance()
	var statement Statement
	switch first.Value {
	case "SELECT":
		statement, err = ParseSelect(parser)
	case "INSERT":
		statement, err = ParseInsert(parser)
	case "UPDATE":
		statement, err = ParseUpdate(parser)
	case "DELETE":
		statement, err = ParseDelete(parser)
	case "CREATE":
		statement, err = ParseCreate(parser)
	case "DROP":
		statement, err = ParseDrop(parser)
	default:
		return nil, core.NewSyntaxError("unsupported statement type %s", first.Value)
	}
	if err != nil {
		return nil, err
	}

	// Optional statement terminator; anything else left over is an error.
	if parser.isPunct(";") {
		parser.advance()
	}
	if token, ok := parser.current(); ok {
		return nil, core.NewSyntaxError("unexpected '%s' after statement", token.Value)
	}

	return statement, nil
}

func (parser *Parser) current() (Token, bool) {
	if parser.pos < len(parser.tokens) {
		return parser.tokens[parser.pos], true
	}
	return Token{Type: EOF}, false
}

func (parser *Parser) advance() {
	parser.pos++
}

// found names the current token for error messages.
func (parser *Parser) found() string {
	token, ok := parser.current()
	if !ok {
		return "end of input"
	}
	return "'" + token.Value + "'"
}

func (parser *Parser) isKeyword(words ...string) bool {
	token, ok := parser.current()
	if !ok || token.Type != Keyword {
		return false
	}
	for _, word := range words {
		if token.Value == word {
			return true
		}
	}
	return false
}

func (parser *Parser) isPunct(symbol string) bool {
	token, ok := parser.current()
	return ok && token.Type == Punct && token.Value == symbol
}

func (parser *Parser) expectKeyword(word string) error {
	if !parser.isKeyword(word) {
		return core.NewSyntaxError("expected %s, got %s", word, parser.found())
	}
	parser.advance()
	return nil
}

func (parser *Parser) expectPunct(symbol string) error {
	if !parser.isPunct(symbol) {
		return core.NewSyntaxError("expected '%s', got %s", symbol, parser.found())
	}
	parser.advance()
	return nil
}

func (parser *Parser) identifier(what string) (string, error) {
	token, ok := parser.current()
	if !ok || token.Type != Identifier {
		return "", core.NewSyntaxError("expected %s, got %s", what, parser.found())
	}
	parser.advance()
	return token.Value, nil
}

// qualifiedName reads an identifier optionally followed by .identifier,
// returning the combined table.column form.
func (parser *Parser) qualifiedName(what string) (string, error) {
	name, err := parser.identifier(what)
	if err != nil {
		return "", err
	}
	if parser.isPunct(".") {
		parser.advance()
		part, err := parser.identifier("column name")
		if err != nil {
			return "", err
		}
		name = name + "." + part
	}
	return name, nil
}

// parseValue interprets the current token as a literal Value and consumes it.
func (parser *Parser) parseValue() (core.Value, error) {
	token, ok := parser.current()
	if !ok {
		return core.Null(), core.NewSyntaxError("expected value, got end of input")
	}

	switch token.Type {
	case String:
		parser.advance()
		return core.NewText(token.Value), nil
	case Number:
		parser.advance()
		if strings.Contains(token.Value, ".") {
			f, err := strconv.ParseFloat(token.Value, 64)
			if err != nil {
				return core.Null(), core.NewSyntaxError("invalid number '%s'", token.Value)
			}
			return core.NewFloat(f), nil
		}
		n, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			return core.Null(), core.NewSyntaxError("invalid number '%s'", token.Value)
		}
		return core.NewInt(n), nil
	case Keyword:
		switch token.Value {
		case "NULL":
			parser.advance()
			return core.Null(), nil
		case "TRUE":
			parser.advance()
			return core.NewBool(true), nil
		case "FALSE":
			parser.advance()
			return core.NewBool(false), nil
		}
	case Identifier:
		// Bare words are accepted as text literals.
		parser.advance()
		return core.NewText(token.Value), nil
	}

	return core.Null(), core.NewSyntaxError("expected value, got %s", parser.found())
}

func ParseSelect(parser *Parser) (Statement, error) {
	var stmt SelectStatement

	if parser.isPunct("*") {
		parser.advance()
	} else {
		for {
			name, err := parser.qualifiedName("column name")
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, name)

			if !parser.isPunct(",") {
				break
			}
			parser.advance()
		}
	}

	if err := parser.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	for {
		token, ok := parser.current()
		if !ok || token.Type != Keyword {
			break
		}

		switch token.Value {
		case "JOIN", "INNER", "LEFT", "RIGHT":
			join, err := ParseJoin(parser)
			if err != nil {
				return nil, err
			}
			stmt.Joins = append(stmt.Joins, join)
		case "WHERE":
			parser.advance()
			where, err := ParseCondition(parser)
			if err != nil {
				return nil, err
			}
			stmt.Where = where
		case "ORDER":
			orderBy, err := ParseOrderBy(parser)
			if err != nil {
				return nil, err
			}
			stmt.OrderBy = &orderBy
		case "LIMIT":
			limit, err := ParseLimit(parser)
			if err != nil {
				return nil, err
			}
			stmt.Limit = limit
		default:
			return stmt, nil
		}
	}

	return stmt, nil
}

func ParseJoin(parser *Parser) (JoinClause, error) {
	join := JoinClause{Type: "INNER"}

	if parser.isKeyword("INNER", "LEFT", "RIGHT") {
		token, _ := parser.current()
		join.Type = token.Value
		parser.advance()
		if parser.isKeyword("OUTER") {
			parser.advance()
		}
	}

	if err := parser.expectKeyword("JOIN"); err != nil {
		return JoinClause{}, err
	}

	table, err := parser.identifier("table name in JOIN")
	if err != nil {
		return JoinClause{}, err
	}
	join.Table = table

	if err := parser.expectKeyword("ON"); err != nil {
		return JoinClause{}, err
	}

	left, err := parser.qualifiedName("column name in JOIN condition")
	if err != nil {
		return JoinClause{}, err
	}
	join.LeftCol = left

	token, ok := parser.current()
	if !ok || token.Type != Operator || token.Value != "=" {
		return JoinClause{}, core.NewSyntaxError("expected '=' in JOIN condition, got %s", parser.found())
	}
	parser.advance()

	right, err := parser.qualifiedName("column name in JOIN condition")
	if err != nil {
		return JoinClause{}, err
	}
	join.RightCol = right

	return join, nil
}

// ParseCondition builds the WHERE tree left-associatively. AND and OR bind
// with equal precedence: a AND b OR c parses as (a AND b) OR c.
func ParseCondition(parser *Parser) (Condition, error) {
	left, err := ParseComparison(parser)
	if err != nil {
		return nil, err
	}

	for parser.isKeyword("AND", "OR") {
		token, _ := parser.current()
		operator := LogicalAnd
		if token.Value == "OR" {
			operator = LogicalOr
		}
		parser.advance()

		right, err := ParseComparison(parser)
		if err != nil {
			return nil, err
		}
		left = LogicalCondition{Operator: operator, Left: left, Right: right}
	}

	return left, nil
}

func ParseComparison(parser *Parser) (Condition, error) {
	column, err := parser.qualifiedName("column name in WHERE clause")
	if err != nil {
		return nil, err
	}

	token, ok := parser.current()
	if !ok || token.Type != Operator {
		return nil, core.NewSyntaxError("expected comparison operator, got %s", parser.found())
	}
	operator, known := compareOperators[token.Value]
	if !known {
		return nil, core.NewSyntaxError("unknown operator '%s'", token.Value)
	}
	parser.advance()

	value, err := parser.parseValue()
	if err != nil {
		return nil, err
	}

	return Comparison{Column: column, Operator: operator, Value: value}, nil
}

func ParseOrderBy(parser *Parser) (OrderByClause, error) {
	if err := parser.expectKeyword("ORDER"); err != nil {
		return OrderByClause{}, err
	}
	if err := parser.expectKeyword("BY"); err != nil {
		return OrderByClause{}, err
	}

	column, err := parser.qualifiedName("column name in ORDER BY")
	if err != nil {
		return OrderByClause{}, err
	}

	clause := OrderByClause{Column: column}
	if parser.isKeyword("ASC", "DESC") {
		token, _ := parser.current()
		clause.Descending = token.Value == "DESC"
		parser.advance()
	}

	return clause, nil
}

func ParseLimit(parser *Parser) (int, error) {
	parser.advance() // LIMIT

	token, ok := parser.current()
	if !ok || token.Type != Number || strings.Contains(token.Value, ".") {
		return 0, core.NewSyntaxError("expected integer after LIMIT, got %s", parser.found())
	}
	parser.advance()

	limit, err := strconv.Atoi(token.Value)
	if err != nil {
		return 0, core.NewSyntaxError("invalid LIMIT '%s'", token.Value)
	}
	return limit, nil
}

func ParseInsert(parser *Parser) (Statement, error) {
	var stmt InsertStatement

	if err := parser.expectKeyword("INTO"); err != nil {
		return nil, err
	}

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if parser.isPunct("(") {
		parser.advance()
		for {
			column, err := parser.identifier("column name")
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, column)

			if parser.isPunct(",") {
				parser.advance()
				continue
			}
			if parser.isPunct(")") {
				parser.advance()
				break
			}
			return nil, core.NewSyntaxError("expected ',' or ')' in column list, got %s", parser.found())
		}
	}

	if err := parser.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := parser.expectPunct("("); err != nil {
		return nil, err
	}

	for {
		value, err := parser.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, value)

		if parser.isPunct(",") {
			parser.advance()
			continue
		}
		if parser.isPunct(")") {
			parser.advance()
			break
		}
		return nil, core.NewSyntaxError("expected ',' or ')' in VALUES, got %s", parser.found())
	}

	return stmt, nil
}

func ParseUpdate(parser *Parser) (Statement, error) {
	var stmt UpdateStatement

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if err := parser.expectKeyword("SET"); err != nil {
		return nil, err
	}

	for {
		column, err := parser.identifier("column name in SET")
		if err != nil {
			return nil, err
		}

		token, ok := parser.current()
		if !ok || token.Type != Operator || token.Value != "=" {
			return nil, core.NewSyntaxError("expected '=' in SET, got %s", parser.found())
		}
		parser.advance()

		value, err := parser.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Sets = append(stmt.Sets, SetClause{Column: column, Value: value})

		if !parser.isPunct(",") {
			break
		}
		parser.advance()
	}

	if parser.isKeyword("WHERE") {
		parser.advance()
		where, err := ParseCondition(parser)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

func ParseDelete(parser *Parser) (Statement, error) {
	var stmt DeleteStatement

	if err := parser.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if parser.isKeyword("WHERE") {
		parser.advance()
		where, err := ParseCondition(parser)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

func ParseCreate(parser *Parser) (Statement, error) {
	switch {
	case parser.isKeyword("TABLE"):
		parser.advance()
		return ParseCreateTable(parser)
	case parser.isKeyword("INDEX"):
		parser.advance()
		return ParseCreateIndex(parser)
	default:
		return nil, core.NewSyntaxError("expected TABLE or INDEX after CREATE, got %s", parser.found())
	}
}

func ParseCreateTable(parser *Parser) (Statement, error) {
	var stmt CreateTableStatement

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if err := parser.expectPunct("("); err != nil {
		return nil, err
	}

	for {
		column, err := ParseColumnDefinition(parser)
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, column)

		if parser.isPunct(",") {
			parser.advance()
			continue
		}
		if parser.isPunct(")") {
			parser.advance()
			break
		}
		return nil, core.NewSyntaxError("expected ',' or ')' in column definition, got %s", parser.found())
	}

	return stmt, nil
}

func ParseColumnDefinition(parser *Parser) (core.Column, error) {
	name, err := parser.identifier("column name")
	if err != nil {
		return core.Column{}, err
	}

	token, ok := parser.current()
	if !ok || token.Type != Keyword {
		return core.Column{}, core.NewSyntaxError("expected column type, got %s", parser.found())
	}
	dataType, known := core.ParseDataType(token.Value)
	if !known {
		return core.Column{}, core.NewSyntaxError("unknown column type '%s'", token.Value)
	}
	parser.advance()

	column := core.Column{Name: name, Type: dataType, Nullable: true}

	// Optional length, as in VARCHAR(100)
	if parser.isPunct("(") {
		parser.advance()
		lengthToken, ok := parser.current()
		if !ok || lengthToken.Type != Number || strings.Contains(lengthToken.Value, ".") {
			return core.Column{}, core.NewSyntaxError("expected integer length, got %s", parser.found())
		}
		parser.advance()
		length, err := strconv.Atoi(lengthToken.Value)
		if err != nil {
			return core.Column{}, core.NewSyntaxError("invalid length '%s'", lengthToken.Value)
		}
		column.Length = length
		if err := parser.expectPunct(")"); err != nil {
			return core.Column{}, err
		}
	}

	// Constraints may appear in any order.
	for {
		token, ok := parser.current()
		if !ok || token.Type != Keyword {
			return column, nil
		}

		switch token.Value {
		case "PRIMARY":
			parser.advance()
			if err := parser.expectKeyword("KEY"); err != nil {
				return core.Column{}, err
			}
			column.PrimaryKey = true
		case "UNIQUE":
			parser.advance()
			column.Unique = true
		case "NOT":
			parser.advance()
			if err := parser.expectKeyword("NULL"); err != nil {
				return core.Column{}, err
			}
			column.Nullable = false
		case "DEFAULT":
			parser.advance()
			value, err := parser.parseValue()
			if err != nil {
				return core.Column{}, err
			}
			column.Default = value
		default:
			return column, nil
		}
	}
}

func ParseCreateIndex(parser *Parser) (Statement, error) {
	var stmt CreateIndexStatement

	name, err := parser.identifier("index name")
	if err != nil {
		return nil, err
	}
	stmt.Name = name

	if err := parser.expectKeyword("ON"); err != nil {
		return nil, err
	}

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if err := parser.expectPunct("("); err != nil {
		return nil, err
	}

	column, err := parser.identifier("column name")
	if err != nil {
		return nil, err
	}
	stmt.Column = column

	if err := parser.expectPunct(")"); err != nil {
		return nil, err
	}

	return stmt, nil
}

func ParseDrop(parser *Parser) (Statement, error) {
	if err := parser.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	table, err := parser.identifier("table name")
	if err != nil {
		return nil, err
	}

	return DropTableStatement{Table: table}, nil
}
