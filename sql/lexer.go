package sql

import (
	"strings"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

type TokenType int

const (
	Keyword TokenType = iota
	Identifier
	String
	Number
	Operator
	Punct
	EOF
)

func (tt TokenType) String() string {
	switch tt {
	case Keyword:
		return "Keyword"
	case Identifier:
		return "Identifier"
	case String:
		return "String"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case Punct:
		return "Punct"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

type Token struct {
	Type  TokenType
	Value string
}

func (token Token) String() string {
	if token.Type == EOF {
		return "EOF"
	}
	return token.Type.String() + "(" + token.Value + ")"
}

// keywords is the fixed keyword set. Identifiers matching one of these
// case-insensitively are emitted as Keyword tokens with uppercased text.
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true,
	"INSERT": true, "INTO": true, "VALUES": true,
	"UPDATE": true, "SET": true, "DELETE": true,
	"CREATE": true, "TABLE": true, "DROP": true, "INDEX": true, "ON": true,
	"PRIMARY": true, "KEY": true, "UNIQUE": true, "NOT": true, "NULL": true, "DEFAULT": true,
	"AND": true, "OR": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "OUTER": true,
	"ORDER": true, "BY": true, "ASC": true, "DESC": true, "LIMIT": true,
	"INT": true, "VARCHAR": true, "FLOAT": true, "BOOLEAN": true, "DATETIME": true,
	"TRUE": true, "FALSE": true,
}

// Lexer walks the query text one byte at a time, in the manner of a classic
// hand-rolled SQL lexer.
type Lexer struct {
	query        string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(query string) *Lexer {
	lexer := &Lexer{query: query}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.query) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.query[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.query) {
		return 0
	}
	return lexer.query[lexer.readPosition]
}

// NextToken returns the next token, or a SyntaxError on a character the
// grammar has no use for.
func (lexer *Lexer) NextToken() (Token, error) {
	lexer.skipWhitespaceAndComments()

	switch {
	case lexer.ch == 0:
		return Token{Type: EOF}, nil

	case lexer.ch == '\'' || lexer.ch == '"':
		return Token{Type: String, Value: lexer.readString()}, nil

	case isDigit(lexer.ch) || (lexer.ch == '-' && isDigit(lexer.peekChar())):
		return Token{Type: Number, Value: lexer.readNumber()}, nil

	case isLetter(lexer.ch):
		word := lexer.readIdentifier()
		if keywords[strings.ToUpper(word)] {
			return Token{Type: Keyword, Value: strings.ToUpper(word)}, nil
		}
		return Token{Type: Identifier, Value: word}, nil

	case isOperatorChar(lexer.ch):
		return Token{Type: Operator, Value: lexer.readOperator()}, nil

	case strings.IndexByte("(),;.*", lexer.ch) >= 0:
		token := Token{Type: Punct, Value: string(lexer.ch)}
		lexer.readChar()
		return token, nil

	default:
		return Token{}, core.NewSyntaxError("unexpected character '%c'", lexer.ch)
	}
}

// Tokenize runs the lexer over the whole query.
func Tokenize(query string) ([]Token, error) {
	lexer := NewLexer(query)

	var tokens []Token
	for {
		token, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if token.Type == EOF {
			return tokens, nil
		}
		tokens = append(tokens, token)
	}
}

func (lexer *Lexer) skipWhitespaceAndComments() {
	for {
		for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' {
			lexer.readChar()
		}
		// -- comment runs to end of line
		if lexer.ch == '-' && lexer.peekChar() == '-' {
			for lexer.ch != '\n' && lexer.ch != 0 {
				lexer.readChar()
			}
			continue
		}
		return
	}
}

// readString consumes a quoted literal. A backslash escapes the next
// character verbatim. The closing quote must match the opening one.
func (lexer *Lexer) readString() string {
	quote := lexer.ch
	lexer.readChar()

	var sb strings.Builder
	for lexer.ch != quote && lexer.ch != 0 {
		if lexer.ch == '\\' {
			lexer.readChar()
			if lexer.ch == 0 {
				break
			}
		}
		sb.WriteByte(lexer.ch)
		lexer.readChar()
	}
	lexer.readChar() // closing quote
	return sb.String()
}

// readNumber consumes an optionally negative numeric literal with at most
// one decimal point.
func (lexer *Lexer) readNumber() string {
	position := lexer.position
	if lexer.ch == '-' {
		lexer.readChar()
	}

	seenDot := false
	for isDigit(lexer.ch) || (lexer.ch == '.' && !seenDot) {
		if lexer.ch == '.' {
			seenDot = true
		}
		lexer.readChar()
	}
	return lexer.query[position:lexer.position]
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isLetter(lexer.ch) || isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.query[position:lexer.position]
}

// readOperator consumes =, <, >, ! and the two-character forms <=, >=, !=, <>.
func (lexer *Lexer) readOperator() string {
	first := lexer.ch
	lexer.readChar()

	two := string(first) + string(lexer.ch)
	switch two {
	case "<=", ">=", "!=", "<>":
		lexer.readChar()
		return two
	}
	return string(first)
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!'
}
