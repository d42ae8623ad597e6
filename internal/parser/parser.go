// Package parser builds a Clou ast.Program from a token stream.
//
// The recursive-descent structure (one method per precedence level,
// synchronize on error) is adapted from sam-decook-lox's Parser,
// extended with the productions sam-decook-lox's grammar comment
// promised but never implemented: classes, this/super, indexing,
// array/object literals, and rest/default parameters.
package parser

import (
	"fmt"
	"strconv"

	"clou/internal/ast"
	"clou/internal/cerrors"
	"clou/internal/token"
)

const maxParams = 255

// Parser consumes a Token slice and produces an ast.Program, collecting
// every syntax error instead of stopping at the first one.
type Parser struct {
	toks []token.Token
	pos  int
	errs []error
}

// New creates a Parser over toks (the Lexer's output, including the
// trailing EOF token).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse returns the parsed program and every error collected along the way.
func (p *Parser) Parse() (*ast.Program, []error) {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	return prog, p.errs
}

// ---------------------------------------------------------------------
// Token cursor helpers
// ---------------------------------------------------------------------

func (p *Parser) peek() token.Token  { return p.toks[p.pos] }
func (p *Parser) previous() token.Token {
	return p.toks[p.pos-1]
}
func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(k token.Kind) bool {
	if p.isAtEnd() {
		return k == token.EOF
	}
	return p.peek().Kind == k
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(k token.Kind, message string) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return token.Token{}, &cerrors.ParseError{Tok: p.peek(), Message: message}
}

// errorAt records a syntax error immediately and lets parsing continue
// (used for diagnostics like "too many parameters" that don't abort the
// current production).
func (p *Parser) errorAt(tok token.Token, message string) error {
	err := &cerrors.ParseError{Tok: tok, Message: message}
	p.errs = append(p.errs, err)
	return err
}

// fail builds a syntax error to return up the call stack without
// recording it yet — declaration()'s top-level catch records it once and
// then synchronizes, avoiding a double entry in p.errs.
func (p *Parser) fail(tok token.Token, message string) error {
	return &cerrors.ParseError{Tok: tok, Message: message}
}

// synchronize discards tokens until it reaches what looks like the start
// of the next statement, so one syntax error doesn't cascade into dozens.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUNCTION, token.LET, token.CONST,
			token.FOR, token.IF, token.WHILE, token.RETURN:
			return
		}
		p.advance()
	}
}

// ---------------------------------------------------------------------
// Declarations / statements
// ---------------------------------------------------------------------

func (p *Parser) declaration() ast.Stmt {
	var stmt ast.Stmt
	var err error

	switch {
	case p.match(token.CLASS):
		stmt, err = p.classDecl()
	case p.match(token.FUNCTION):
		stmt, err = p.functionDecl()
	case p.match(token.LET):
		stmt, err = p.varDecl(false)
	case p.match(token.CONST):
		stmt, err = p.varDecl(true)
	default:
		stmt, err = p.statement()
	}

	if err != nil {
		p.errs = append(p.errs, err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) classDecl() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect class name")
	if err != nil {
		return nil, err
	}

	var super *ast.Variable
	if p.match(token.EXTENDS) {
		superName, err := p.consume(token.IDENTIFIER, "Expect superclass name")
		if err != nil {
			return nil, err
		}
		super = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before class body"); err != nil {
		return nil, err
	}

	var methods []ast.Method
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if _, err := p.consume(token.FUNCTION, "Expect method declaration"); err != nil {
			return nil, err
		}
		fn, err := p.functionBody("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, ast.Method{Fn: fn})
	}

	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after class body"); err != nil {
		return nil, err
	}

	return &ast.ClassDecl{Name: name, Superclass: super, Methods: methods}, nil
}

func (p *Parser) functionDecl() (ast.Stmt, error) {
	fn, err := p.functionBody("function")
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Fn: fn}, nil
}

func (p *Parser) functionBody(kind string) (*ast.FunctionExpr, error) {
	keyword := p.previous()
	name, err := p.consume(token.IDENTIFIER, fmt.Sprintf("Expect %s name", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_PAREN, fmt.Sprintf("Expect '(' after %s name", kind)); err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_BRACE, fmt.Sprintf("Expect '{' before %s body", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpr{Keyword: keyword, Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) paramList() ([]ast.Param, error) {
	var params []ast.Param
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxParams {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxParams))
			}
			rest := p.match(token.SPREAD)
			name, err := p.consume(token.IDENTIFIER, "Expect parameter name")
			if err != nil {
				return nil, err
			}
			param := ast.Param{Name: name, Rest: rest}
			if !rest && p.match(token.EQUAL) {
				def, err := p.expression()
				if err != nil {
					return nil, err
				}
				param.Default = def
			}
			params = append(params, param)
			if rest {
				break
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) varDecl(isConst bool) (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.match(token.EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	} else if isConst {
		return nil, p.fail(name, "const declaration requires an initializer")
	}

	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, IsConst: isConst, Init: init}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.LEFT_BRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Stmts: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body}, nil
}

// forStatement desugars `for (init; cond; post) body` into a Block holding
// init followed by a While whose Body appends post — the evaluator never
// sees a dedicated For node.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.LET):
		initializer, err = p.varDecl(false)
		if err != nil {
			return nil, err
		}
	case p.match(token.CONST):
		initializer, err = p.varDecl(true)
		if err != nil {
			return nil, err
		}
	default:
		initializer, err = p.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition"); err != nil {
		return nil, err
	}

	var post ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		post, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if post != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: post}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	loop := ast.Stmt(&ast.While{Condition: condition, Body: body})
	if initializer != nil {
		loop = &ast.Block{Stmts: []ast.Stmt{initializer, loop}}
	}
	return loop, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expr
	var err error
	if !p.check(token.SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr}, nil
}

// ---------------------------------------------------------------------
// Expressions, lowest to highest precedence:
//   assignment -> or -> and -> equality -> comparison -> additive
//   -> multiplicative -> unary -> power (right-assoc) -> call/member/index
//   -> primary
// ---------------------------------------------------------------------

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		case *ast.Index:
			return &ast.IndexAssign{Object: target.Object, Bracket: target.Bracket, Index: target.Index, Value: value}, nil
		default:
			return nil, p.fail(equals, "Invalid assignment target")
		}
	}

	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) additive() (ast.Expr, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.STAR, token.SLASH, token.PERCENT) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.BANG, token.NOT, token.MINUS) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Right: right}, nil
	}
	return p.power()
}

// power is `base ^ exponent`, right-associative: `2 ^ 3 ^ 2 == 2 ^ (3 ^ 2)`.
func (p *Parser) power() (ast.Expr, error) {
	expr, err := p.call()
	if err != nil {
		return nil, err
	}
	if p.match(token.CARET) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Left: expr, Op: op, Right: right}, nil
	}
	return expr, nil
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "Expect property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		case p.match(token.LEFT_BRACKET):
			bracket := p.previous()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RIGHT_BRACKET, "Expect ']' after index"); err != nil {
				return nil, err
			}
			expr = &ast.Index{Object: expr, Bracket: bracket, Index: index}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxParams {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxParams))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}, nil
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}, nil
	case p.match(token.NULL):
		return &ast.Literal{Token: p.previous(), Value: nil}, nil
	case p.match(token.NUMBER):
		tok := p.previous()
		n, err := parseNumber(tok.Literal)
		if err != nil {
			return nil, p.fail(tok, "Invalid number literal")
		}
		return &ast.Literal{Token: tok, Value: n}, nil
	case p.match(token.STRING):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: tok.Literal}, nil
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}, nil
	case p.match(token.SUPER):
		keyword := p.previous()
		if _, err := p.consume(token.DOT, "Expect '.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(token.IDENTIFIER, "Expect superclass method name")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: keyword, Method: method}, nil
	case p.match(token.NEW):
		keyword := p.previous()
		name, err := p.consume(token.IDENTIFIER, "Expect class name after 'new'")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after class name"); err != nil {
			return nil, err
		}
		var args []ast.Expr
		if !p.check(token.RIGHT_PAREN) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after constructor arguments"); err != nil {
			return nil, err
		}
		return &ast.New{Keyword: keyword, ClassName: name, Args: args}, nil
	case p.match(token.FUNCTION):
		return p.functionExprBody()
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expr: expr}, nil
	case p.match(token.LEFT_BRACKET):
		return p.arrayLiteral()
	case p.match(token.LEFT_BRACE):
		return p.objectLiteral()
	default:
		return nil, p.fail(p.peek(), "Expect expression")
	}
}

// functionExprBody parses an anonymous (or named) function expression
// after the leading `function` keyword has already been consumed.
func (p *Parser) functionExprBody() (ast.Expr, error) {
	keyword := p.previous()
	name := ""
	if p.check(token.IDENTIFIER) {
		name = p.advance().Lexeme
	}
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'function'"); err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpr{Keyword: keyword, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) arrayLiteral() (ast.Expr, error) {
	bracket := p.previous()
	var elems []ast.Expr
	if !p.check(token.RIGHT_BRACKET) {
		for {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_BRACKET, "Expect ']' after array elements"); err != nil {
		return nil, err
	}
	return &ast.Array{Bracket: bracket, Elements: elems}, nil
}

func (p *Parser) objectLiteral() (ast.Expr, error) {
	brace := p.previous()
	var entries []ast.ObjectEntry
	if !p.check(token.RIGHT_BRACE) {
		for {
			var key string
			switch {
			case p.check(token.IDENTIFIER), p.check(token.STRING):
				tok := p.advance()
				if tok.Kind == token.STRING {
					key = tok.Literal
				} else {
					key = tok.Lexeme
				}
			default:
				return nil, p.fail(p.peek(), "Expect property name")
			}
			if _, err := p.consume(token.COLON, "Expect ':' after property name"); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after object literal"); err != nil {
		return nil, err
	}
	return &ast.Object{Brace: brace, Entries: entries}, nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
