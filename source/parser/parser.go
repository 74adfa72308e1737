package parser

import (
	"fmt"
	"strconv"

	"github.com/tim-hardcastle/compute/source/lexer"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
	"github.com/tim-hardcastle/compute/source/token"
	"github.com/tim-hardcastle/compute/source/values"
)

// The parser produces the flat form the evaluator works on. A statement is a sequence of
// values: either a single statement value (a declaration, condition, loop, return or break)
// or the tokens of an expression, which are operands alternating with Operation tokens and
// which the evaluator folds from left to right. There is no operator precedence except that
// '&&' binds more tightly than '||': the right-hand side of each is gathered into an And or
// an Or so that it need only be evaluated if it can change the result.
//
// Sequences are built by appending to nil slices, so that empty ones are nil.

// The names which, followed by a '.', begin a namespaced function call rather than a member
// access.
var Namespaces = map[string]bool{"io": true, "os": true, "time": true, "math": true, "sql": true}

type Parser struct {
	toks       []token.Token
	pos        int
	curToken   token.Token
	peekToken  token.Token
	namespaces map[string]bool
}

func New(toks []token.Token) *Parser {
	p := &Parser{toks: toks, namespaces: Namespaces, pos: -1}
	p.NextToken()
	return p
}

// ParseCode parses a sequence of statements, as given to the REPL or to 'executeline'.
func ParseCode(text string) ([][]values.Value, error) {
	return ParseCodeFrom("REPL input", text)
}

func ParseCodeFrom(source, text string) ([][]values.Value, error) {
	toks, err := lexer.Tokenize(source, text)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	var result [][]values.Value
	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		result = append(result, stmt)
	}
	if settings.SHOW_PARSER {
		printGroups(result)
	}
	return result, nil
}

// ParseFunctions parses the function definitions which make up a preprocessed file.
func ParseFunctions(text string) (values.FunctionTable, error) {
	return ParseFunctionsFrom("", text)
}

func ParseFunctionsFrom(source, text string) (values.FunctionTable, error) {
	toks, err := lexer.Tokenize(source, text)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	table := values.FunctionTable{}
	seen := map[string]bool{}
	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.FUNC) {
			return nil, p.Throw("parse/toplevel", p.curToken.Literal)
		}
		nameTok := p.curToken
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		if seen[fn.Name] {
			return nil, report.CreateErr("parse/func/dup", &nameTok, fn.Name)
		}
		seen[fn.Name] = true
		if settings.SHOW_PARSER {
			fmt.Println("func", fn.Name, fn.Params)
			printGroups(fn.Body)
		}
		table = append(table, fn)
	}
	return table, nil
}

func (p *Parser) NextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.curToken = p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.peekToken = p.toks[p.pos+1]
	} else {
		p.peekToken = p.curToken
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// Checks that the current token is of the given type and moves past it.
func (p *Parser) expect(t token.TokenType, description string) error {
	if !p.curTokenIs(t) {
		return p.expected(description)
	}
	p.NextToken()
	return nil
}

func (p *Parser) expected(description string) error {
	if p.curTokenIs(token.EOF) {
		return p.Throw("parse/eof", description)
	}
	return p.Throw("parse/expected", description, p.curToken.Literal)
}

func (p *Parser) Throw(errorID string, args ...any) error {
	tok := p.curToken
	return report.CreateErr(errorID, &tok, args...)
}

func (p *Parser) parseFunction() (values.Function, error) {
	p.NextToken()
	if !p.curTokenIs(token.IDENT) {
		return values.Function{}, p.expected("the name of a function")
	}
	fn := values.Function{Name: p.curToken.Literal}
	p.NextToken()
	if err := p.expect(token.LPAREN, "'('"); err != nil {
		return fn, err
	}
	for !p.curTokenIs(token.RPAREN) {
		if len(fn.Params) > 0 {
			if err := p.expect(token.COMMA, "',' or ')'"); err != nil {
				return fn, err
			}
		}
		if !p.curTokenIs(token.IDENT) {
			return fn, p.expected("the name of a parameter")
		}
		fn.Params = append(fn.Params, p.curToken.Literal)
		p.NextToken()
	}
	p.NextToken()
	body, err := p.parseBlock()
	fn.Body = body
	return fn, err
}

func (p *Parser) parseBlock() ([][]values.Value, error) {
	if err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	var result [][]values.Value
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return nil, p.expected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		result = append(result, stmt)
	}
	p.NextToken()
	return result, nil
}

func (p *Parser) parseStatement() ([]values.Value, error) {
	switch p.curToken.Type {
	case token.LET:
		p.NextToken()
		if !p.curTokenIs(token.IDENT) {
			return nil, p.expected("the name of a variable")
		}
		return p.parseAssignment(false)
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignment(true)
		}
	case token.IF:
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		return []values.Value{cond}, nil
	case token.ELSE:
		return nil, p.Throw("parse/else")
	case token.WHILE:
		p.NextToken()
		guard, err := p.parseExpression("a condition")
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return []values.Value{values.While{Guard: guard, Body: body}}, nil
	case token.FOR:
		p.NextToken()
		if !p.curTokenIs(token.IDENT) {
			return nil, p.expected("the name of a loop variable")
		}
		name := p.curToken.Literal
		p.NextToken()
		if err := p.expect(token.IN, "'in'"); err != nil {
			return nil, err
		}
		iterable, err := p.parseExpression("something to loop over")
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return []values.Value{values.Loop{Name: name, Iterable: iterable, Body: body}}, nil
	case token.RETURN:
		p.NextToken()
		var expr []values.Value
		if !p.curTokenIs(token.SEMICOLON) {
			var err error
			if expr, err = p.parseExpression("a value to return"); err != nil {
				return nil, err
			}
		}
		if err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return []values.Value{values.FunctionReturn{Expr: expr}}, nil
	case token.BREAK:
		p.NextToken()
		if err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return []values.Value{values.Break{}}, nil
	case token.FUNC:
		return nil, p.expected("a statement")
	}
	expr, err := p.parseExpression("a statement")
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return expr, nil
}

// We arrive here on the name of the variable.
func (p *Parser) parseAssignment(redeclare bool) ([]values.Value, error) {
	name := p.curToken.Literal
	p.NextToken()
	if err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression("a value to assign")
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return []values.Value{values.VariableDeclaration{Name: name, Expr: expr, Redeclare: redeclare}}, nil
}

func (p *Parser) parseCondition() (values.Condition, error) {
	p.NextToken()
	guard, err := p.parseExpression("a condition")
	if err != nil {
		return values.Condition{}, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return values.Condition{}, err
	}
	cond := values.Condition{Guard: guard, Then: then}
	for p.curTokenIs(token.ELSE) {
		p.NextToken()
		var branch values.ElseBranch
		if p.curTokenIs(token.IF) {
			p.NextToken()
			if branch.Guard, err = p.parseExpression("a condition"); err != nil {
				return cond, err
			}
		}
		if branch.Body, err = p.parseBlock(); err != nil {
			return cond, err
		}
		cond.Else = append(cond.Else, branch)
		if branch.Guard == nil {
			break
		}
	}
	return cond, nil
}

func (p *Parser) parseExpression(description string) ([]values.Value, error) {
	result, err := p.parseConjunction(description)
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(token.OR) {
		p.NextToken()
		rhs, err := p.parseConjunction("a value after '||'")
		if err != nil {
			return nil, err
		}
		result = append(result, values.Or{Operands: rhs})
	}
	return result, nil
}

func (p *Parser) parseConjunction(description string) ([]values.Value, error) {
	result, err := p.parseArithmetic(description)
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(token.AND) {
		p.NextToken()
		rhs, err := p.parseArithmetic("a value after '&&'")
		if err != nil {
			return nil, err
		}
		result = append(result, values.And{Operands: rhs})
	}
	return result, nil
}

var operators = map[token.TokenType]values.Operator{
	token.PLUS:     values.OpAdd,
	token.MINUS:    values.OpSub,
	token.ASTERISK: values.OpMultiply,
	token.SLASH:    values.OpDivide,
	token.PERCENT:  values.OpModulo,
	token.CARET:    values.OpPower,
	token.EQ:       values.OpEqual,
	token.NOT_EQ:   values.OpNotEqual,
	token.LT:       values.OpLess,
	token.LT_EQ:    values.OpLessEqual,
	token.GT:       values.OpGreater,
	token.GT_EQ:    values.OpGreaterEqual,
}

func (p *Parser) parseArithmetic(description string) ([]values.Value, error) {
	operand, err := p.parseOperand(description)
	if err != nil {
		return nil, err
	}
	result := []values.Value{operand}
	for token.TokenTypeIsOperator(p.curToken.Type) {
		result = append(result, values.Operation{Op: operators[p.curToken.Type]})
		p.NextToken()
		operand, err := p.parseOperand("a value after " + result[len(result)-1].(values.Operation).Op.Symbol())
		if err != nil {
			return nil, err
		}
		result = append(result, operand)
	}
	return result, nil
}

func (p *Parser) parseOperand(description string) (values.Value, error) {
	var operand values.Value
	switch p.curToken.Type {
	case token.MINUS:
		p.NextToken()
		switch p.curToken.Type {
		case token.INT, token.FLOAT:
			p.curToken.Literal = "-" + p.curToken.Literal
			return p.parseOperand(description)
		}
		inner, err := p.parseOperand(description)
		if err != nil {
			return nil, err
		}
		return values.Priority{Expr: []values.Value{values.Integer(0), values.Operation{Op: values.OpSub}, inner}}, nil
	case token.INT:
		i, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			return nil, p.Throw("lex/number", p.curToken.Literal)
		}
		operand = values.Integer(i)
		p.NextToken()
	case token.FLOAT:
		f, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			return nil, p.Throw("lex/number", p.curToken.Literal)
		}
		operand = values.Float(f)
		p.NextToken()
	case token.STRING:
		operand = values.String(p.curToken.Literal)
		p.NextToken()
	case token.TRUE:
		operand = values.TRUE
		p.NextToken()
	case token.FALSE:
		operand = values.FALSE
		p.NextToken()
	case token.NULL:
		operand = values.NULL
		p.NextToken()
	case token.IDENT:
		var err error
		if operand, err = p.parseIdentifier(); err != nil {
			return nil, err
		}
	case token.LPAREN:
		p.NextToken()
		if p.curTokenIs(token.RPAREN) {
			return nil, p.Throw("parse/empty", "()")
		}
		expr, err := p.parseExpression("a value")
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		operand = values.Priority{Expr: expr}
	case token.LBRACK:
		arr, err := p.parseArrayLiteral()
		if err != nil {
			return nil, err
		}
		operand = arr
	default:
		return nil, p.expected(description)
	}
	return p.parsePostfixes(operand)
}

func (p *Parser) parseIdentifier() (values.Value, error) {
	name := p.curToken.Literal
	p.NextToken()
	if p.curTokenIs(token.LPAREN) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return values.FunctionCall{Name: name, Args: args}, nil
	}
	if !p.namespaces[name] || !p.curTokenIs(token.DOT) {
		return values.VariableIdentifier{Name: name}, nil
	}
	path := []string{name}
	for {
		p.NextToken()
		if !p.curTokenIs(token.IDENT) {
			return nil, p.expected("a function in namespace " + name)
		}
		name := p.curToken.Literal
		p.NextToken()
		switch p.curToken.Type {
		case token.DOT:
			path = append(path, name)
		case token.LPAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return values.NamespaceFunctionCall{Namespace: path, Name: name, Args: args}, nil
		default:
			return nil, p.expected("'(' after " + name)
		}
	}
}

// Index brackets and '.' members following an operand. A member is applied to what precedes
// it by the evaluator, so the operand and its members are kept together in a Priority; index
// groups turn the operand into a suite.
func (p *Parser) parsePostfixes(operand values.Value) (values.Value, error) {
	for {
		switch p.curToken.Type {
		case token.LBRACK:
			index, err := p.parseArrayLiteral()
			if err != nil {
				return nil, err
			}
			if suite, ok := operand.(values.Array); ok && suite.IsSuite {
				suite.Elements = append(suite.Elements, index)
				operand = suite
			} else {
				operand = values.Array{Elements: []values.Value{operand, index}, IsSuite: true}
			}
		case token.DOT:
			p.NextToken()
			if !p.curTokenIs(token.IDENT) {
				return nil, p.expected("the name of a member")
			}
			name := p.curToken.Literal
			p.NextToken()
			var member values.Value = values.Property{Name: name}
			if p.curTokenIs(token.LPAREN) {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				member = values.PropertyFunction{Name: name, Args: args}
			}
			operand = values.Priority{Expr: []values.Value{operand, member}}
		default:
			return operand, nil
		}
	}
}

// We arrive here on the '['.
func (p *Parser) parseArrayLiteral() (values.Array, error) {
	p.NextToken()
	arr := values.Array{IsParsed: true}
	for !p.curTokenIs(token.RBRACK) {
		if len(arr.Elements) > 0 {
			if err := p.expect(token.COMMA, "',' or ']'"); err != nil {
				return arr, err
			}
		}
		expr, err := p.parseExpression("a value")
		if err != nil {
			return arr, err
		}
		if len(expr) == 1 {
			arr.Elements = append(arr.Elements, expr[0])
		} else {
			arr.Elements = append(arr.Elements, values.Wrap{Inner: expr})
		}
	}
	p.NextToken()
	return arr, nil
}

// We arrive here on the '('. The arguments are flattened into one sequence with a Separator
// between each of them.
func (p *Parser) parseArgs() ([]values.Value, error) {
	p.NextToken()
	var args []values.Value
	first := true
	for !p.curTokenIs(token.RPAREN) {
		if !first {
			if err := p.expect(token.COMMA, "',' or ')'"); err != nil {
				return nil, err
			}
			args = append(args, values.Separator{})
		}
		first = false
		expr, err := p.parseExpression("an argument")
		if err != nil {
			return nil, err
		}
		args = append(args, expr...)
	}
	p.NextToken()
	return args, nil
}

func printGroups(groups [][]values.Value) {
	for _, group := range groups {
		for _, v := range group {
			fmt.Print(values.Printable(v), " ")
		}
		fmt.Println()
	}
}
