package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/pseudomuto/rowbinary/pkg/utils"
)

// DefaultMaxDepth bounds how deeply types may nest.
const DefaultMaxDepth = 255

// defaultStopWords end the type part of a column declaration. The rest of the column, up to the
// next top-level comma, is discarded unparsed.
var defaultStopWords = []string{"alias", "codec", "default", "materialized", "ttl"}

type (
	// Options configures a Parser. Zero values select the package defaults.
	Options struct {
		// Types resolves type names, defaults to catalog.DefaultTypes.
		Types *catalog.TypeCatalog
		// Functions resolves aggregate functions, defaults to catalog.DefaultFunctions.
		Functions *catalog.FunctionCatalog
		// Timezone is assigned to DateTime types declared without one, defaults to UTC.
		Timezone *time.Location
		// MaxDepth bounds type nesting, including array depth. Defaults to DefaultMaxDepth.
		MaxDepth int
		// StopWords are appended to the built-in alias/codec/default/materialized/ttl list.
		StopWords []string
	}

	// Parser turns type declarations into ColumnType trees. It holds no per-call state and is
	// safe for concurrent use.
	Parser struct {
		types     *catalog.TypeCatalog
		functions *catalog.FunctionCatalog
		timezone  *time.Location
		maxDepth  int
		stopWords map[string]bool
	}

	// state is the cursor of a single Parse call.
	state struct {
		*Parser
		input  string
		tokens []token
		pos    int
		depth  int
	}
)

var defaultParser = New(Options{})

// New returns a Parser configured by opts.
func New(opts Options) *Parser {
	p := &Parser{
		types:     opts.Types,
		functions: opts.Functions,
		timezone:  opts.Timezone,
		maxDepth:  opts.MaxDepth,
		stopWords: make(map[string]bool),
	}

	if p.types == nil {
		p.types = catalog.DefaultTypes
	}
	if p.functions == nil {
		p.functions = catalog.DefaultFunctions
	}
	if p.timezone == nil {
		p.timezone = time.UTC
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}

	for _, w := range append(defaultStopWords, opts.StopWords...) {
		p.stopWords[strings.ToLower(w)] = true
	}

	return p
}

// ParseColumns parses a comma separated list of "name type" declarations using the default parser.
func ParseColumns(input string) ([]*ColumnType, error) {
	return defaultParser.ParseColumns(input)
}

// ParseType parses a single anonymous type declaration using the default parser.
func ParseType(input string) (*ColumnType, error) {
	return defaultParser.ParseType(input)
}

// ParseColumns parses a comma separated list of "name type" declarations. Any error aborts the
// whole list.
//
//	cols, err := p.ParseColumns("id UInt64, tags Array(String), note String DEFAULT ''")
func (p *Parser) ParseColumns(input string) ([]*ColumnType, error) {
	s, err := p.newState(input, 0)
	if err != nil {
		return nil, err
	}

	cols, err := s.columnList()
	if err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, s.errorf(ErrSyntax, "unexpected %q after column list", s.peek().value)
	}

	return cols, nil
}

// ParseType parses a single anonymous type declaration such as "Array(Nullable(UInt8))".
func (p *Parser) ParseType(input string) (*ColumnType, error) {
	s, err := p.newState(input, 0)
	if err != nil {
		return nil, err
	}

	ct, err := s.typeDecl()
	if err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, s.errorf(ErrSyntax, "unexpected %q after type", s.peek().value)
	}

	return ct, finalize(ct, p)
}

// ParseColumnAt parses one "name type" declaration starting at byte offset in input and returns
// it with the offset immediately past the text it consumed. A separating comma is not consumed.
func (p *Parser) ParseColumnAt(input string, offset int) (*ColumnType, int, error) {
	s, err := p.newState(input, offset)
	if err != nil {
		return nil, offset, err
	}

	ct, end, err := s.column()
	if err != nil {
		return nil, offset, err
	}
	if err := finalize(ct, p); err != nil {
		return nil, offset, err
	}

	return ct, end, nil
}

func (p *Parser) newState(input string, offset int) (*state, error) {
	if offset < 0 || offset > len(input) {
		return nil, &Error{Kind: ErrSyntax, Input: input, Offset: offset, Msg: "offset out of range"}
	}

	tokens, err := tokenize(input)
	if err != nil {
		return nil, &Error{Kind: ErrSyntax, Input: input, Offset: offset, Msg: err.Error()}
	}

	s := &state{Parser: p, input: input, tokens: tokens}
	for s.pos < len(tokens) && tokens[s.pos].start < offset {
		s.pos++
	}

	return s, nil
}

func (s *state) eof() bool {
	return s.pos >= len(s.tokens)
}

func (s *state) peek() token {
	return s.peekAt(0)
}

func (s *state) peekAt(n int) token {
	if s.pos+n >= len(s.tokens) {
		return token{start: len(s.input), end: len(s.input)}
	}

	return s.tokens[s.pos+n]
}

func (s *state) next() token {
	t := s.peek()
	if !s.eof() {
		s.pos++
	}

	return t
}

// lastEnd is the end offset of the most recently consumed token.
func (s *state) lastEnd() int {
	if s.pos == 0 {
		return 0
	}

	return s.tokens[s.pos-1].end
}

func (s *state) expectPunct(value string) error {
	if !s.peek().isPunct(value) {
		return s.errorf(ErrSyntax, "expected %q but found %s", value, s.describe(s.peek()))
	}

	s.next()
	return nil
}

func (s *state) describe(t token) string {
	if t.value == "" {
		return "end of input"
	}

	return strconv.Quote(t.value)
}

func (s *state) errorf(kind error, format string, args ...any) error {
	return s.errorAt(s.peek().start, kind, format, args...)
}

func (s *state) errorAt(offset int, kind error, format string, args ...any) error {
	return &Error{Kind: kind, Input: s.input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (s *state) keyword(t token, word string) bool {
	return t.typ == tokIdent && strings.EqualFold(t.value, word)
}

func (s *state) isStopWord(t token) bool {
	return t.typ == tokIdent && s.stopWords[strings.ToLower(t.value)]
}

// columnList parses column (',' column)* and finalizes every column.
func (s *state) columnList() ([]*ColumnType, error) {
	var cols []*ColumnType

	for {
		ct, _, err := s.column()
		if err != nil {
			return nil, err
		}
		if err := finalize(ct, s.Parser); err != nil {
			return nil, err
		}

		cols = append(cols, ct)
		if !s.peek().isPunct(",") {
			return cols, nil
		}
		s.next()
	}
}

// column parses name type-decl and returns the offset just past everything it consumed,
// discarded clauses included.
func (s *state) column() (*ColumnType, int, error) {
	nameTok := s.peek()
	if !nameTok.isName() {
		return nil, 0, s.errorf(ErrSyntax, "expected column name but found %s", s.describe(nameTok))
	}
	s.next()

	ct, err := s.typeDecl()
	if err != nil {
		return nil, 0, err
	}

	ct.name = unquoteName(nameTok)
	return ct, s.lastEnd(), nil
}

// typeDecl parses modifier* base-type trailer*.
func (s *state) typeDecl() (*ColumnType, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.maxDepth {
		return nil, s.errorf(ErrSyntax, "type nesting exceeds %d levels", s.maxDepth)
	}

	start := s.peek()
	if start.typ != tokIdent {
		return nil, s.errorf(ErrSyntax, "expected type but found %s", s.describe(start))
	}

	id, err := s.types.Resolve(start.value)
	if err != nil {
		return nil, s.errorf(ErrUnknownType, "%q", start.value)
	}
	s.next()

	var ct *ColumnType
	switch id {
	case catalog.Nullable, catalog.LowCardinality:
		ct, err = s.modifier(id, start)
	case catalog.Array, catalog.Map, catalog.Tuple:
		ct, err = s.structural(id, start)
	case catalog.Nested:
		ct, err = s.nested(start)
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		ct, err = s.aggregate(id, start)
	default:
		ct, err = s.primitive(id, start)
	}
	if err != nil {
		return nil, err
	}

	if err := s.trailer(ct); err != nil {
		return nil, err
	}

	return ct, nil
}

func (s *state) modifier(id catalog.TypeID, start token) (*ColumnType, error) {
	if err := s.expectPunct("("); err != nil {
		return nil, err
	}

	ct, err := s.typeDecl()
	if err != nil {
		return nil, err
	}

	if err := s.expectPunct(")"); err != nil {
		return nil, err
	}

	if id == catalog.Nullable {
		if ct.nullable {
			return nil, s.errorAt(start.start, ErrNullabilityConflict, "nullable type declared nullable again")
		}
		ct.nullable = true
	} else {
		ct.lowCardinality = true
	}

	ct.offset = start.start
	ct.original = s.input[ct.offset:s.lastEnd()]
	return ct, nil
}

// trailer consumes an optional NULL / NOT NULL marker and an optional stop-word clause.
func (s *state) trailer(ct *ColumnType) error {
	t := s.peek()

	switch {
	case s.keyword(t, "null"):
		if ct.nullable {
			return s.errorf(ErrNullabilityConflict, "NULL marker on a Nullable type")
		}
		s.next()
		ct.nullable = true
		ct.original = s.input[ct.offset:s.lastEnd()]
	case s.keyword(t, "not") && s.keyword(s.peekAt(1), "null"):
		if ct.nullable {
			return s.errorf(ErrNullabilityConflict, "NOT NULL marker on a Nullable type")
		}
		s.next()
		s.next()
		ct.original = s.input[ct.offset:s.lastEnd()]
	}

	if s.isStopWord(s.peek()) {
		s.skipClause()
	}

	return nil
}

// skipClause discards tokens up to the next comma or closing bracket at the current nesting level.
func (s *state) skipClause() {
	depth := 0
	for !s.eof() {
		t := s.peek()
		switch {
		case t.opens():
			depth++
		case t.closes():
			if depth == 0 {
				return
			}
			depth--
		case t.isPunct(","):
			if depth == 0 {
				return
			}
		}
		s.next()
	}
}

// structural parses Array(T), Map(K, V) and Tuple(T1, ...).
func (s *state) structural(id catalog.TypeID, start token) (*ColumnType, error) {
	if err := s.expectPunct("("); err != nil {
		return nil, err
	}

	var children []*ColumnType
	for !s.peek().isPunct(")") {
		var (
			child *ColumnType
			err   error
		)

		if id == catalog.Tuple && s.namedElement() {
			child, _, err = s.column()
		} else {
			child, err = s.typeDecl()
		}
		if err != nil {
			return nil, err
		}

		children = append(children, child)
		if !s.peek().isPunct(",") {
			break
		}
		s.next()
		if s.peek().isPunct(")") {
			return nil, s.errorf(ErrSyntax, "expected a type after ','")
		}
	}

	if err := s.expectPunct(")"); err != nil {
		return nil, err
	}

	switch {
	case id == catalog.Array && len(children) != 1:
		return nil, s.errorAt(start.start, ErrArity, "Array expects 1 nested type, got %d", len(children))
	case id == catalog.Map && len(children) != 2:
		return nil, s.errorAt(start.start, ErrArity, "Map expects 2 nested types, got %d", len(children))
	case id == catalog.Tuple && len(children) == 0:
		return nil, s.errorAt(start.start, ErrArity, "Tuple expects at least 1 nested type")
	}

	return s.node(id, start, children), nil
}

// namedElement reports whether the next tuple element starts with an element name.
func (s *state) namedElement() bool {
	t, next := s.peek(), s.peekAt(1)
	if t.typ == tokBacktick {
		return true
	}

	return t.typ == tokIdent && next.typ == tokIdent &&
		!s.keyword(next, "null") && !s.keyword(next, "not") && !s.isStopWord(next)
}

func (s *state) nested(start token) (*ColumnType, error) {
	if err := s.expectPunct("("); err != nil {
		return nil, err
	}

	if s.peek().isPunct(")") {
		return nil, s.errorAt(start.start, ErrArity, "Nested expects at least 1 column")
	}

	var children []*ColumnType
	for {
		child, _, err := s.column()
		if err != nil {
			return nil, err
		}

		children = append(children, child)
		if !s.peek().isPunct(",") {
			break
		}
		s.next()
	}

	if err := s.expectPunct(")"); err != nil {
		return nil, err
	}

	return s.node(catalog.Nested, start, children), nil
}

// aggregate parses (version ',')? func-call (',' type-decl)+.
func (s *state) aggregate(id catalog.TypeID, start token) (*ColumnType, error) {
	if err := s.expectPunct("("); err != nil {
		return nil, err
	}

	version := 0
	if t := s.peek(); t.typ == tokNumber && s.peekAt(1).isPunct(",") {
		v, err := strconv.Atoi(t.value)
		if err != nil || v < 0 {
			return nil, s.errorf(ErrInvalidParameter, "invalid aggregate function version %q", t.value)
		}
		version = v
		s.next()
		s.next()
	}

	fnTok := s.peek()
	if fnTok.typ != tokIdent {
		return nil, s.errorf(ErrSyntax, "expected aggregate function but found %s", s.describe(fnTok))
	}
	s.next()

	fn, err := s.functions.ResolveCombined(fnTok.value)
	if err != nil {
		return nil, s.errorAt(fnTok.start, ErrUnknownFunction, "%q", fnTok.value)
	}

	var fnParams []Parameter
	if s.peek().isPunct("(") {
		if fnParams, err = s.parameters(); err != nil {
			return nil, err
		}
	}

	var children []*ColumnType
	for s.peek().isPunct(",") {
		s.next()

		child, err := s.typeDecl()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if err := s.expectPunct(")"); err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, s.errorAt(start.start, ErrArity, "%s expects at least 1 nested type", id)
	}
	if !fn.AcceptsArgs(len(children)) {
		return nil, s.errorAt(start.start, ErrArity, "%s accepts at most %d arguments, got %d", fn.Name, fn.MaxArgs, len(children))
	}

	ct := s.node(id, start, children)
	ct.function = &fn
	ct.functionName = fnTok.value
	ct.functionParams = fnParams
	ct.functionVersion = version
	return ct, nil
}

func (s *state) primitive(id catalog.TypeID, start token) (*ColumnType, error) {
	var params []Parameter
	if s.peek().isPunct("(") {
		var err error
		if params, err = s.parameters(); err != nil {
			return nil, err
		}
	}

	ct := s.node(id, start, nil)
	ct.params = params
	return ct, nil
}

func (s *state) node(id catalog.TypeID, start token, children []*ColumnType) *ColumnType {
	return &ColumnType{
		typeName: start.value,
		typ:      id,
		children: children,
		offset:   start.start,
		original: s.input[start.start:s.lastEnd()],
	}
}

// parameters parses '(' param (',' param)* ')', allowing an empty list.
func (s *state) parameters() ([]Parameter, error) {
	open := s.next()

	params := []Parameter{}
	if s.peek().isPunct(")") {
		s.next()
		return params, nil
	}

	for {
		p, err := s.parameter()
		if err != nil {
			return nil, err
		}
		params = append(params, p)

		if s.peek().isPunct(",") {
			s.next()
			continue
		}
		if s.peek().isPunct(")") {
			s.next()
			return params, nil
		}

		return nil, s.errorAt(open.start, ErrSyntax, "unterminated parameter list")
	}
}

// parameter reads one balanced run of tokens and classifies it.
func (s *state) parameter() (Parameter, error) {
	first := s.pos
	depth := 0

	for !s.eof() {
		t := s.peek()
		if depth == 0 && (t.isPunct(",") || t.isPunct(")")) {
			break
		}
		if t.opens() {
			depth++
		}
		if t.closes() {
			depth--
		}
		s.next()
	}

	if s.eof() {
		return Parameter{}, s.errorf(ErrSyntax, "unterminated parameter list")
	}
	if s.pos == first {
		return Parameter{}, s.errorf(ErrSyntax, "empty parameter")
	}

	toks := s.tokens[first:s.pos]
	p := Parameter{Kind: ParamExpr, Text: s.input[toks[0].start:toks[len(toks)-1].end]}

	switch {
	case len(toks) == 1 && toks[0].typ == tokNumber:
		p.Kind, p.Value = ParamNumber, toks[0].value
	case len(toks) == 1 && toks[0].typ == tokString:
		p.Kind, p.Value = ParamString, utils.UnquoteString(toks[0].value)
	case len(toks) == 1 && toks[0].isName():
		p.Kind, p.Value = ParamIdent, unquoteName(toks[0])
	case len(toks) == 3 && toks[0].typ == tokString && toks[1].isPunct("=") && toks[2].typ == tokNumber:
		p.Kind, p.Value, p.Ordinal = ParamEnum, utils.UnquoteString(toks[0].value), toks[2].value
	}

	return p, nil
}

func unquoteName(t token) string {
	if t.typ == tokBacktick {
		return utils.UnquoteIdentifier(t.value)
	}

	return t.value
}
