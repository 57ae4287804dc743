package clausewitz

import (
	"context"

	"github.com/galemark/clausewitz/clauerr"
	"github.com/galemark/clausewitz/lexer"
)

// Parser is a filtered recursive-descent parser over a lazy token
// sequence. It is single-threaded and cooperative: no suspension
// points, no shared mutable state. Create one per document; it is
// not safe to reuse or share across goroutines, though separate Parser
// instances may run concurrently with no coordination needed.
type Parser struct {
	lex *lexer.Lexer
	ctx context.Context
}

// Parse converts Clausewitz-format text into a Value tree, applying
// filter to decide which keys are kept. Pass FilterAll() to request
// everything. ctx is checked for cancellation once per token-dispatch
// iteration; the parse is otherwise synchronous.
// A nil ctx is treated as context.Background().
func Parse(ctx context.Context, text string, filter Filter) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &Parser{lex: lexer.New(text), ctx: ctx}
	return p.parseBlock(filter, true)
}

// member identity is tracked via an index into fields so repeated keys
// can be told apart from a first sighting in O(1).
type blockBuilder struct {
	fields []member
	index  map[string]int
	multi  map[string][]Value
	items  []Value
}

func newBlockBuilder() *blockBuilder {
	return &blockBuilder{index: map[string]int{}, multi: map[string][]Value{}}
}

// commit applies scalar coercion and then routes v to the array slot,
// the duplicate side-channel, or the primary map, per whether key is
// array-typed under filter.
func (b *blockBuilder) commit(key string, v Value, filter Filter) {
	v = parseScalar(v)

	if isKeyArray(key, filter) {
		elems := asArrayElements(v)
		if idx, ok := b.index[key]; ok {
			existing, _ := b.fields[idx].val.AsArray()
			b.fields[idx].val = Array(append(append([]Value{}, existing...), elems...))
			return
		}
		b.index[key] = len(b.fields)
		b.fields = append(b.fields, member{key: key, val: Array(elems)})
		return
	}

	if _, ok := b.index[key]; ok {
		b.multi[key] = append(b.multi[key], v)
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, member{key: key, val: v})
}

// finalize resolves the block's shape: empty map and items pick array
// or object by filter, items-only is an array, fields-only is an
// object, and both populated is a mixed-container error for the caller
// to raise.
func (b *blockBuilder) finalize(filter Filter) (Value, error) {
	switch {
	case len(b.fields) == 0 && len(b.items) == 0:
		if isArrayFilter(filter) {
			return Array(nil), nil
		}
		return newObject(), nil
	case len(b.fields) == 0:
		coerced := make([]Value, len(b.items))
		for i, it := range b.items {
			coerced[i] = parseScalar(it)
		}
		return Array(coerced), nil
	case len(b.items) == 0:
		result := Value{kind: KindObject, fields: b.fields}
		if len(b.multi) > 0 {
			mk := newObject()
			for k, vs := range b.multi {
				mk.set(k, Array(vs))
			}
			result.set("$multiKeys", mk)
		}
		result.dropNulls()
		return result, nil
	default:
		return Value{}, nil // not reached: parseBlock raises MixedContainer before calling finalize
	}
}

// parseBlock implements the token dispatch state machine. root is true
// only for the implicit top-level block; everywhere else, running out
// of input before a matching '}' is a fatal UnexpectedEOF.
func (p *Parser) parseBlock(filter Filter, root bool) (Value, error) {
	b := newBlockBuilder()

	var key string
	haveKey := false
	var pendingVal Value
	haveVal := false
	assigning := false

	tok, err := p.lex.Next()
	if err != nil {
		return Value{}, lexErr(err)
	}

	for tok.Type != lexer.TokenClose && tok.Type != lexer.TokenEOF {
		if err := p.ctx.Err(); err != nil {
			return Value{}, err
		}

		switch tok.Type {
		case lexer.TokenText, lexer.TokenString:
			s := tok.Lexeme
			if assigning {
				pendingVal = String(s)
				haveVal = true
				assigning = false
			} else {
				switch {
				case haveKey && haveVal:
					b.commit(key, pendingVal, filter)
					haveVal = false
				case haveKey:
					b.items = append(b.items, String(key))
				}
				key = s
				haveKey = true
			}

		case lexer.TokenEquals:
			if !haveKey {
				return Value{}, unexpectedTokenErr(tok, "unexpected '='")
			}
			if haveVal {
				// A second '=' arrived while a value was still pending:
				// "k1 =" had no real RHS (k1 becomes Null, dropped at
				// finalization) and the word we tentatively captured as
				// its value was actually the start of "k2 = ...".
				b.commit(key, Null, filter)
				key, _ = pendingVal.AsString()
				haveVal = false
			}
			if !isKeyIncluded(key, filter) {
				haveKey = false
				skipped, present, serr := p.skipValue()
				if serr != nil {
					return Value{}, serr
				}
				tok, err = p.lex.Next()
				if err != nil {
					return Value{}, lexErr(err)
				}
				if present && tok.Type == lexer.TokenEquals {
					key = skipped
					haveKey = true
				}
				continue
			}
			assigning = true

		case lexer.TokenOpen:
			if assigning {
				// nextFilter returns the raw Array[sub] node, unwrapped
				// when the recursive block looks up its own keys
				// (filter.go's unwrapArrayContext) but still
				// Array-shaped for that block's own empty-block check.
				sub := nextFilter(key, filter)
				result, perr := p.parseBlock(sub, false)
				if perr != nil {
					return Value{}, perr
				}
				b.commit(key, result, filter)
				haveKey = false
				assigning = false
			} else {
				switch {
				case haveKey && haveVal:
					b.commit(key, pendingVal, filter)
					haveVal = false
				case haveKey:
					b.items = append(b.items, String(key))
				}
				haveKey = false
				result, perr := p.parseBlock(nextFilterArray(filter), false)
				if perr != nil {
					return Value{}, perr
				}
				b.items = append(b.items, result)
			}

		case lexer.TokenComment:
			// ignored

		case lexer.TokenClose, lexer.TokenEOF:
			// unreachable: excluded by the loop condition
		}

		tok, err = p.lex.Next()
		if err != nil {
			return Value{}, lexErr(err)
		}
	}

	if tok.Type == lexer.TokenEOF && !root {
		return Value{}, unexpectedEOFErr(tok, "input ended inside a block")
	}

	switch {
	case haveKey && haveVal:
		b.commit(key, pendingVal, filter)
	case haveKey && !assigning:
		b.items = append(b.items, String(key))
	case haveKey && assigning:
		b.commit(key, Null, filter)
	}

	if len(b.fields) > 0 && len(b.items) > 0 {
		return Value{}, mixedContainerErr(tok, "block contains both bare items and key=value pairs")
	}
	return b.finalize(filter)
}

// skipValue consumes one RHS without constructing a Value. It returns
// the lexeme of a single bare word (present = true) when the skipped
// RHS was a scalar, or ("", false, nil) when a balanced `{ ... }` block
// was skipped.
func (p *Parser) skipValue() (string, bool, error) {
	depth := 0
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return "", false, lexErr(err)
		}
		switch tok.Type {
		case lexer.TokenText, lexer.TokenString:
			if depth == 0 {
				return tok.Lexeme, true, nil
			}
		case lexer.TokenEquals:
			if depth == 0 {
				return "", false, unexpectedTokenErr(tok, "unexpected '=' while skipping a value")
			}
		case lexer.TokenOpen:
			depth++
		case lexer.TokenClose:
			if depth == 0 {
				return "", false, unexpectedTokenErr(tok, "unexpected '}' while skipping a value")
			}
			if depth == 1 {
				return "", false, nil
			}
			depth--
		case lexer.TokenComment:
			// ignored
		case lexer.TokenEOF:
			return "", false, unexpectedEOFErr(tok, "input ended while skipping a value")
		}
	}
}

func locOf(tok lexer.Token) clauerr.SourceLocation {
	return clauerr.SourceLocation{Line: tok.Line, Column: tok.Column, Offset: tok.Start}
}

func lexErr(err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return clauerr.Lexf(clauerr.SourceLocation{Line: le.Line, Column: le.Column, Offset: le.Offset}, "%s", le.Message)
	}
	return err
}

func unexpectedTokenErr(tok lexer.Token, format string) error {
	return clauerr.UnexpectedTokenf(locOf(tok), "%s", format)
}

func mixedContainerErr(tok lexer.Token, format string) error {
	return clauerr.MixedContainerf(locOf(tok), "%s", format)
}

func unexpectedEOFErr(tok lexer.Token, format string) error {
	return clauerr.UnexpectedEOFf(locOf(tok), "%s", format)
}

// asArrayElements returns v's own elements if it is already an Array,
// or the single-element slice [v] otherwise: scalars become
// single-element arrays, existing arrays pass through unchanged.
func asArrayElements(v Value) []Value {
	if items, ok := v.AsArray(); ok {
		out := make([]Value, len(items))
		copy(out, items)
		return out
	}
	return []Value{v}
}
