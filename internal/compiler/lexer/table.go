package lexer

import "github.com/arnavsurve/minisharp/internal/compiler/token"

type state int

const (
	stStart state = iota
	stDivision
	stLineComment
	stString
	stStringEscape
	stAmpersand
	stPipe
	stEquals
	stNotEquals
	stWord
	stInt
	stInt0x
	stFloat
	stFloatExp
	stFloatExpSign
	stChar

	stateCount
)

const alphabetSize = 128

// action runs for one input byte in one state.
type action func(l *Lexer, ch byte)

// table is the transition table, indexed by [state][byte]. It is built once
// and never modified afterwards.
var table [stateCount][alphabetSize]action

func init() {
	for s := range table {
		fill(s, 0, alphabetSize, skip)
	}
	buildStart()
	buildOperators()
	buildStrings()
	buildInts()
	buildFloats()
	buildChar()
	buildComment()
	buildWord()
}

// --- Actions ---

func skip(*Lexer, byte) {}

func add(l *Lexer, ch byte) {
	l.raw = append(l.raw, ch)
}

func reject(l *Lexer, ch byte) {
	l.raw = append(l.raw, ch)
	l.fault("unexpected character %q", ch)
}

// finish ends the token and hands the current byte back to the source, so
// it starts the next token.
func finish(l *Lexer, _ byte) {
	l.src.Redeliver()
	l.done = true
}

func single(op token.Operator) action {
	return func(l *Lexer, ch byte) {
		l.tok = token.Token{Type: token.TokenOperator, Value: op, Pos: l.here()}
		l.raw = append(l.raw, ch)
		l.done = true
	}
}

// begin enters s and starts a token of type t at the current position.
func begin(s state, t token.TokenType) action {
	return func(l *Lexer, ch byte) {
		l.state = s
		l.tok.Type = t
		l.tok.Pos = l.here()
		l.raw = append(l.raw, ch)
	}
}

// enter moves to s, keeping the token started so far.
func enter(s state, t token.TokenType) action {
	return func(l *Lexer, ch byte) {
		l.state = s
		l.tok.Type = t
		l.raw = append(l.raw, ch)
	}
}

func fill(s int, from, to int, a action) {
	for ch := from; ch < to; ch++ {
		table[s][ch] = a
	}
}

func set(s state, chars string, a action) {
	for i := 0; i < len(chars); i++ {
		table[s][chars[i]] = a
	}
}

func isDigit(ch byte) bool  { return '0' <= ch && ch <= '9' }
func isLetter(ch byte) bool { return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }

// --- Start ---

func buildStart() {
	// whitespace and remaining control bytes are skipped by default
	set(stStart, "#$?@\\^_`", reject)

	set(stStart, "%", single(token.OpRem))
	set(stStart, "(", single(token.OpLParen))
	set(stStart, ")", single(token.OpRParen))
	set(stStart, "*", single(token.OpMul))
	set(stStart, "+", single(token.OpAdd))
	set(stStart, ",", single(token.OpComma))
	set(stStart, "-", single(token.OpSub))
	set(stStart, ".", single(token.OpDot))
	set(stStart, ";", single(token.OpSemicolon))
	set(stStart, ":", single(token.OpColon))
	set(stStart, "<", single(token.OpLt))
	set(stStart, ">", single(token.OpGt))
	set(stStart, "[", single(token.OpLBracket))
	set(stStart, "]", single(token.OpRBracket))
	set(stStart, "{", single(token.OpLBrace))
	set(stStart, "}", single(token.OpRBrace))
	set(stStart, "~", single(token.OpBitNot))

	set(stStart, "/", pending(stDivision, token.OpDiv))
	set(stStart, "&", pending(stAmpersand, token.OpBitAnd))
	set(stStart, "|", pending(stPipe, token.OpBitOr))
	set(stStart, "=", pending(stEquals, token.OpAssign))
	set(stStart, "!", pending(stNotEquals, token.OpNot))

	set(stStart, `"`, begin(stString, token.TokenString))
	set(stStart, "'", begin(stChar, token.TokenChar))
	set(stStart, "0123456789", begin(stInt, token.TokenInt))
	for ch := 0; ch < alphabetSize; ch++ {
		if isLetter(byte(ch)) {
			table[stStart][ch] = begin(stWord, token.TokenIdent)
		}
	}
}

// pending starts an operator that may still grow into a two-byte one.
func pending(s state, op token.Operator) action {
	start := begin(s, token.TokenOperator)
	return func(l *Lexer, ch byte) {
		start(l, ch)
		l.tok.Value = op
	}
}

// --- Operators ---

func buildOperators() {
	double(stAmpersand, '&', token.OpAnd)
	double(stPipe, '|', token.OpOr)
	double(stEquals, '=', token.OpEq)
	double(stNotEquals, '=', token.OpNe)

	// "/" is division unless a second "/" opens a comment
	fill(int(stDivision), 0, alphabetSize, finish)
	table[stDivision]['/'] = func(l *Lexer, _ byte) {
		l.state = stLineComment
		l.tok = token.Token{}
		l.raw = l.raw[:0]
	}
}

// double completes s as op when second follows; anything else leaves the
// single-byte operator chosen on entry.
func double(s state, second byte, op token.Operator) {
	fill(int(s), 0, alphabetSize, finish)
	table[s][second] = func(l *Lexer, ch byte) {
		l.raw = append(l.raw, ch)
		l.tok.Value = op
		l.done = true
	}
}

// --- Literals ---

func buildStrings() {
	fill(int(stString), 0, alphabetSize, add)
	table[stString][0] = reject
	table[stString]['"'] = func(l *Lexer, ch byte) {
		l.raw = append(l.raw, ch)
		l.done = true
	}
	// a backslash is an ordinary character; nothing enters stStringEscape
	fill(int(stStringEscape), 0, alphabetSize, enter(stString, token.TokenString))
	table[stStringEscape][0] = reject
}

func buildChar() {
	fill(int(stChar), 0, alphabetSize, func(l *Lexer, ch byte) {
		if len(l.raw) > 1 {
			reject(l, ch)
			return
		}
		l.raw = append(l.raw, ch)
	})
	table[stChar][0] = reject
	table[stChar]['\''] = func(l *Lexer, ch byte) {
		if len(l.raw) != 2 {
			reject(l, ch)
			return
		}
		l.raw = append(l.raw, ch)
		l.done = true
	}
}

func buildInts() {
	s := int(stInt)
	fill(s, 0, alphabetSize, finish)
	fill(s, '0', '9'+1, add)
	fill(s, 'A', 'Z'+1, reject)
	fill(s, 'a', 'z'+1, reject)
	set(stInt, "\"#$':?@\\^_`", reject)
	set(stInt, ".", enter(stFloat, token.TokenFloat))
	set(stInt, "xX", func(l *Lexer, ch byte) {
		if len(l.raw) == 1 && l.raw[0] == '0' {
			enter(stInt0x, token.TokenInt)(l, ch)
			return
		}
		reject(l, ch)
	})

	table[stInt0x] = table[stInt]
	fill(int(stInt0x), 'a', 'f'+1, add)
	fill(int(stInt0x), 'A', 'F'+1, add)
	set(stInt0x, ".xX", reject)
}

func buildFloats() {
	table[stFloat] = table[stInt]
	set(stFloat, ".xX", reject)
	set(stFloat, "eE", func(l *Lexer, ch byte) {
		if l.raw[len(l.raw)-1] == '.' {
			reject(l, ch)
			return
		}
		enter(stFloatExp, token.TokenFloat)(l, ch)
	})

	table[stFloatExp] = table[stFloat]
	set(stFloatExp, "eE", reject)
	set(stFloatExp, "+-", func(l *Lexer, ch byte) {
		if last := l.raw[len(l.raw)-1]; last == 'e' || last == 'E' {
			enter(stFloatExpSign, token.TokenFloat)(l, ch)
			return
		}
		finish(l, ch)
	})

	table[stFloatExpSign] = table[stFloatExp]
	set(stFloatExpSign, "+-", func(l *Lexer, ch byte) {
		if isDigit(l.raw[len(l.raw)-1]) {
			finish(l, ch)
			return
		}
		reject(l, ch)
	})
}

// --- Comments and words ---

func buildComment() {
	table[stLineComment]['\n'] = func(l *Lexer, _ byte) {
		l.state = stStart
	}
}

func buildWord() {
	for ch := 0; ch < alphabetSize; ch++ {
		if isLetter(byte(ch)) || isDigit(byte(ch)) {
			table[stWord][ch] = add
		} else {
			table[stWord][ch] = finish
		}
	}
}
