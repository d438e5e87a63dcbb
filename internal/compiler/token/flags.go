package token

import (
	"sort"
	"strings"
)

// Keyword is a bit set: every keyword carries its own bit plus the bits of
// the families it belongs to, so Has(KwType) holds for all type keywords.
type Keyword uint32

const (
	KwType   Keyword = 1 << 1
	KwVoid           = 1<<2 | KwType
	KwInt            = 1<<3 | KwType
	KwFloat          = 1<<4 | KwType
	KwChar           = 1<<5 | KwType
	KwString         = 1<<6 | KwType
	KwBool           = 1<<7 | KwType

	KwClass Keyword = 1 << 8

	KwLogic Keyword = 1 << 9 // statements that open a construct
	KwIf            = 1<<10 | KwLogic
	KwFor           = 1<<11 | KwLogic
	KwWhile         = 1<<12 | KwLogic

	KwReturn Keyword = 1 << 13
	KwBreak  Keyword = 1 << 14
	KwElse   Keyword = 1 << 15

	KwModifier Keyword = 1 << 16
	KwPublic           = 1<<17 | KwModifier
	KwStatic           = 1<<18 | KwModifier

	KwNew Keyword = 1 << 19

	KwBoolLiteral Keyword = 1 << 20
	KwTrue                = 1<<21 | KwBoolLiteral
	KwFalse               = 1<<22 | KwBoolLiteral

	KwNull Keyword = 1 << 23
)

// Has reports whether k contains every bit of flag.
func (k Keyword) Has(flag Keyword) bool {
	return flag != 0 && k&flag == flag
}

var keywordNames = map[Keyword]string{
	KwVoid:   "void",
	KwInt:    "int",
	KwFloat:  "float",
	KwChar:   "char",
	KwString: "string",
	KwBool:   "bool",
	KwClass:  "class",
	KwIf:     "if",
	KwFor:    "for",
	KwWhile:  "while",
	KwReturn: "return",
	KwBreak:  "break",
	KwElse:   "else",
	KwPublic: "public",
	KwStatic: "static",
	KwNew:    "new",
	KwTrue:   "true",
	KwFalse:  "false",
	KwNull:   "null",
}

// Keywords returns the reserved words and their values.
func Keywords() map[string]Keyword {
	out := make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		out[name] = kw
	}
	return out
}

func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "keyword?"
}

// Operator follows the same scheme as Keyword: family bits are shared by
// every member, e.g. OpAdd and OpSub both carry OpAdditive and OpUnary.
type Operator uint32

const (
	OpAssign Operator = 1 << 0

	OpAdditive Operator = 1 << 1
	OpUnary    Operator = 1 << 2
	OpAdd               = 1<<3 | OpAdditive | OpUnary
	OpSub               = 1<<4 | OpAdditive | OpUnary

	OpMultiplicative Operator = 1 << 5
	OpMul                     = 1<<6 | OpMultiplicative
	OpDiv                     = 1<<7 | OpMultiplicative
	OpRem                     = 1<<8 | OpMultiplicative

	OpNot    = 1<<9 | OpUnary
	OpBitNot = 1<<10 | OpUnary

	OpAnd    Operator = 1 << 11
	OpBitAnd Operator = 1 << 12
	OpOr     Operator = 1 << 13
	OpBitOr  Operator = 1 << 14

	OpEquality Operator = 1 << 15
	OpEq                = 1<<16 | OpEquality
	OpNe                = 1<<17 | OpEquality

	OpRelational Operator = 1 << 18
	OpLt                  = 1<<19 | OpRelational
	OpGt                  = 1<<20 | OpRelational

	OpPrimary  Operator = 1 << 21
	OpLParen            = 1<<22 | OpPrimary
	OpRParen            = 1<<23 | OpPrimary
	OpLBrace   Operator = 1 << 24
	OpRBrace   Operator = 1 << 25
	OpLBracket          = 1<<26 | OpPrimary
	OpRBracket          = 1<<27 | OpPrimary
	OpDot               = 1<<28 | OpPrimary

	OpComma     Operator = 1 << 29
	OpSemicolon Operator = 1 << 30
	OpColon     Operator = 1 << 31 // base class separator
)

func (o Operator) Has(flag Operator) bool {
	return flag != 0 && o&flag == flag
}

var operatorSymbols = map[Operator]string{
	OpAssign:    "=",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpRem:       "%",
	OpNot:       "!",
	OpBitNot:    "~",
	OpAnd:       "&&",
	OpBitAnd:    "&",
	OpOr:        "||",
	OpBitOr:     "|",
	OpEq:        "==",
	OpNe:        "!=",
	OpLt:        "<",
	OpGt:        ">",
	OpLParen:    "(",
	OpRParen:    ")",
	OpLBrace:    "{",
	OpRBrace:    "}",
	OpLBracket:  "[",
	OpRBracket:  "]",
	OpDot:       ".",
	OpComma:     ",",
	OpSemicolon: ";",
	OpColon:     ":",
}

func (o Operator) String() string {
	if sym, ok := operatorSymbols[o]; ok {
		return sym
	}
	// families have no symbol of their own
	var parts []string
	for op, sym := range operatorSymbols {
		if o.Has(op) {
			parts = append(parts, sym)
		}
	}
	if len(parts) == 0 {
		return "operator?"
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
