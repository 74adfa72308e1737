package values

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// The cache and the 'hash' builtin need a stable binary form of values and function
// tables. Rather than registering every variant with gob (which refuses structs with no
// exported fields, such as Null), each Value is lowered to a single concrete node type.
//
// Gob drops empty slices, so a round trip turns empty sequences into nil ones. The parser
// builds its sequences by appending to nil slices so that a parsed table and its decoded
// copy are identical.

type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindString
	KindBool
	KindArray
	KindOr
	KindAnd
	KindProperty
	KindPropertyFunction
	KindVariableIdentifier
	KindFunctionCall
	KindNamespaceFunctionCall
	KindFunctionReturn
	KindPriority
	KindOperation
	KindVariableDeclaration
	KindCondition
	KindWhile
	KindLoop
	KindWrap
	KindSeparator
	KindBreak
	KindFile
)

func KindOf(v Value) Kind {
	switch v.(type) {
	case Null:
		return KindNull
	case Integer:
		return KindInteger
	case Float:
		return KindFloat
	case String:
		return KindString
	case Bool:
		return KindBool
	case Array:
		return KindArray
	case Or:
		return KindOr
	case And:
		return KindAnd
	case Property:
		return KindProperty
	case PropertyFunction:
		return KindPropertyFunction
	case VariableIdentifier:
		return KindVariableIdentifier
	case FunctionCall:
		return KindFunctionCall
	case NamespaceFunctionCall:
		return KindNamespaceFunctionCall
	case FunctionReturn:
		return KindFunctionReturn
	case Priority:
		return KindPriority
	case Operation:
		return KindOperation
	case VariableDeclaration:
		return KindVariableDeclaration
	case Condition:
		return KindCondition
	case While:
		return KindWhile
	case Loop:
		return KindLoop
	case Wrap:
		return KindWrap
	case Separator:
		return KindSeparator
	case Break:
		return KindBreak
	case File:
		return KindFile
	}
	panic(fmt.Sprintf("unknown value variant %T", v))
}

type node struct {
	Kind   Kind
	Int    int64
	Float  float64
	Str    string
	Names  []string
	Flag1  bool
	Flag2  bool
	Seq    []node
	Groups [][]node
	Else   []elseNode
}

type elseNode struct {
	Guard []node
	Body  [][]node
}

type functionNode struct {
	Name   string
	Params []string
	Body   [][]node
}

func toNode(v Value) node {
	n := node{Kind: KindOf(v)}
	switch v := v.(type) {
	case Null, Separator, Break:
	case Integer:
		n.Int = int64(v)
	case Float:
		n.Float = float64(v)
	case String:
		n.Str = string(v)
	case Bool:
		n.Flag1 = bool(v)
	case Array:
		n.Seq = toNodes(v.Elements)
		n.Flag1, n.Flag2 = v.IsParsed, v.IsSuite
	case Or:
		n.Seq = toNodes(v.Operands)
	case And:
		n.Seq = toNodes(v.Operands)
	case Property:
		n.Str = v.Name
	case PropertyFunction:
		n.Str = v.Name
		n.Seq = toNodes(v.Args)
	case VariableIdentifier:
		n.Str = v.Name
	case FunctionCall:
		n.Str = v.Name
		n.Seq = toNodes(v.Args)
	case NamespaceFunctionCall:
		n.Str = v.Name
		n.Names = v.Namespace
		n.Seq = toNodes(v.Args)
	case FunctionReturn:
		n.Seq = toNodes(v.Expr)
	case Priority:
		n.Seq = toNodes(v.Expr)
	case Operation:
		n.Int = int64(v.Op)
	case VariableDeclaration:
		n.Str = v.Name
		n.Seq = toNodes(v.Expr)
		n.Flag1 = v.Redeclare
	case Condition:
		n.Seq = toNodes(v.Guard)
		n.Groups = toGroups(v.Then)
		for _, branch := range v.Else {
			n.Else = append(n.Else, elseNode{Guard: toNodes(branch.Guard), Body: toGroups(branch.Body)})
		}
	case While:
		n.Seq = toNodes(v.Guard)
		n.Groups = toGroups(v.Body)
	case Loop:
		n.Str = v.Name
		n.Seq = toNodes(v.Iterable)
		n.Groups = toGroups(v.Body)
	case Wrap:
		n.Seq = toNodes(v.Inner)
	case File:
		n.Str = v.Path
	}
	return n
}

func toNodes(seq []Value) []node {
	if seq == nil {
		return nil
	}
	result := make([]node, len(seq))
	for i, v := range seq {
		result[i] = toNode(v)
	}
	return result
}

func toGroups(groups [][]Value) [][]node {
	if groups == nil {
		return nil
	}
	result := make([][]node, len(groups))
	for i, g := range groups {
		result[i] = toNodes(g)
	}
	return result
}

func fromNode(n node) (Value, error) {
	switch n.Kind {
	case KindNull:
		return Null{}, nil
	case KindInteger:
		return Integer(n.Int), nil
	case KindFloat:
		return Float(n.Float), nil
	case KindString:
		return String(n.Str), nil
	case KindBool:
		return Bool(n.Flag1), nil
	case KindSeparator:
		return Separator{}, nil
	case KindBreak:
		return Break{}, nil
	case KindFile:
		return File{Path: n.Str}, nil
	case KindProperty:
		return Property{Name: n.Str}, nil
	case KindVariableIdentifier:
		return VariableIdentifier{Name: n.Str}, nil
	case KindOperation:
		return Operation{Op: Operator(n.Int)}, nil
	}
	seq, err := fromNodes(n.Seq)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case KindArray:
		return Array{Elements: seq, IsParsed: n.Flag1, IsSuite: n.Flag2}, nil
	case KindOr:
		return Or{Operands: seq}, nil
	case KindAnd:
		return And{Operands: seq}, nil
	case KindPropertyFunction:
		return PropertyFunction{Name: n.Str, Args: seq}, nil
	case KindFunctionCall:
		return FunctionCall{Name: n.Str, Args: seq}, nil
	case KindNamespaceFunctionCall:
		return NamespaceFunctionCall{Namespace: n.Names, Name: n.Str, Args: seq}, nil
	case KindFunctionReturn:
		return FunctionReturn{Expr: seq}, nil
	case KindPriority:
		return Priority{Expr: seq}, nil
	case KindVariableDeclaration:
		return VariableDeclaration{Name: n.Str, Expr: seq, Redeclare: n.Flag1}, nil
	case KindWrap:
		return Wrap{Inner: seq}, nil
	}
	groups, err := fromGroups(n.Groups)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case KindCondition:
		cond := Condition{Guard: seq, Then: groups}
		for _, e := range n.Else {
			guard, err := fromNodes(e.Guard)
			if err != nil {
				return nil, err
			}
			body, err := fromGroups(e.Body)
			if err != nil {
				return nil, err
			}
			cond.Else = append(cond.Else, ElseBranch{Guard: guard, Body: body})
		}
		return cond, nil
	case KindWhile:
		return While{Guard: seq, Body: groups}, nil
	case KindLoop:
		return Loop{Name: n.Str, Iterable: seq, Body: groups}, nil
	}
	return nil, fmt.Errorf("unknown value kind %d", n.Kind)
}

func fromNodes(ns []node) ([]Value, error) {
	if ns == nil {
		return nil, nil
	}
	result := make([]Value, len(ns))
	for i, n := range ns {
		v, err := fromNode(n)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func fromGroups(gs [][]node) ([][]Value, error) {
	if gs == nil {
		return nil, nil
	}
	result := make([][]Value, len(gs))
	for i, g := range gs {
		seq, err := fromNodes(g)
		if err != nil {
			return nil, err
		}
		result[i] = seq
	}
	return result, nil
}

// EncodeValue gives the binary form of a single value.
func EncodeValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toNode(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeValue(data []byte) (Value, error) {
	var n node
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&n); err != nil {
		return nil, err
	}
	return fromNode(n)
}

// EncodeTable gives the binary form of a function table, as stored in the cache.
func EncodeTable(table FunctionTable) ([]byte, error) {
	fns := make([]functionNode, len(table))
	for i, fn := range table {
		fns[i] = functionNode{Name: fn.Name, Params: fn.Params, Body: toGroups(fn.Body)}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(fns); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeTable(data []byte) (FunctionTable, error) {
	var fns []functionNode
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&fns); err != nil {
		return nil, err
	}
	table := make(FunctionTable, len(fns))
	for i, fn := range fns {
		body, err := fromGroups(fn.Body)
		if err != nil {
			return nil, err
		}
		table[i] = Function{Name: fn.Name, Params: fn.Params, Body: body}
	}
	return table, nil
}
