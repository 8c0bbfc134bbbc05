// Package ctx implements the Context: the mapping from names to variables
// (each bound to a Results) and to user-defined functions, plus the
// built-in-shadows-user name resolution order.
//
// ivy's exec.Context (exec/context.go) keeps a stack of frames for
// lexical nesting across function calls; this grammar's user functions
// bind parameters only at the call site, so a single flat scope per
// Context plus an explicit Child() for call-time parameter binding is
// enough — no frame stack required.
package ctx

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/value"
)

// Function is a user-defined function: positional parameter names and a
// body AST, parsed once and shared (not cloned) across calls.
type Function struct {
	Name   string
	Params []string
	Body   ast.Node
}

// Context holds the bindings consulted during evaluation. The zero value
// is a valid, empty Context.
type Context struct {
	parent *Context
	vars   map[string]value.Results
	funcs  map[string]*Function
}

// New returns a new, empty Context.
func New() *Context {
	return &Context{
		vars:  make(map[string]value.Results),
		funcs: make(map[string]*Function),
	}
}

// FromVariables returns a Context seeded with the given variable
// bindings, each a single value (use SetVar for multi-valued bindings).
func FromVariables(vars map[string]value.Value) *Context {
	c := New()
	for name, v := range vars {
		c.vars[name] = value.Results{v}
	}
	return c
}

// FromFunctions returns a Context seeded with the given user functions.
func FromFunctions(funcs []*Function) *Context {
	c := New()
	for _, f := range funcs {
		c.funcs[f.Name] = f
	}
	return c
}

// Combine merges variables and functions from both contexts into a new
// Context; bindings in b take priority over a's on conflict.
func Combine(a, b *Context) *Context {
	c := New()
	for name, r := range a.allVars() {
		c.vars[name] = r
	}
	for name, f := range a.allFuncs() {
		c.funcs[name] = f
	}
	for name, r := range b.allVars() {
		c.vars[name] = r
	}
	for name, f := range b.allFuncs() {
		c.funcs[name] = f
	}
	return c
}

func (c *Context) allVars() map[string]value.Results {
	if c == nil {
		return nil
	}
	out := make(map[string]value.Results)
	if c.parent != nil {
		for k, v := range c.parent.allVars() {
			out[k] = v
		}
	}
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

func (c *Context) allFuncs() map[string]*Function {
	if c == nil {
		return nil
	}
	out := make(map[string]*Function)
	if c.parent != nil {
		for k, v := range c.parent.allFuncs() {
			out[k] = v
		}
	}
	for k, v := range c.funcs {
		out[k] = v
	}
	return out
}

// Var returns the Results bound to name, and whether it is bound at all
// (searching this Context, then its parent chain).
func (c *Context) Var(name string) (value.Results, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if r, ok := cur.vars[name]; ok {
			return r, true
		}
	}
	return nil, false
}

// SetVar binds name to r in this Context (not the parent chain).
func (c *Context) SetVar(name string, r value.Results) {
	if c.vars == nil {
		c.vars = make(map[string]value.Results)
	}
	c.vars[name] = r
}

// Func returns the user function named name, and whether it is defined.
func (c *Context) Func(name string) (*Function, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if f, ok := cur.funcs[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// SetFunc defines a user function in this Context.
func (c *Context) SetFunc(f *Function) {
	if c.funcs == nil {
		c.funcs = make(map[string]*Function)
	}
	c.funcs[f.Name] = f
}

// Child returns a new Context that inherits lookups from c (for
// variables not shadowed) but whose own SetVar calls do not affect c.
// Used to bind a user function's parameters, or a D/I bound variable,
// for one evaluation without mutating the caller's Context.
func (c *Context) Child() *Context {
	return &Context{
		parent: c,
		vars:   make(map[string]value.Results),
		funcs:  make(map[string]*Function),
	}
}
