// Package compiler builds a schema.Registry into a Program: for every
// registered Message, a tree of closures (fieldValidator) that the
// runtime package's primitives drive directly, with no interpretation
// loop over rule data at validate time. There is no codegen or file
// output step in this module, so "compiled" means "built once, called
// many times," not "written to a .go file."
package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
	"github.com/protoguard/protoguard/wellknown"
)

// Validator is the compiled check tree for one message type: its field
// validators in declaration order, plus one fieldValidator per oneof
// group and message-level cross-field rule, run after the plain fields.
type Validator struct {
	message *schema.Message
	checks  []fieldValidator
}

// run evaluates every compiled check against v, returning true if the
// call added no new violations to ctx.Buffer and did not overflow the
// path buffer. The count-before/count-after comparison is the engine's
// only notion of pass/fail; Overflowed forces false regardless of count,
// since a compromised path means the traversal itself cannot be
// trusted, violation-free or not.
func (val *Validator) run(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) bool {
	before := ctx.Buffer.Count()
	for _, check := range val.checks {
		if ctx.Aborted() {
			break
		}
		check(ctx, v, bridge)
	}
	if ctx.Overflowed() {
		return false
	}
	return ctx.Buffer.Count() == before
}

// Program is a fully compiled Registry: one Validator per message, plus
// the Options it was compiled with.
type Program struct {
	validators map[string]*Validator
	registry   *schema.Registry
	opts       Options
}

// buildCtx carries the state threaded through one Compile call: the
// registry being compiled and the validators map being filled in,
// shared by reference with the finished Program so every fieldValidator
// closure that recurses into a nested message (direct or through a
// oneof) resolves the *Validator by name at run time rather than at
// build time — the map entry exists by the time Validate is ever
// called, so build order never matters and mutual/self recursion
// through pointer-valued or repeated message fields works without the
// compiler tracking a call stack of its own.
type buildCtx struct {
	registry   *schema.Registry
	validators map[string]*Validator
	opts       Options
}

// Validate runs the compiled Validator for messageName against v,
// reporting into buf through a fresh Context seeded with opts.EarlyExit.
// It returns false if buf gained any violations or the path buffer
// overflowed, true otherwise. bridge may be nil if messageName's schema
// declares no streamed-callback fields.
func (p *Program) Validate(messageName string, v *value.Message, buf *runtime.ViolationBuffer, bridge *callback.Bridge) (bool, error) {
	validator, ok := p.validators[messageName]
	if !ok {
		return false, fmt.Errorf("compiler: no compiled validator for message %q", messageName)
	}
	ctx := runtime.NewContext(buf)
	ctx.EarlyExit = p.opts.EarlyExit
	return validator.run(ctx, v, bridge), nil
}

// Options returns the Options p was compiled with, so a caller wiring a
// filter.Spec for one of p's messages can read StackBufferThreshold
// instead of guessing a threshold independently.
func (p *Program) Options() Options {
	return p.opts
}

// Compile builds every registered Message into a Validator. Structural
// cycles through non-pointer (StorageInlineFixed, !Presence) message
// fields are rejected up front, since such a field would need infinite
// inline storage to lay out; cycles that pass only through pointer-
// valued or repeated message fields are permitted; they terminate at
// validate time against real, finite input the same way recursive
// descent over a decoded tree always does.
func Compile(reg *schema.Registry, opts Options) (*Program, error) {
	if err := detectInlineCycles(reg); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = wellknown.SystemClock{}
	}

	bc := &buildCtx{
		registry:   reg,
		validators: make(map[string]*Validator),
		opts:       opts,
	}
	var names []string
	for _, f := range reg.Files() {
		for i := range f.Messages {
			names = append(names, f.Messages[i].Name)
		}
	}
	for _, name := range names {
		msg, _ := reg.Message(name)
		bc.validators[name] = &Validator{message: msg}
	}

	for _, name := range names {
		msg, _ := reg.Message(name)
		checks, err := buildMessageChecks(bc, msg)
		if err != nil {
			return nil, fmt.Errorf("compiler: message %q: %w", name, err)
		}
		bc.validators[name].checks = checks
	}

	return &Program{validators: bc.validators, registry: reg, opts: opts}, nil
}

// buildMessageChecks compiles one Message's plain fields, oneof groups,
// and message-level rules, in that order: plain fields first so a
// mutex/at_least/requires check always evaluates presence after the
// fields it inspects have had their own rules run.
func buildMessageChecks(bc *buildCtx, msg *schema.Message) ([]fieldValidator, error) {
	var checks []fieldValidator

	for i := range msg.Fields {
		f := &msg.Fields[i]
		if f.Label == schema.LabelOneofMember {
			continue
		}
		fv, err := buildFieldValidator(bc, f)
		if err != nil {
			return nil, err
		}
		if fv != nil {
			checks = append(checks, fv)
		}
	}

	for _, o := range msg.Oneofs {
		fv, err := buildOneofCheck(bc, msg, o)
		if err != nil {
			return nil, err
		}
		checks = append(checks, fv)
	}

	msgChecks, err := buildMessageRuleChecks(msg)
	if err != nil {
		return nil, err
	}
	checks = append(checks, msgChecks...)

	return checks, nil
}

// detectInlineCycles walks the graph of StorageInlineFixed, non-Presence
// KindMessage fields across every registered Message and reports an
// error if it finds a cycle. Pointer-valued and repeated message fields
// are excluded from this graph; they are the redesign's escape hatch
// for legitimate recursive schemas (linked lists, trees) and are left
// for validate-time recursion to terminate against finite input.
func detectInlineCycles(reg *schema.Registry) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("compiler: inline message cycle detected: %v -> %s", stack, name)
		}
		state[name] = visiting
		msg, ok := reg.Message(name)
		if ok {
			for i := range msg.Fields {
				f := &msg.Fields[i]
				if f.Kind != schema.KindMessage {
					continue
				}
				if f.Label == schema.LabelRepeated || f.Storage == schema.StoragePointerHeap || f.Presence {
					continue
				}
				if err := visit(f.MessageType, append(stack, name)); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}

	for _, f := range reg.Files() {
		for i := range f.Messages {
			if err := visit(f.Messages[i].Name, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
