package filter

import (
	"github.com/protoguard/protoguard/schema"
)

// Candidate is one message type a service-derived filter is willing to
// try: its descriptor and the Spec that decodes and validates it. Built
// from a schema.Method's request or response type.
type Candidate struct {
	MessageType string
	Spec        *Spec
}

// Dispatch is the ordered candidate set a multi-type filter tries,
// "first-match-wins, ordered by schema declaration", which is how
// overlapping TCP request/response wire shapes are resolved here.
// Requests and Responses are built once from a
// schema.Service's Methods, in declaration order.
type Dispatch struct {
	Requests  []Candidate
	Responses []Candidate
}

// NewDispatch builds a Dispatch from svc's methods, looking up the Spec
// for each referenced message type through specOf. A method whose
// request or response type has no Spec is skipped for that half of the
// dispatch table — service methods are free to reference message types
// this filter layer was never asked to compile.
func NewDispatch(svc *schema.Service, specOf func(messageType string) (*Spec, bool)) *Dispatch {
	d := &Dispatch{}
	for _, m := range svc.Methods {
		if spec, ok := specOf(m.RequestType); ok {
			d.Requests = append(d.Requests, Candidate{MessageType: m.RequestType, Spec: spec})
		}
		if m.ResponseType == "" {
			continue
		}
		if spec, ok := specOf(m.ResponseType); ok {
			d.Responses = append(d.Responses, Candidate{MessageType: m.ResponseType, Spec: spec})
		}
	}
	return d
}

// candidates returns every type FilterUDP tries: requests then responses,
// declaration order, covering all message types referenced by any
// service method regardless of is_to_server.
func (d *Dispatch) candidates() []Candidate {
	all := make([]Candidate, 0, len(d.Requests)+len(d.Responses))
	all = append(all, d.Requests...)
	all = append(all, d.Responses...)
	return all
}

// FilterUDP tries every candidate type in d against bytes, accepting on
// the first successful decode+validate. is_to_server does not narrow
// the UDP candidate set.
func FilterUDP(d *Dispatch, bytes []byte, isToServer bool) (string, Code) {
	return firstMatch(d.candidates(), bytes, isToServer)
}

// FilterTCP narrows the candidate set by is_to_server before trying each
// one in declaration order: only request types when true, only response
// types when false.
func FilterTCP(d *Dispatch, bytes []byte, isToServer bool) (string, Code) {
	if isToServer {
		return firstMatch(d.Requests, bytes, isToServer)
	}
	return firstMatch(d.Responses, bytes, isToServer)
}

// firstMatch tries candidates in order, returning the first whose Spec
// processes bytes to OK. If none succeed, it returns the last non-OK
// code observed (Decode if every candidate decoded-or-validated badly,
// or whatever earlier structural code a misconfigured candidate set
// produced), so callers can distinguish "nothing registered" from
// "every candidate rejected this payload".
func firstMatch(candidates []Candidate, bytes []byte, isToServer bool) (string, Code) {
	if len(candidates) == 0 {
		return "", NotRegistered
	}
	last := NotRegistered
	for _, c := range candidates {
		res := process(c.Spec, nil, bytes, isToServer)
		if res.Outcome == OutcomeOK {
			return c.MessageType, OK
		}
		last = res.Code()
	}
	return "", last
}
