package runtime

import "strconv"

// maxPathLen bounds the dotted path buffer. Exceeding it is the one fatal,
// non-violation condition in the engine: the current validator aborts with
// false and adds nothing, because the context itself is compromised.
const maxPathLen = 4096

// Context is the mutable state threaded through one validator invocation: a
// dotted path under construction, the ViolationBuffer it reports into, and
// the early-exit policy. Its lifetime is exactly one Validate call.
//
// Unlike a C implementation that rescans the path buffer for the last '.'
// or '[' on pop, Context keeps an explicit stack of mark positions recorded
// before each push; pop truncates back to the top mark. This keeps
// PushField/PushIndex and PopField/PopIndex O(1) and, paired with Go's
// defer, makes the push/pop-balanced invariant trivial to
// satisfy: `if !ctx.PushField(x) { return false }; defer ctx.PopField()`
// unwinds correctly even through an early-exit return several frames up.
type Context struct {
	path  []byte
	marks []int

	Buffer    *ViolationBuffer
	EarlyExit bool

	aborted    bool // sticky: EarlyExit fired; every remaining check must no-op
	overflowed bool // sticky: a push failed; the whole call is fatal
}

// NewContext returns a Context reporting into buf.
func NewContext(buf *ViolationBuffer) *Context {
	return &Context{Buffer: buf}
}

// Reset clears the path and rewinds marks, keeping backing storage. It does
// not touch the ViolationBuffer; call buf.Init() separately.
func (c *Context) Reset() {
	c.path = c.path[:0]
	c.marks = c.marks[:0]
	c.aborted = false
	c.overflowed = false
}

// Path returns the current dotted path.
func (c *Context) Path() string {
	return string(c.path)
}

// PushField appends ".name" (or just "name" at the root) to the path.
// Returns false, leaving the path unchanged and setting the sticky
// Overflowed flag, if the result would overflow maxPathLen.
func (c *Context) PushField(name string) bool {
	mark := len(c.path)
	want := mark + len(name)
	if mark > 0 {
		want++
	}
	if want > maxPathLen {
		c.overflowed = true
		return false
	}
	if mark > 0 {
		c.path = append(c.path, '.')
	}
	c.path = append(c.path, name...)
	c.marks = append(c.marks, mark)
	return true
}

// PopField undoes the most recent PushField or PushIndex.
func (c *Context) PopField() {
	c.pop()
}

// PushIndex appends "[i]" to the path, for repeated-field traversal.
// Returns false, leaving the path unchanged and setting the sticky
// Overflowed flag, if the result would overflow.
func (c *Context) PushIndex(i int) bool {
	mark := len(c.path)
	idxStr := strconv.Itoa(i)
	if mark+2+len(idxStr) > maxPathLen {
		c.overflowed = true
		return false
	}
	c.path = append(c.path, '[')
	c.path = append(c.path, idxStr...)
	c.path = append(c.path, ']')
	c.marks = append(c.marks, mark)
	return true
}

// PopIndex undoes the most recent PushIndex. Identical to PopField; kept as
// a distinct method so emitted code names the operation it means, matching
// the push_index/pop_index vocabulary emitted code uses.
func (c *Context) PopIndex() {
	c.pop()
}

func (c *Context) pop() {
	if len(c.marks) == 0 {
		c.path = c.path[:0]
		return
	}
	mark := c.marks[len(c.marks)-1]
	c.marks = c.marks[:len(c.marks)-1]
	c.path = c.path[:mark]
}

// Add records a violation at the current path and reports whether the
// caller should keep checking further rules. It returns false only when
// EarlyExit is set (the caller must unwind and return false) — the policy
// is enforced here, once, rather than at every call site. A full buffer
// drops the violation but does not change the return value.
func (c *Context) Add(constraintID, message string) bool {
	c.Buffer.Add(c.Path(), constraintID, message)
	if c.EarlyExit {
		c.aborted = true
	}
	return !c.EarlyExit
}

// Aborted reports whether EarlyExit has fired during this call. Once
// true it stays true for the Context's lifetime; compiled checks consult
// it to stop visiting further fields/rules without adding more
// violations, while still unwinding any path segments already pushed.
func (c *Context) Aborted() bool {
	return c.aborted
}

// Overflowed reports whether a PushField/PushIndex call has failed. This
// is the one fatal, non-violation condition in the engine: once
// true, the enclosing validator must return false without adding a
// violation for the overflow itself.
func (c *Context) Overflowed() bool {
	return c.overflowed
}
