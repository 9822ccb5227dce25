// Package protoguard compiles protobuf constraint declarations into direct
// Go validation code and runs the resulting validators against decoded
// message values, including at a packet filter boundary that decodes and
// validates untrusted TCP/UDP input in one step.
//
// A schema.Registry describes the offline model (messages, fields,
// oneofs, enums, services); compiler.Compile lowers it into a
// compiler.Program of callable validators. Individual rule evaluation
// lives in rules/primitive, rules/strfmt, rules/format, and
// rules/repeated; runtime.Context and runtime.ViolationBuffer carry the
// state threaded through one validation call. envelope and filter build
// the root/oneof/Any dispatch layers and the decode-then-validate packet
// filter pipeline on top of a compiled Program.
package protoguard
