// Command protoguard-inspect is a demonstration driver for an
// already-compiled compiler.Program: it prints the program's message
// shapes as JSON Schema (field types only, not the constraint rules) and
// exercises the filter package's FilterUDP dispatch against a sample
// payload. It is not a
// schema-parsing front-end; the sample schema.Registry below is built
// in-process, the way a test would build one, not read from a .proto
// file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/protoguard/protoguard/codec/codectest"
	"github.com/protoguard/protoguard/envelope"
	"github.com/protoguard/protoguard/filter"
	"github.com/protoguard/protoguard/value"
)

var payloadPath string

var rootCmd = &cobra.Command{
	Use:   "protoguard-inspect",
	Short: "Inspect a compiled protoguard program and exercise its filter pipeline",
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the sample program's message shapes as JSON Schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		program, _, err := buildSample()
		if err != nil {
			return err
		}
		doc, err := program.DescribeJSON()
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}
		fmt.Println(string(doc))
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Encode a sample PingRequest, write it to --payload, then filter it back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(payloadPath)
	},
}

func init() {
	bindDemoFlags(demoCmd.Flags())
	rootCmd.AddCommand(describeCmd, demoCmd)
}

func bindDemoFlags(fs *pflag.FlagSet) {
	fs.StringVar(&payloadPath, "payload", "protoguard-demo.payload", "file to write/read the sample wire payload")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDemo builds the sample program, encodes a valid PingRequest through
// the fake codec, persists the resulting wire bytes to path, reads them
// back, and runs them through filter.FilterUDP to show the pipeline
// accepting a well-formed packet end to end.
func runDemo(path string) error {
	program, reg, err := buildSample()
	if err != nil {
		return err
	}

	fake := codectest.NewFake()
	fake.RegisterType("PingRequest")
	fake.RegisterType("PongResponse")

	req := value.NewMessage()
	req.Set("name", "ops-check")
	req.Set("sequence", int32(1))
	bytes := fake.Put("PingRequest", req)

	if err := os.WriteFile(path, bytes, 0o600); err != nil {
		return fmt.Errorf("writing sample payload to %s: %w", path, err)
	}
	fmt.Printf("wrote sample PingRequest payload to %s\n", path)

	onWire, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading sample payload from %s: %w", path, err)
	}

	root := &envelope.Root{Program: program, MessageType: "PingRequest"}
	pingSpec := &filter.Spec{
		Codec:      fake,
		Descriptor: "PingRequest",
		Size:       64,
		Validate:   root.Validate,
		Threshold:  program.Options().StackBufferThreshold,
	}

	dispatch := filter.NewDispatch(&reg.Files()[0].Services[0], func(messageType string) (*filter.Spec, bool) {
		if messageType != "PingRequest" {
			return nil, false
		}
		return pingSpec, true
	})

	name, code := filter.FilterUDP(dispatch, onWire, true)
	fmt.Printf("filter.FilterUDP -> type=%q code=%d\n", name, code)
	return nil
}
