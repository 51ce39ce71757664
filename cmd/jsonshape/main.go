package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/viant/jsonshape"
	"github.com/viant/jsonshape/internal/scan"
)

// Version information
const Version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Input   string           `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Compact CompactCmd `cmd:"" help:"Print the input with whitespace outside strings removed."`
	Split   SplitCmd   `cmd:"" help:"Print the top-level elements of an array or object, one per line."`
	Tree    TreeCmd    `cmd:"" help:"Parse the input without a shape and print the value graph."`
}

// Context holds the runtime context shared by commands
type Context struct {
	Input  string
	Stdin  io.Reader
	Stdout io.Writer
	Logger *log.Logger
}

type CompactCmd struct{}

func (c *CompactCmd) Run(ctx *Context) error {
	text, err := ctx.read()
	if err != nil {
		return err
	}
	compacted, _ := scan.Compact(nil, text)
	ctx.Logger.Debug("compacted", "in", len(text), "out", len(compacted))
	_, err = fmt.Fprintln(ctx.Stdout, compacted)
	return err
}

type SplitCmd struct {
	Values bool `help:"For objects print only values." short:"V"`
}

func (c *SplitCmd) Run(ctx *Context) error {
	text, err := ctx.read()
	if err != nil {
		return err
	}
	compacted, _ := scan.Compact(nil, text)
	isObject := scan.Enclosed(compacted, '{', '}')
	if !isObject && !scan.Enclosed(compacted, '[', ']') {
		return fmt.Errorf("expected array or object input, got %q", abbreviate(compacted))
	}
	elements := scan.Split(compacted, nil)
	ctx.Logger.Debug("split", "elements", len(elements), "object", isObject)
	if isObject && len(elements)%2 == 1 {
		ctx.Logger.Warn("dangling key ignored", "key", elements[len(elements)-1])
		elements = elements[:len(elements)-1]
	}
	for i, element := range elements {
		if isObject && c.Values && i%2 == 0 {
			continue
		}
		if _, err = fmt.Fprintln(ctx.Stdout, element); err != nil {
			return err
		}
	}
	return nil
}

type TreeCmd struct {
	Indent string `help:"Indentation used for the printed value graph; empty prints a single line." default:"  "`
}

func (c *TreeCmd) Run(ctx *Context) error {
	text, err := ctx.read()
	if err != nil {
		return err
	}
	worker := jsonshape.NewWorker(jsonshape.WithDegradationSink(func(d jsonshape.Degradation) {
		ctx.Logger.Warn(d.Reason, "path", d.Path.String(), "text", abbreviate(d.Text))
	}))
	node := worker.ParseUntyped(text)
	ctx.Logger.Debug("parsed", "kind", node.Kind, "len", node.Len())
	var data []byte
	if c.Indent == "" {
		data, err = json.Marshal(node.Interface())
	} else {
		data, err = json.MarshalIndent(node.Interface(), "", c.Indent)
	}
	if err != nil {
		return fmt.Errorf("failed to render value graph: %w", err)
	}
	_, err = fmt.Fprintln(ctx.Stdout, string(data))
	return err
}

func (c *Context) read() (string, error) {
	if c.Input != "" {
		data, err := os.ReadFile(c.Input)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", c.Input, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(c.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty input received from stdin")
	}
	return string(data), nil
}

func abbreviate(text string) string {
	const limit = 40
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "jsonshape"})
	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *log.Logger) error {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("jsonshape"),
		kong.Description("Inspect how JSON text is normalized, split and parsed"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		kong.Writers(stdout, stdout),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("running", "command", strings.TrimSpace(ctx.Command()))
	return ctx.Run(&Context{Input: cli.Input, Stdin: stdin, Stdout: stdout, Logger: logger})
}
