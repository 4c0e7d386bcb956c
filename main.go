package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const usageText = `Usage: wowstr [-config file] <command> [arguments]

Commands:
  serve [-socket path] [-verbose]          Run the socket server
  repl [-local]                            Start the interactive REPL
  format [-remote] <template> [args...]    Render a template and print it
  call [-remote] <function> [args...]      Call a host function and print its results
  lines -sep <chars> -template <tpl>       Split each stdin line and reformat it
  help                                     Show this help
`

// errUsage reports a command line that could not be parsed
var errUsage = errors.New("invalid usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("wowstr: ")

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usageText)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run executes one command line and writes its output to stdout
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	global := flag.NewFlagSet("wowstr", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "path to config.toml")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "serve":
		return runServe(cfg, cmdArgs)
	case "repl":
		return runREPL(cfg, cmdArgs)
	case "format":
		return runFormat(cfg, cmdArgs, stdout)
	case "call":
		return runCall(cfg, cmdArgs, stdout)
	case "lines":
		return runLines(cfg, cmdArgs, stdin, stdout)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usageText)
		return nil
	}

	msg := fmt.Sprintf("unknown command %q", command)
	if hints := suggest(command, []string{"serve", "repl", "format", "call", "lines", "help"}); len(hints) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
	}
	return fmt.Errorf("%w: %s", errUsage, msg)
}

// ============================================================================
// Subcommands
// ============================================================================

func runServe(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	socketPath := fs.String("socket", cfg.SocketPath, "Unix socket path")
	verbose := fs.Bool("verbose", false, "log every command")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	core := NewStringHostCore(cfg.MaxOutput)
	server := NewSocketServer(*socketPath, core)
	if *verbose {
		server.AddCommandHook(func(connID, request, response string) {
			log.Printf("client %s: %s -> %s", connID, request, response)
		})
	}

	if err := server.Start(); err != nil {
		return err
	}
	log.Printf("listening on %s", *socketPath)

	server.Wait()
	log.Printf("server stopped")
	return nil
}

func runREPL(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	local := fs.Bool("local", false, "use an in-process host instead of the socket server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *local {
		return NewLocalREPLSession(cfg).Run()
	}

	session, err := NewREPLSession(cfg)
	if err != nil {
		return err
	}
	return session.Run()
}

func runFormat(cfg *Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	remote := fs.Bool("remote", false, "format on the socket server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: format requires a template", errUsage)
	}

	cmds, closeFn, err := openCommands(cfg, *remote)
	if err != nil {
		return err
	}
	defer closeFn()

	output, err := cmds.Format(processEscapeSequences(fs.Arg(0)), cliValues(fs.Args()[1:]))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, output)
	return nil
}

func runCall(cfg *Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	remote := fs.Bool("remote", false, "call on the socket server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: call requires a function name", errUsage)
	}

	cmds, closeFn, err := openCommands(cfg, *remote)
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := cmds.Call(fs.Arg(0), cliValues(fs.Args()[1:]))
	if err != nil {
		return err
	}
	for _, v := range results {
		fmt.Fprintln(stdout, v.String())
	}
	return nil
}

func runLines(cfg *Config, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("lines", flag.ContinueOnError)
	sep := fs.String("sep", ",", "separator bytes")
	template := fs.String("template", "", "template applied to the pieces of each line")
	whole := fs.Bool("whole", false, "split the whole input instead of each line")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *template == "" {
		return fmt.Errorf("%w: lines requires -template", errUsage)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	lib := &Library{MaxOutput: cfg.MaxOutput}
	input := strings.TrimSuffix(string(data), "\n")
	output, err := lib.SplitFormat(input, processEscapeSequences(*sep), processEscapeSequences(*template), !*whole)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, output)
	return nil
}

// openCommands returns a local core, or a client of the configured socket server
func openCommands(cfg *Config, remote bool) (StringHostCommands, func(), error) {
	if !remote {
		return NewStringHostCore(cfg.MaxOutput), func() {}, nil
	}

	client, err := NewSocketClient(cfg.SocketPath)
	if err != nil {
		return nil, nil, err
	}
	return NewSocketClientCommands(client), func() { client.Close() }, nil
}

// cliValues parses command line words the way the REPL parses bare tokens
func cliValues(words []string) []Value {
	values := make([]Value, len(words))
	for i, w := range words {
		values[i] = argToken{Text: w}.Value()
	}
	return values
}
