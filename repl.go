package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/olekukonko/tablewriter"
)

// errExit is returned by a verb handler to end the session
var errExit = errors.New("exit")

// replVerbs lists every verb the REPL understands, for help and suggestions
var replVerbs = []string{
	"format", "call", "trim", "split", "join", "replace",
	"get", "set", "list", "stack", "help", "clear", "quit", "exit",
}

// argToken is one word of a REPL line. Quoted tokens are always strings.
type argToken struct {
	Text   string
	Quoted bool
}

// Str returns the token text with backslash escapes processed
func (t argToken) Str() string {
	return processEscapeSequences(t.Text)
}

// Value converts the token to a host value: bare nil, true, false, integers
// and floats parse as such, everything else is a string
func (t argToken) Value() Value {
	if t.Quoted {
		return Str(t.Str())
	}
	switch t.Text {
	case "nil":
		return Nil
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(t.Text, 0, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(t.Text, 64); err == nil {
		return Num(f)
	}
	return Str(t.Str())
}

// REPLCommand represents a parsed command
type REPLCommand struct {
	Verb string
	Args []argToken
}

// Object returns the first argument lowercased, or "" when there is none
func (c *REPLCommand) Object() string {
	if len(c.Args) == 0 {
		return ""
	}
	return strings.ToLower(c.Args[0].Text)
}

// values converts the arguments from index start on
func (c *REPLCommand) values(start int) []Value {
	if start >= len(c.Args) {
		return nil
	}
	out := make([]Value, 0, len(c.Args)-start)
	for _, a := range c.Args[start:] {
		out = append(out, a.Value())
	}
	return out
}

// str returns argument i as a string, or def when absent
func (c *REPLCommand) str(i int, def string) string {
	if i >= len(c.Args) {
		return def
	}
	return c.Args[i].Str()
}

// ============================================================================
// Output Formatting
// ============================================================================

// REPLFormatter handles output formatting
type REPLFormatter struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	info    *color.Color
	accent  *color.Color
}

// NewREPLFormatter creates a new formatter writing to out
func NewREPLFormatter(out io.Writer, useColor bool) *REPLFormatter {
	f := &REPLFormatter{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		accent:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{f.success, f.failure, f.info, f.accent} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// PrintSuccess prints a success message
func (f *REPLFormatter) PrintSuccess(message string) {
	f.success.Fprintf(f.out, "✓ %s\n", message)
}

// PrintError prints an error message
func (f *REPLFormatter) PrintError(message string) {
	f.failure.Fprintf(f.out, "✗ Error: %s\n", message)
}

// PrintInfo prints an info message
func (f *REPLFormatter) PrintInfo(message string) {
	f.info.Fprintf(f.out, "ℹ %s\n", message)
}

// PrintOutput prints a produced string verbatim
func (f *REPLFormatter) PrintOutput(s string) {
	fmt.Fprintln(f.out, s)
}

// PrintTable prints a formatted ASCII table
func (f *REPLFormatter) PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	table := tablewriter.NewWriter(f.out)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			f.PrintError("Failed to build table: " + err.Error())
			return
		}
	}
	if err := table.Render(); err != nil {
		f.PrintError("Failed to render table: " + err.Error())
	}
}

// PrintJSON prints formatted JSON
func (f *REPLFormatter) PrintJSON(data interface{}) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		f.PrintError("Failed to format JSON: " + err.Error())
		return
	}
	fmt.Fprintln(f.out, string(jsonBytes))
}

// PrintSuggestions prints "did you mean" hints, if any
func (f *REPLFormatter) PrintSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	f.accent.Fprintf(f.out, "  Did you mean: %s?\n", strings.Join(suggestions, ", "))
}

// ============================================================================
// Parsing
// ============================================================================

// ParseCommand parses a verb-first command string
func ParseCommand(input string) (*REPLCommand, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	parts, err := splitArgs(input)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	return &REPLCommand{
		Verb: strings.ToLower(parts[0].Text),
		Args: parts[1:],
	}, nil
}

// splitArgs splits a command string into arguments, respecting quotes.
// Backslash pairs are kept verbatim for processEscapeSequences, but an escaped
// quote never opens or closes a quoted run.
func splitArgs(input string) ([]argToken, error) {
	var args []argToken
	var current strings.Builder
	inQuotes := false
	quoted := false
	started := false
	quoteChar := byte(0)

	flush := func() {
		if started {
			args = append(args, argToken{Text: current.String(), Quoted: quoted})
		}
		current.Reset()
		started = false
		quoted = false
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if ch == '\\' && i+1 < len(input) {
			current.WriteByte(ch)
			current.WriteByte(input[i+1])
			started = true
			i++
			continue
		}

		if (ch == '"' || ch == '\'') && !inQuotes {
			inQuotes = true
			quoted = true
			started = true
			quoteChar = ch
			continue
		}

		if ch == quoteChar && inQuotes {
			inQuotes = false
			quoteChar = 0
			continue
		}

		if (ch == ' ' || ch == '\t') && !inQuotes {
			flush()
			continue
		}

		current.WriteByte(ch)
		started = true
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()

	return args, nil
}

// suggest returns up to three candidates close to word, best first
func suggest(word string, candidates []string) []string {
	type scored struct {
		name string
		rank int
	}
	var matches []scored
	seen := make(map[string]bool)

	for _, r := range fuzzy.RankFindFold(word, candidates) {
		matches = append(matches, scored{r.Target, r.Distance})
		seen[r.Target] = true
	}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(word), strings.ToLower(c)); d <= 2 {
			matches = append(matches, scored{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].name < matches[j].name
	})

	var out []string
	for _, m := range matches {
		if m.name == word {
			continue
		}
		out = append(out, m.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// ============================================================================
// Command Execution
// ============================================================================

// ExecuteREPLCommand executes a REPL command against any StringHostCommands
func ExecuteREPLCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	switch cmd.Verb {
	// Formatting and string utilities
	case "format":
		return handleFormatCommand(cmd, cmds, formatter)
	case "trim":
		return handleTrimCommand(cmd, cmds, formatter)
	case "split":
		return handleSplitCommand(cmd, cmds, formatter)
	case "join":
		return handleJoinCommand(cmd, cmds, formatter)
	case "replace":
		return handleReplaceCommand(cmd, cmds, formatter)

	// Host commands
	case "call":
		return handleCallCommand(cmd, cmds, formatter)
	case "get":
		return handleGetCommand(cmd, cmds, formatter)
	case "set":
		return handleSetCommand(cmd, cmds, formatter)
	case "list":
		return handleListCommand(cmd, cmds, formatter)
	case "stack":
		return handleStackCommand(cmd, cmds, formatter)

	// Utility commands
	case "help":
		showHelp(formatter.out, cmd.Object())
		return nil
	case "quit", "exit":
		return errExit
	case "clear":
		fmt.Fprint(formatter.out, "\033[2J\033[H") // Clear screen
		return nil

	default:
		formatter.PrintError(fmt.Sprintf("Unknown command: %s", cmd.Verb))
		formatter.PrintSuggestions(suggest(cmd.Verb, replVerbs))
		formatter.PrintInfo("Type 'help' for available commands")
		return nil
	}
}

// Command handlers

func handleFormatCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 1 {
		formatter.PrintError("format requires a template")
		return nil
	}

	output, err := cmds.Format(cmd.Args[0].Str(), cmd.values(1))
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(output)
	return nil
}

func handleTrimCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 1 {
		formatter.PrintError("trim requires text")
		return nil
	}

	output, err := cmds.Trim(cmd.Args[0].Str(), cmd.str(1, ""))
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(strconv.Quote(output))
	return nil
}

func handleSplitCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 2 {
		formatter.PrintError("split requires separators and text")
		return nil
	}

	limit := 0
	if len(cmd.Args) > 2 {
		n, err := strconv.Atoi(cmd.Args[2].Text)
		if err != nil {
			formatter.PrintError(fmt.Sprintf("invalid limit: %s", cmd.Args[2].Text))
			return nil
		}
		limit = n
	}

	parts, err := cmds.Split(cmd.Args[0].Str(), cmd.Args[1].Str(), limit)
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}

	rows := make([][]string, len(parts))
	for i, p := range parts {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Quote(p)}
	}
	formatter.PrintTable([]string{"#", "Piece"}, rows)
	return nil
}

func handleJoinCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 1 {
		formatter.PrintError("join requires a separator")
		return nil
	}

	output, err := cmds.Join(cmd.Args[0].Str(), cmd.values(1))
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(output)
	return nil
}

func handleReplaceCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 3 {
		formatter.PrintError("replace requires subject, search and replacement")
		return nil
	}

	output, count, err := cmds.Replace(cmd.Args[0].Str(), cmd.Args[1].Str(), cmd.Args[2].Str())
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(output)
	formatter.PrintInfo(fmt.Sprintf("%d replacement(s)", count))
	return nil
}

func handleCallCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 1 {
		formatter.PrintError("call requires a function name")
		return nil
	}
	name := cmd.Args[0].Text

	results, err := cmds.Call(name, cmd.values(1))
	if err != nil {
		formatter.PrintError(err.Error())
		if strings.HasPrefix(err.Error(), "attempt to call") {
			if functions, lerr := cmds.ListFunctions(); lerr == nil {
				formatter.PrintSuggestions(suggest(name, functions))
			}
		}
		return nil
	}

	if len(results) == 0 {
		formatter.PrintInfo("(no results)")
		return nil
	}

	rows := make([][]string, len(results))
	for i, v := range results {
		rows[i] = []string{strconv.Itoa(i + 1), v.TypeName(), displayValue(v)}
	}
	formatter.PrintTable([]string{"#", "Type", "Value"}, rows)
	return nil
}

func handleGetCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 1 {
		formatter.PrintError("get requires a global name")
		return nil
	}
	name := cmd.Args[0].Text

	v, err := cmds.GetGlobal(name)
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(fmt.Sprintf("%s = %s (%s)", name, displayValue(v), v.TypeName()))
	return nil
}

func handleSetCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	if len(cmd.Args) < 2 {
		formatter.PrintError("set requires a global name and a value")
		return nil
	}
	name := cmd.Args[0].Text
	v := cmd.Args[1].Value()

	if err := cmds.SetGlobal(name, v); err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintSuccess(fmt.Sprintf("%s = %s", name, displayValue(v)))
	return nil
}

func handleListCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	filter := cmd.str(1, "")

	switch cmd.Object() {
	case "functions", "funcs":
		functions, err := cmds.ListFunctions()
		if err != nil {
			formatter.PrintError(err.Error())
			return nil
		}
		if filter != "" {
			functions = fuzzy.FindFold(filter, functions)
		}
		rows := make([][]string, len(functions))
		for i, name := range functions {
			rows[i] = []string{name}
		}
		formatter.PrintTable([]string{"Function"}, rows)
		formatter.PrintInfo(fmt.Sprintf("%d function(s)", len(functions)))

	case "globals":
		globals, err := cmds.ListGlobals()
		if err != nil {
			formatter.PrintError(err.Error())
			return nil
		}
		var rows [][]string
		for _, g := range globals {
			if filter != "" && !fuzzy.MatchFold(filter, g.Name) {
				continue
			}
			rows = append(rows, []string{g.Name, g.Type, shortenString(g.Value, 40)})
		}
		formatter.PrintTable([]string{"Name", "Type", "Value"}, rows)
		formatter.PrintInfo(fmt.Sprintf("%d global(s)", len(rows)))

	default:
		formatter.PrintError("list requires 'functions' or 'globals'")
	}
	return nil
}

func handleStackCommand(cmd *REPLCommand, cmds StringHostCommands, formatter *REPLFormatter) error {
	start := 1
	if len(cmd.Args) > 0 {
		n, err := strconv.Atoi(cmd.Args[0].Text)
		if err != nil {
			formatter.PrintError(fmt.Sprintf("invalid level: %s", cmd.Args[0].Text))
			return nil
		}
		start = n
	}

	traceback, err := cmds.DebugStack(start)
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintOutput(strings.TrimPrefix(traceback, "\n"))
	return nil
}

// ============================================================================
// Help
// ============================================================================

func showHelp(out io.Writer, command string) {
	if command == "" {
		showMainHelp(out)
		return
	}
	showSpecificHelp(out, command)
}

func showMainHelp(out io.Writer) {
	fmt.Fprint(out, `
Available commands:

Formatting:
  format <template> [args...]           Render a printf-style template
  trim <text> [cutset]                  Strip cutset bytes from both ends
  split <separators> <text> [limit]     Split text on any separator byte
  join <separator> [args...]            Join strings and numbers
  replace <subject> <search> <repl>     Replace every occurrence of search

Host:
  call <function> [args...]             Call a host function (e.g. strsub, math.floor)
  get <name>                            Show a global variable
  set <name> <value>                    Set a global variable (nil removes it)
  list functions [filter]               List callable globals
  list globals [filter]                 List global variables
  stack [level]                         Show the host call stack

Utility:
  help [command]                        Show help
  clear                                 Clear the screen
  quit, exit                            Leave the REPL

Arguments: quoted words are strings; bare nil, true, false and numbers
are parsed as such. Backslash escapes such as \n and \t are processed.

`)
}

func showSpecificHelp(out io.Writer, command string) {
	helps := map[string]string{
		"format": `
format <template> [args...]
  Renders template like C printf. %N$ picks argument N explicitly,
  %q quotes a string, %% writes a single percent sign.

  Examples:
    format "%s has %d items" bag 3
    format "%2$s %1$s" world hello
    format "%5.1f|%-4d|" 3.14159 7
`,
		"call": `
call <function> [args...]
  Calls a function by global name; dotted names reach into tables.

  Examples:
    call strsub "hello world" 1 5
    call strsplit , "a,b,c"
    call math.floor 3.7
`,
		"split": `
split <separators> <text> [limit]
  Splits text on any byte in separators. With a limit, the last
  piece keeps the unsplit remainder.

  Example:
    split ", " "a, b,c" 2
`,
		"trim": `
trim <text> [cutset]
  Strips bytes in cutset (default: space, tab, CR, LF) from both ends.
`,
		"replace": `
replace <subject> <search> <replacement>
  Replaces every non-overlapping occurrence and reports the count.
`,
		"list": `
list functions [filter]   List callable globals, fuzzy-filtered
list globals [filter]     List global variables, fuzzy-filtered
`,
		"set": `
set <name> <value>
  Sets a global. Use nil to remove it.

  Examples:
    set PLAYER_NAME "Thrall"
    set LEVEL 60
`,
	}

	if help, ok := helps[command]; ok {
		fmt.Fprintln(out, help)
	} else {
		fmt.Fprintf(out, "No help available for '%s'\n", command)
		fmt.Fprintln(out, "Type 'help' for a list of all commands")
	}
}

// ============================================================================
// Session
// ============================================================================

// REPLSession manages the REPL interactive session
type REPLSession struct {
	cmds      StringHostCommands
	formatter *REPLFormatter
	cfg       *Config
	target    string
	closer    io.Closer
}

// NewREPLSession connects to the socket server named in cfg
func NewREPLSession(cfg *Config) (*REPLSession, error) {
	client, err := NewSocketClient(cfg.SocketPath)
	if err != nil {
		return nil, err
	}

	return &REPLSession{
		cmds:      NewSocketClientCommands(client),
		formatter: NewREPLFormatter(os.Stdout, cfg.UseColor(os.Stdout)),
		cfg:       cfg,
		target:    "socket server at " + cfg.SocketPath,
		closer:    client,
	}, nil
}

// NewLocalREPLSession runs the REPL against an in-process core
func NewLocalREPLSession(cfg *Config) *REPLSession {
	return &REPLSession{
		cmds:      NewStringHostCore(cfg.MaxOutput),
		formatter: NewREPLFormatter(os.Stdout, cfg.UseColor(os.Stdout)),
		cfg:       cfg,
		target:    "local host",
	}
}

// completer offers verbs, list objects and function names
func (rs *REPLSession) completer() *readline.PrefixCompleter {
	functions := func(string) []string {
		names, err := rs.cmds.ListFunctions()
		if err != nil {
			return nil
		}
		return names
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(replVerbs))
	for _, verb := range replVerbs {
		switch verb {
		case "call":
			items = append(items, readline.PcItem(verb, readline.PcItemDynamic(functions)))
		case "list":
			items = append(items, readline.PcItem(verb, readline.PcItem("functions"), readline.PcItem("globals")))
		case "help":
			sub := make([]readline.PrefixCompleterInterface, 0, len(replVerbs))
			for _, v := range replVerbs {
				sub = append(sub, readline.PcItem(v))
			}
			items = append(items, readline.PcItem(verb, sub...))
		default:
			items = append(items, readline.PcItem(verb))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// ExecuteLine parses and runs one input line; it returns errExit on quit
func (rs *REPLSession) ExecuteLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	return ExecuteREPLCommand(cmd, rs.cmds, rs.formatter)
}

// Run starts the interactive REPL loop
func (rs *REPLSession) Run() error {
	if rs.closer != nil {
		defer rs.closer.Close()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            rs.cfg.Prompt,
		HistoryFile:       rs.cfg.HistoryFile,
		AutoComplete:      rs.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	rs.formatter.info.Fprintf(rs.formatter.out, "wowstr REPL\n")
	rs.formatter.info.Fprintf(rs.formatter.out, "Connected to %s\n", rs.target)
	rs.formatter.info.Fprintf(rs.formatter.out, "Type 'help' for available commands\n\n")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Fprintln(rs.formatter.out)
			break
		} else if err != nil {
			rs.formatter.PrintError(err.Error())
			continue
		}

		if err := rs.ExecuteLine(line); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			rs.formatter.PrintError(err.Error())
		}
	}

	rs.formatter.PrintInfo("Goodbye!")
	return nil
}

// Helper functions

// displayValue renders strings quoted so whitespace stays visible
func displayValue(v Value) string {
	if v.Tag == StrTag {
		return strconv.Quote(v.Data.(string))
	}
	return v.String()
}

func shortenString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
