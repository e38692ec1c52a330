package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type scope int

const (
	scopePublic scope = iota
	scopeUser
	scopeAdmin
)

// command is one REPL verb. args holds the words after the verb; run is
// only called with at least minArgs of them.
type command struct {
	name    string
	usage   string
	help    string
	scope   scope
	minArgs int
	run     func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	commands() []command
}

// runREPL starts a read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to the matching entry of a.commands(). Commands that need a
// session or the admin role are refused up front. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own user-facing message.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(a.commands(), name)
		switch {
		case !ok:
			printlnFn("Unknown command:", name)
		case cmd.scope >= scopeUser && !a.isLoggedIn():
			printlnFn("Please log in first.")
		case cmd.scope == scopeAdmin && !a.isAdmin():
			printlnFn("Admin access required.")
		case len(args) < cmd.minArgs:
			printlnFn("Usage:", cmd.usage)
		default:
			_ = cmd.run(ctx, args)
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(a execIface) {
	printlnFn("Available commands:")
	for _, c := range a.commands() {
		if c.scope == scopeUser && !a.isLoggedIn() || c.scope == scopeAdmin && !a.isAdmin() {
			continue
		}
		printlnFn(fmt.Sprintf("  %-36s %s", c.usage, c.help))
	}
	printlnFn(fmt.Sprintf("  %-36s %s", "exit", "leave the program"))
}
