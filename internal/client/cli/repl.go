package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Add(ctx context.Context) error
	Sync(ctx context.Context) error
	Retry(ctx context.Context) error
	Delete(ctx context.Context) error
	Refresh(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop. It reads a line from the
// provided scanner, parses the first token as the command, and dispatches to
// methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("story> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: list, show, add, sync, retry, delete, refresh, login, register, logout, exit")
			if !a.isLoggedIn() {
				printlnFn("Not logged in: stories are saved locally and synced after login")
			}
		case "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx)
		case "add":
			_ = a.Add(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "retry":
			_ = a.Retry(ctx)
		case "delete":
			_ = a.Delete(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "login":
			_ = a.Login(ctx)
		case "register":
			_ = a.Register(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command: " + cmd)
		}
	}
}
