package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Confirm(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Status(ctx context.Context) error
	Forget(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It writes a prompt to w, reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - confirm          confirm an email address
//	  - login            authenticate
//	  - status           show session state
//	  - forget           forget remembered credentials
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help             show available commands
//	  - whoami           reload the profile from the server
//	  - profile          change first and last name
//	  - status           show session state
//	  - logout           log out
//	  - exit | quit      leave the program
//
// Command errors are reported by the handlers themselves and ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "ak %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, profile, status, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, confirm, login, status, forget, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "confirm":
			_ = a.Confirm(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "status":
			_ = a.Status(ctx)

		case "forget":
			_ = a.Forget(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
