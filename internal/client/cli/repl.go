package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/strengthsmap/internal/client/session"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	state() session.State
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	Logout(ctx context.Context) error
	Merge(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Community(ctx context.Context) error
	Submit(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit". Command
// errors are printed and the loop continues. Prompts issued by commands
// read from the same reader.
//
//	Anonymous:     register, login, guest, community, submit, exit
//	Guest:         list, add, delete, login, register, logout, community, submit, exit
//	Authenticated: list, add, delete, merge, whoami, community, submit, logout, delete-account, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sm %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText(a.state()))
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "guest":
			err = a.Guest(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "merge":
			err = a.Merge(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "add":
			err = a.Add(ctx, args)
		case "delete", "rm":
			err = a.Delete(ctx, args)
		case "community":
			err = a.Community(ctx)
		case "submit":
			err = a.Submit(ctx)
		case "delete-account":
			err = a.DeleteAccount(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		if readErr != nil {
			return
		}
	}
}

func helpText(s session.State) string {
	switch s {
	case session.StateAuthenticated:
		return "Available commands: (l)ist, add, delete, merge, whoami, community, submit, logout, delete-account, exit"
	case session.StateGuest:
		return "Available commands: (l)ist, add, delete, login, register, community, submit, logout, exit"
	default:
		return "Available commands: register, login, guest, community, submit, exit"
	}
}
