package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for the prompt. In tests, replace it with a stub.
var printFn = fmt.Print

// execIface defines the command surface the REPL needs.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	help(loggedIn bool)
	unknownCmd(cmd string)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginService(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error

	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Filter(ctx context.Context, name string) error
	Page(ctx context.Context, arg string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	AvatarLink(ctx context.Context, arg string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
}

// anonymousCommands may run without a session.
var anonymousCommands = map[string]bool{
	"help": true, "register": true, "login": true, "login-service": true,
	"status": true, "exit": true, "quit": true,
}

// runREPL reads one command per line from reader and dispatches it to a.
// Directory commands need a session; anonymous operators are pointed at
// login. The loop ends on EOF, "exit"/"quit", or when ctx is done.
//
// Command handlers report their own failures, so their errors are ignored
// here and the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printFn(fmt.Sprintf("users %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

		if !a.isLoggedIn() && !anonymousCommands[cmd] {
			a.unknownCmd(cmd)
			continue
		}

		switch cmd {
		case "help":
			a.help(a.isLoggedIn())

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "login-service":
			_ = a.LoginService(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "status":
			_ = a.Status(ctx)

		case "l", "list":
			_ = a.List(ctx)
		case "search":
			_ = a.Search(ctx, arg)
		case "filter":
			_ = a.Filter(ctx, arg)
		case "page":
			_ = a.Page(ctx, arg)
		case "n", "next":
			_ = a.Next(ctx)
		case "p", "prev":
			_ = a.Prev(ctx)
		case "show":
			_ = a.Show(ctx, arg)
		case "avatar":
			_ = a.AvatarLink(ctx, arg)
		case "create":
			_ = a.Create(ctx)
		case "edit":
			_ = a.Edit(ctx, arg)
		case "delete", "rm":
			_ = a.Delete(ctx, arg)

		case "exit", "quit":
			return

		default:
			a.unknownCmd(cmd)
		}
	}
}

// Root prints the greeting and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	a.notify.Info("User directory (type 'help' for commands)")
	if !a.isLoggedIn() {
		a.notify.Muted("Log in with 'login' or 'login-service', or create an account with 'register'.")
	}
	runREPL(ctx, a, a.getStatus, a.reader)
	a.notify.Info("Bye!")
}

func (a *App) help(loggedIn bool) {
	if !loggedIn {
		a.notify.Info("Available commands: register, login, login-service, status, exit")
		return
	}
	a.notify.Info("Available commands:")
	fmt.Fprint(a.out, `  (l)ist                 show the current page
  search [term]          filter by name or email, empty clears
  filter all|active|inactive|recent
  page <n>, (n)ext, (p)rev
  show <id>              fetch one user
  avatar <id>            print a time-limited avatar link
  create                 add a user
  edit <id>              change name, email or avatar
  delete <id>            remove a user after confirmation
  whoami, status, logout, exit
`)
}

func (a *App) unknownCmd(cmd string) {
	if !a.isLoggedIn() && !anonymousCommands[cmd] {
		a.notify.Warn("Please log in first (type 'help' for commands)")
		return
	}
	a.notify.Warn("Unknown command: %s", cmd)
}
