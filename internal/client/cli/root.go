package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.email != "" {
		s = a.email
	}
	if a.space != nil {
		s = s + " @" + a.space.Name
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

// Run is the interactive entry point.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to MediaKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("mk %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: spaces, newspace, use <n>, upload <files...>, selection, toggle <n>, videos, watch, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)

		case "login":
			a.Login(ctx)

		case "spaces":
			a.Spaces(ctx)

		case "newspace":
			a.NewSpace(ctx)

		case "use":
			if n, ok := parseIndex(args); ok {
				a.Use(ctx, n)
			} else {
				fmt.Println("Usage: use <n>")
			}

		case "upload":
			a.Upload(ctx, args)

		case "selection":
			a.Selection(ctx)

		case "toggle":
			if n, ok := parseIndex(args); ok {
				a.Toggle(ctx, n)
			} else {
				fmt.Println("Usage: toggle <n>")
			}

		case "videos":
			a.Videos(ctx)

		case "watch":
			a.Watch(ctx)

		case "logout":
			a.Logout(ctx)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func parseIndex(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
