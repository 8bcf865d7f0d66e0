package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mdewinter/gatehouse/internal/auth"
	"github.com/mdewinter/gatehouse/internal/krypto"
)

const helpText = `commands:
  register <email>          create an account, an activation email is sent
  activate <email> <token>  activate an account with the emailed token
  resend <email>            send a fresh activation token
  login <email>             verify credentials
  help                      show this help
  exit                      quit`

// console evaluates commands read from in. Passwords are prompted
// separately so they never appear in the command line.
type console struct {
	svc     *auth.Service
	scanner *bufio.Scanner
	in      io.Reader
	out     io.Writer
}

func newConsole(svc *auth.Service, in io.Reader, out io.Writer) *console {
	return &console{
		svc:     svc,
		scanner: bufio.NewScanner(in),
		in:      in,
		out:     out,
	}
}

func (c *console) run(ctx context.Context) error {
	fmt.Fprintln(c.out, helpText)

	for ctx.Err() == nil {
		fmt.Fprint(c.out, "> ")

		if !c.scanner.Scan() {
			return c.scanner.Err()
		}

		fields := strings.Fields(c.scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := c.exec(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}

	return nil
}

func (c *console) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 1 {
			return fmt.Errorf("usage: register <email>")
		}

		pwd, err := c.promptPassword()
		if err != nil {
			return err
		}

		user, err := c.svc.Register(ctx, args[0], pwd)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.out, "registered %s, check your email for the activation token\n", user.Email)
	case "activate":
		if len(args) != 2 {
			return fmt.Errorf("usage: activate <email> <token>")
		}

		token, err := krypto.ParseToken(args[1])
		if err != nil {
			return err
		}

		activated, err := c.svc.Activate(ctx, args[0], token)
		if err != nil {
			return err
		}

		if !activated {
			fmt.Fprintln(c.out, "activation denied, request a fresh token with resend")
			return nil
		}

		fmt.Fprintln(c.out, "account activated")
	case "resend":
		if len(args) != 1 {
			return fmt.Errorf("usage: resend <email>")
		}

		if err := c.svc.ResendActivation(ctx, args[0]); err != nil {
			return err
		}

		fmt.Fprintln(c.out, "if the account exists and is not activated, a new token was sent")
	case "login":
		if len(args) != 1 {
			return fmt.Errorf("usage: login <email>")
		}

		pwd, err := c.promptPassword()
		if err != nil {
			return err
		}

		result, err := c.svc.Login(ctx, args[0], pwd)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.out, result.String())
	case "help":
		fmt.Fprintln(c.out, helpText)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}

	return nil
}

func (c *console) promptPassword() (string, error) {
	fmt.Fprint(c.out, "password: ")

	// Hide the input when attached to a terminal.
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return c.scanner.Text(), nil
}
