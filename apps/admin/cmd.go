package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/darasahq/darasa-web/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client *backend.Client
}

// bearerToken satisfies backend.TokenSource for a token obtained at login.
type bearerToken string

func (t bearerToken) Token() string { return string(t) }

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  setrole -admin EMAIL -email EMAIL -role ROLE - change a user's role")
	fmt.Println("  stats -admin EMAIL - print platform user stats")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := flag.NewFlagSet("setrole", flag.ExitOnError)
	setRoleAdmin := setRoleCmd.String("admin", "", "The admin's email. The password will be prompted next.")
	setRoleEmail := setRoleCmd.String("email", "", "The target user's email.")
	setRoleRole := setRoleCmd.String("role", "", "The role to assign: student, instructor or admin.")

	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	statsAdmin := statsCmd.String("admin", "", "The admin's email. The password will be prompted next.")

	switch args[1] {
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleAdmin == "" || *setRoleEmail == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleAdmin, *setRoleEmail, *setRoleRole)
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statsAdmin == "" {
			statsCmd.Usage()
			return errHelp
		}
		return cli.stats(*statsAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}

// login prompts for the admin's password and returns a client bound to the
// resulting token.
func (cli *commandLine) login(email string) (*backend.Client, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return nil, err
	}
	if len(pwd) == 0 {
		return nil, errHelp
	}

	creds := backend.Credentials{Email: email, Password: string(pwd)}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	payload, err := cli.client.Auth.Login(ctxBg(), creds)
	if err != nil {
		return nil, err
	}
	return cli.client.WithSession(bearerToken(payload.Token), nil), nil
}
