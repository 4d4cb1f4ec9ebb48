package main

import (
	"fmt"

	"github.com/darasahq/darasa-web/core"
	"github.com/darasahq/darasa-web/core/session"
)

var errUserNotFound = fmt.Errorf("user not found")

func (cli *commandLine) setRole(adminEmail, email, role string) error {
	email = core.CleanString(email, true /* lower */)
	role = core.CleanString(role, true /* lower */)

	var known bool
	for _, r := range session.AllRoles {
		if role == r {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown role %q", role)
	}

	client, err := cli.login(adminEmail)
	if err != nil {
		return err
	}

	accounts, err := client.Users.Search(ctxBg(), email)
	if err != nil {
		return err
	}
	for _, acct := range accounts {
		if acct.Email == email {
			if _, err := client.Users.SetRole(ctxBg(), acct.ID, role); err != nil {
				return err
			}
			fmt.Printf("%s is now a %s\n", acct.Email, role)
			return nil
		}
	}
	return errUserNotFound
}
