package main

import (
	"context"
	"fmt"

	"github.com/trezcool/shule/core/school"
)

func (cli *commandLine) login(ctx context.Context, username, password string) error {
	req := school.LoginRequest{Username: username, Password: password}
	if err := req.Validate(cli.validate); err != nil {
		return err
	}
	resp, err := cli.api.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", displayName(resp.User), resp.User.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.api.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	me, err := cli.api.Auth.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s) #%d %s\n", displayName(me), me.Role, me.ID, me.Email)
	return nil
}

func displayName(me school.Me) string {
	if me.Name != "" {
		return me.Name
	}
	return me.Username
}
