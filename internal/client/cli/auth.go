package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/auth"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/cryptox"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to the interactive input helpers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

var errNotLoggedIn = errors.New("not logged in")

// Register prompts for account details and creates the account. The user
// stays logged out until the email is confirmed and they log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	first, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, email, string(password), first, last); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}

	fmt.Fprintln(a.out, "Success! Check your inbox to confirm the email address, then log in.")
	return nil
}

// Confirm submits the token from a confirmation email.
func (a *App) Confirm(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste the confirmation token", a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.Confirm(ctx, token, "signup")
	if err != nil {
		fmt.Fprintln(a.out, "Confirmation failed:", err)
		return err
	}
	if msg == "" {
		msg = "Email confirmed"
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Login authenticates the user. When a full credential pair is remembered
// the user may log in with it directly; otherwise the remembered email is
// offered as the default.
func (a *App) Login(ctx context.Context) error {
	remembered := a.auth.RememberedCredentials(ctx)

	if remembered.Email != nil && remembered.Password != nil {
		use, err := getYesNo(a.reader, fmt.Sprintf("Log in as %s with the remembered password?", *remembered.Email), true, a.out)
		if err != nil {
			return err
		}
		if use {
			return a.finishLogin(a.auth.LoginWithRemembered(ctx))
		}
	}

	prompt := "Enter email"
	if remembered.Email != nil {
		prompt = fmt.Sprintf("Enter email [%s]", *remembered.Email)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" && remembered.Email != nil {
		email = *remembered.Email
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	remember, err := getYesNo(a.reader, "Remember me?", true, a.out)
	if err != nil {
		return err
	}

	return a.finishLogin(a.auth.Login(ctx, email, string(password), auth.WithRememberMe(remember)))
}

func (a *App) finishLogin(err error) error {
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}

	a.setPath(common.DashboardPath)
	if u := a.auth.State().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	}
	return nil
}

// Logout ends the session. Remembered credentials are kept.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.setPath(common.LoginPath)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI reloads the profile from the server.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return errNotLoggedIn
	}

	u := a.auth.RefreshUser(ctx)
	if u == nil {
		fmt.Fprintln(a.out, "Could not load the profile")
		return errors.New("refresh failed")
	}

	confirmed := "no"
	if u.EmailConfirmed {
		confirmed = "yes"
	}
	fmt.Fprintf(a.out, "ID:        %d\nEmail:     %s\nName:      %s\nConfirmed: %s\n",
		u.ID, u.Email, u.DisplayName(), confirmed)
	return nil
}

// Profile updates the user's first and last name.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return errNotLoggedIn
	}

	first, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}

	u, err := a.auth.UpdateProfile(ctx, first, last)
	if err != nil {
		fmt.Fprintln(a.out, "Profile update failed:", err)
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s\n", u.DisplayName())
	return nil
}

// Status prints what the client knows about the session without calling
// the server.
func (a *App) Status(ctx context.Context) error {
	s := a.auth.State()

	fmt.Fprintf(a.out, "Platform:  %s\n", a.platform)
	fmt.Fprintf(a.out, "Screen:    %s\n", a.CurrentPath())
	fmt.Fprintf(a.out, "Stored:    %t\n", a.auth.IsAuthenticated(ctx))

	if s.User != nil {
		fmt.Fprintf(a.out, "User:      %s <%s>\n", s.User.DisplayName(), s.User.Email)
	}
	if s.Token != "" {
		if info, err := auth.DescribeToken(s.Token); err == nil && !info.ExpiresAt.IsZero() {
			fmt.Fprintf(a.out, "Expires:   %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
		}
	}
	if c := a.auth.RememberedCredentials(ctx); c.Email != nil {
		kind := "email only"
		if c.Password != nil {
			kind = "email and password"
		}
		fmt.Fprintf(a.out, "Remembered: %s (%s)\n", *c.Email, kind)
	}
	return nil
}

// Forget clears remembered credentials.
func (a *App) Forget(ctx context.Context) error {
	a.auth.ClearRememberedCredentials(ctx)
	fmt.Fprintln(a.out, "Remembered credentials cleared")
	return nil
}
