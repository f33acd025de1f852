package handlers

import (
	"context"
	"errors"
	"fmt"

	"alumni/models"
	"alumni/utils"
)

func init() {
	register(
		Command{Name: "login", Summary: "log in and store the session", Run: login},
		Command{Name: "register", Summary: "create an account", Run: registerAccount},
		Command{Name: "logout", Summary: "end the session", Run: logout},
		Command{Name: "forgot-password", Summary: "email a password reset link", Run: forgotPassword},
		Command{Name: "reset-password", Summary: "set a new password with a reset token", Run: resetPassword},
		Command{Name: "whoami", Summary: "show the stored session", Run: whoami},
		Command{Name: "keygen", Summary: "print a random ALUMNI_SESSION_KEY", Run: keygen},
	)
}

func login(ctx context.Context, a *App, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := a.valueOrPrompt(*email, "Email")
	if err != nil {
		return err
	}
	if err := utils.ValidateEmail(e); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	p, err := a.valueOrPrompt(*password, "Password")
	if err != nil {
		return err
	}
	if p == "" {
		return errors.New("password is required")
	}

	resp, err := a.Client.Auth.Login(ctx, models.Credentials{Email: e, Password: p})
	if err != nil {
		a.Logger.Info("login failed", "email", e, "err", err)
		return err
	}
	username, _ := a.Client.Session().Username(ctx)
	a.printf("Logged in as %s.", username)
	if resp.Message != "" {
		a.printf("%s", resp.Message)
	}
	return nil
}

func registerAccount(ctx context.Context, a *App, args []string) error {
	fs := a.flags("register")
	var reg models.Registration
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Password, "password", "", "password (prompted when omitted)")
	fs.StringVar(&reg.FirstName, "first-name", "", "first name")
	fs.StringVar(&reg.LastName, "last-name", "", "last name")
	year := fs.String("year", "", "graduation year")
	fs.StringVar(&reg.Major, "major", "", "major")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg.GraduationYear = models.NumString(*year)

	var err error
	if reg.Password == "" {
		if reg.Password, err = a.prompt("Password"); err != nil {
			return err
		}
		confirm, err := a.prompt("Confirm password")
		if err != nil {
			return err
		}
		if !utils.SamePassword(reg.Password, confirm) {
			return errors.New("passwords do not match")
		}
	}
	if err := utils.ValidateRegistration(reg); err != nil {
		return err
	}

	resp, err := a.Client.Auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	if a.Client.Session().Authenticated(ctx) {
		a.printf("Registered and logged in as %s.", reg.Email)
		return nil
	}
	msg := resp.Message
	if msg == "" {
		msg = "Registration successful. You can now log in."
	}
	a.printf("%s", msg)
	return nil
}

func logout(ctx context.Context, a *App, args []string) error {
	if err := a.flags("logout").Parse(args); err != nil {
		return err
	}
	err := a.Client.Auth.Logout(ctx)
	a.printf("Logged out.")
	if err != nil {
		a.Logger.Warn("logout request failed; local session cleared anyway", "err", err)
	}
	return nil
}

func forgotPassword(ctx context.Context, a *App, args []string) error {
	fs := a.flags("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := a.valueOrPrompt(*email, "Email")
	if err != nil {
		return err
	}
	if err := utils.ValidateEmail(e); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	resp, err := a.Client.Auth.ForgotPassword(ctx, e)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "If that account exists, a reset link is on its way."
	}
	a.printf("%s", msg)
	return nil
}

func resetPassword(ctx context.Context, a *App, args []string) error {
	fs := a.flags("reset-password")
	password := fs.String("password", "", "new password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	token, err := oneArg(fs, "reset-token")
	if err != nil {
		return err
	}

	reset := models.PasswordReset{Password: *password, ConfirmPassword: *password}
	if reset.Password == "" {
		if reset.Password, err = a.prompt("New password"); err != nil {
			return err
		}
		if reset.ConfirmPassword, err = a.prompt("Confirm password"); err != nil {
			return err
		}
	}
	if !utils.SamePassword(reset.Password, reset.ConfirmPassword) {
		return errors.New("passwords do not match")
	}
	if err := utils.ValidatePassword(reset.Password); err != nil {
		return err
	}

	resp, err := a.Client.Auth.ResetPassword(ctx, token, reset)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "Password updated. You can now log in."
	}
	a.printf("%s", msg)
	return nil
}

func whoami(ctx context.Context, a *App, args []string) error {
	if err := a.flags("whoami").Parse(args); err != nil {
		return err
	}
	s, err := a.Client.Session().Load(ctx)
	if err != nil {
		return err
	}
	if !s.Authenticated() {
		a.printf("Not logged in.")
		return nil
	}
	name := s.Username
	if name == "" {
		name = "(unknown user)"
	}
	a.printf("Logged in as %s.", name)
	return nil
}

func keygen(_ context.Context, a *App, args []string) error {
	if err := a.flags("keygen").Parse(args); err != nil {
		return err
	}
	key, err := utils.GenerateToken(32)
	if err != nil {
		return err
	}
	a.printf("%s", key)
	return nil
}
