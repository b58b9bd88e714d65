package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/userdir/internal/client/services"
	"github.com/dmitrijs2005/userdir/internal/common"
)

// Login prompts for an email and password and checks them against the
// local directory.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	u, err := a.session.LoginWithCredentials(ctx, email, password)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Welcome, %s", u.FullName())
	return nil
}

// LoginService authenticates against the remote service. The configured
// service account is offered as the default.
func (a *App) LoginService(ctx context.Context) error {
	email, err := GetOptionalText(a.reader, "Enter email", a.config.ServiceEmail, a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Enter password (empty for the configured one)", a.out)
	if err != nil {
		return err
	}
	if password == "" && email == a.config.ServiceEmail {
		password = a.config.ServicePassword
	}

	p, err := a.session.LoginWithExternalPrincipal(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		a.notify.Error(err)
		return err
	}
	a.setMode(ModeOnline)
	a.notify.Success("Logged in as %s", p.DisplayName())
	return nil
}

// Register is self-registration: the create form, run while anonymous.
// The new account is not logged in automatically.
func (a *App) Register(ctx context.Context) error {
	in, err := a.readCreateForm()
	if err != nil {
		a.notify.Error(err)
		return err
	}
	u, err := a.users.Create(ctx, in)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Account created for %s, you can now log in", u.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Info("Logged out")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	p, ok := a.session.Current()
	if !ok {
		a.notify.Info("Not logged in")
		return nil
	}
	kind := "local account"
	if p.External {
		kind = "remote service"
	}
	a.notify.Info("%s <%s> via %s", p.DisplayName(), p.Email, kind)
	return nil
}

// Status probes the remote service and updates the connectivity mode.
func (a *App) Status(ctx context.Context) error {
	if err := a.remote.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		a.notify.Error(err)
		return err
	}
	a.setMode(ModeOnline)
	a.notify.Success("Remote service reachable at %s", a.config.APIBaseURL)
	return nil
}

// readCreateForm prompts for every create field. Validation is left to
// the service so the first failing rule is reported.
func (a *App) readCreateForm() (services.CreateUserInput, error) {
	var in services.CreateUserInput
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Email", &in.Email},
	}
	for _, f := range fields {
		if *f.dst, err = GetSimpleText(a.reader, f.prompt, a.out); err != nil {
			return in, err
		}
	}

	if in.Password, err = GetPassword(a.reader, "Password", a.out); err != nil {
		return in, err
	}
	if in.ConfirmPassword, err = GetPassword(a.reader, "Confirm password", a.out); err != nil {
		return in, err
	}

	if in.Avatar, err = a.readAvatarPath("Avatar image path (empty for none)"); err != nil {
		return in, err
	}
	return in, nil
}
