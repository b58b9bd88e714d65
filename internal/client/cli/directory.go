package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/client/blob"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/client/services"
	"github.com/dmitrijs2005/userdir/internal/client/view"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/filex"
)

// List prints the current page of the projection.
func (a *App) List(context.Context) error {
	p := a.view.Current()
	renderPage(a.out, p)
	a.notify.Muted("%s", pageFooter(p, a.view.SearchTerm(), a.view.Filter()))
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	a.view.SetSearchTerm(term)
	return a.List(ctx)
}

func (a *App) Filter(ctx context.Context, name string) error {
	f, err := view.ParseFilter(name)
	if err != nil {
		a.notify.Error(common.Invalid("filter", "use all, active, inactive or recent"))
		return err
	}
	a.view.SetFilter(f)
	return a.List(ctx)
}

func (a *App) Page(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		a.notify.Error(common.Invalid("page", "expected a page number"))
		return err
	}
	a.view.SetPage(n)
	return a.List(ctx)
}

func (a *App) Next(ctx context.Context) error {
	a.view.Next()
	return a.List(ctx)
}

func (a *App) Prev(ctx context.Context) error {
	a.view.Prev()
	return a.List(ctx)
}

// Show fetches one user. Remote users are fetched fresh and never written
// back to the directory.
func (a *App) Show(ctx context.Context, arg string) error {
	id, err := a.parseID(arg)
	if err != nil {
		return err
	}
	u, err := a.users.Detail(ctx, id)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	renderUser(a.out, u)
	return nil
}

// AvatarLink prints a time-limited link to the avatar of a directory user.
func (a *App) AvatarLink(ctx context.Context, arg string) error {
	id, err := a.parseID(arg)
	if err != nil {
		return err
	}
	u, ok := a.store.Get(id)
	if !ok {
		err := fmt.Errorf("%w: user %d", common.ErrNotFound, id)
		a.notify.Error(err)
		return err
	}
	if u.Avatar.URL() == "" {
		a.notify.Info("%s has no avatar", u.FullName())
		return nil
	}
	link, err := a.users.SignedAvatarURL(ctx, u, blob.DefaultSignedURLTTL)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *App) Create(ctx context.Context) error {
	in, err := a.readCreateForm()
	if err != nil {
		a.notify.Error(err)
		return err
	}
	status, err := GetOptionalText(a.reader, "Status (active, inactive, pending)", string(models.StatusActive), a.out)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	in.Status = models.ParseStatus(status)

	u, err := a.users.Create(ctx, in)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Created %s (id %d)", u.FullName(), u.ID)
	return nil
}

// Edit walks the edit form pre-filled from the stored record. Empty
// answers keep the current values.
func (a *App) Edit(ctx context.Context, arg string) error {
	id, err := a.parseID(arg)
	if err != nil {
		return err
	}
	u, ok := a.store.Get(id)
	if !ok {
		err := fmt.Errorf("%w: user %d", common.ErrNotFound, id)
		a.notify.Error(err)
		return err
	}

	e := services.EditFor(u)
	if err := a.readEditForm(&e); err != nil {
		a.notify.Error(err)
		return err
	}

	updated, err := a.users.CommitEdit(ctx, e)
	if err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Updated %s", updated.FullName())
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := a.parseID(arg)
	if err != nil {
		return err
	}
	if err := a.users.Delete(ctx, id, confirmer(a.reader, a.out)); err != nil {
		a.notify.Error(err)
		return err
	}
	a.notify.Success("Deleted user %d", id)
	return nil
}

func (a *App) readEditForm(e *services.Edit) error {
	var err error
	if e.FirstName, err = GetOptionalText(a.reader, "First name", e.FirstName, a.out); err != nil {
		return err
	}
	if e.LastName, err = GetOptionalText(a.reader, "Last name", e.LastName, a.out); err != nil {
		return err
	}
	if e.Email, err = GetOptionalText(a.reader, "Email", e.Email, a.out); err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "New avatar image path (empty keeps current, '-' removes)", a.out)
	if err != nil {
		return err
	}
	switch path {
	case "":
	case "-":
		e.Avatar = models.Avatar{}
	default:
		if e.NewAvatar, err = loadAvatar(path); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) readAvatarPath(prompt string) (*models.Attachment, error) {
	path, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil || path == "" {
		return nil, err
	}
	return loadAvatar(path)
}

func loadAvatar(path string) (*models.Attachment, error) {
	f, err := filex.ReadAttachment(path)
	if err != nil {
		return nil, common.Invalid("avatar", err.Error())
	}
	return f, nil
}

func (a *App) parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		err := common.Invalid("id", "expected a positive user id")
		a.notify.Error(err)
		return 0, err
	}
	return id, nil
}
