package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/client/view"
)

func renderPage(w io.Writer, p view.Page) {
	if p.TotalCount == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tAVATAR")
	for _, u := range p.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FullName(), u.Email, u.Status, avatarLabel(u))
	}
	tw.Flush()
}

func renderUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s (%s)\n", u.FullName(), u.Initials())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Status:\t%s\n", u.Status)
	if u.Avatar.URL() != "" {
		fmt.Fprintf(tw, "Avatar:\t%s\n", u.Avatar.URL())
	}
	if created, ok := models.CreatedAt(u.ID); ok {
		fmt.Fprintf(tw, "Created:\t%s\n", created.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func avatarLabel(u models.User) string {
	switch {
	case u.Avatar.IsDurable():
		return "yes"
	case u.Avatar.Kind() == models.AvatarNone:
		return "-"
	default:
		return "pending"
	}
}

func pageFooter(p view.Page, term string, f view.Filter) string {
	s := fmt.Sprintf("Page %d/%d, %d user(s), filter %s", p.Page, max(p.TotalPages, 1), p.TotalCount, f)
	if term != "" {
		s += fmt.Sprintf(", search %q", term)
	}
	return s
}
