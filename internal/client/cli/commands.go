package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/strengthsmap/internal/client/models"
	"github.com/dmitrijs2005/strengthsmap/internal/shared"
)

// getSimpleText, getPassword and getLines are seams over the interactive
// input helpers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getLines      = GetLines
)

var errUsage = errors.New("usage: delete <id>")

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account and signs in, carrying over a guest list.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	merged, err := a.session.SignUp(ctx, email, string(password), name)
	a.reportMerge(merged)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login signs in, carrying over a guest list.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	merged, err := a.session.SignIn(ctx, email, string(password))
	a.reportMerge(merged)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", a.session.User().Email)
	return nil
}

func (a *App) reportMerge(res *models.SaveResult) {
	if res == nil {
		return
	}
	fmt.Fprintf(a.out, "Moved %d guest capabilities to your account\n", len(res.Added))
	if res.Notice != "" {
		fmt.Fprintln(a.out, res.Notice)
	}
}

func (a *App) Guest(_ context.Context) error {
	if err := a.session.ContinueAsGuest(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Continuing as guest; your list is kept until you exit or sign in")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Merge retries moving a guest list that failed to merge at sign-in.
func (a *App) Merge(ctx context.Context) error {
	res, err := a.session.MergeGuest(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintln(a.out, "Nothing to merge")
		return nil
	}
	a.reportMerge(res)
	return nil
}

func (a *App) Whoami(_ context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, a.state().String())
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s\n", u.Name, u.Email, u.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.session.Capabilities(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No capabilities yet")
		return nil
	}
	for _, e := range items {
		fmt.Fprintf(a.out, "%s  %s\n", e.ID, e.Content)
	}
	return nil
}

// Add saves comma-separated args, or prompts for one item per line.
func (a *App) Add(ctx context.Context, args []string) error {
	items := splitItems(args)
	if len(items) == 0 {
		lines, err := getLines(a.reader, "Enter capabilities, one per line", a.out)
		if err != nil {
			return err
		}
		items = lines
	}
	if len(items) == 0 {
		return nil
	}

	res, err := a.session.SaveCapabilities(ctx, items)
	if err != nil {
		return err
	}
	for _, e := range res.Added {
		fmt.Fprintf(a.out, "Added %s\n", e.Content)
	}
	if res.Notice != "" {
		fmt.Fprintln(a.out, res.Notice)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.session.DeleteCapability(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Community prints the shared taxonomy grouped by category.
func (a *App) Community(ctx context.Context) error {
	items, err := a.api.ListCommunity(ctx)
	if err != nil {
		return err
	}

	byCategory := make(map[string][]string)
	for _, e := range items {
		byCategory[e.Category] = append(byCategory[e.Category], e.Capability)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Fprintln(a.out, c)
		for _, capability := range byCategory[c] {
			fmt.Fprintf(a.out, "  - %s\n", capability)
		}
	}
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	category, err := getSimpleText(a.reader, "Enter category", a.out)
	if err != nil {
		return err
	}
	capability, err := getSimpleText(a.reader, "Enter capability", a.out)
	if err != nil {
		return err
	}

	e, created, err := a.api.SubmitCommunity(ctx, category, capability)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(a.out, "Added %s / %s\n", e.Category, e.Capability)
	} else {
		fmt.Fprintf(a.out, "Already listed as %s / %s\n", e.Category, e.Capability)
	}
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to delete your account and all its capabilities", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.session.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
