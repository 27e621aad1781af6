package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

// parse parses fs allowing flags to follow positional arguments, and
// returns the positionals.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, apperr.Validation("basketctl", "%v", err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func (c *cli) signIn(ctx context.Context, signUp bool, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	password := fs.String("password", os.Getenv("BASKET_PASSWORD"), "account password")
	args, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := need(args, 1, "email"); err != nil {
		return err
	}
	if *password == "" {
		if *password, err = c.readLine("Password: "); err != nil {
			return err
		}
	}

	session := c.app.Session()
	if signUp {
		err = session.SignUp(ctx, args[0], *password)
	} else {
		err = session.SignIn(ctx, args[0], *password)
	}
	if err != nil {
		return err
	}
	c.saveHousehold(session.HouseholdID())
	fmt.Fprintf(c.out, "Signed in as %s\n", session.User().Email)
	return nil
}

func (c *cli) signOut(ctx context.Context) error {
	err := c.app.Session().SignOut(ctx)
	c.saveHousehold("")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	session := c.app.Session()
	fmt.Fprintf(c.out, "%s\n", session.User().Email)
	h, err := session.Household(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "household: %s (%s)\n", h.Name, h.ID)
	return nil
}

func (c *cli) household(ctx context.Context, args []string) error {
	session := c.app.Session()
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "show":
		h, err := session.Household(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s (%s)\n", h.Name, h.ID)
		tw := c.table()
		fmt.Fprintln(tw, "ID\tROLE\tJOINED")
		for _, m := range session.Memberships() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.HouseholdID, m.Role, m.JoinedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	case "create":
		if err := need(args, 1, "household name"); err != nil {
			return err
		}
		h, err := session.CreateHousehold(ctx, args[0])
		if err != nil {
			return err
		}
		c.saveHousehold(h.ID)
		fmt.Fprintf(c.out, "Created %s (%s)\n", h.Name, h.ID)
	case "switch":
		if err := need(args, 1, "household id"); err != nil {
			return err
		}
		if err := session.SwitchHousehold(ctx, args[0]); err != nil {
			return err
		}
		c.saveHousehold(args[0])
		fmt.Fprintf(c.out, "Switched to %s\n", args[0])
	case "members":
		members, err := session.Members(ctx)
		if err != nil {
			return err
		}
		tw := c.table()
		fmt.Fprintln(tw, "USER\tROLE\tJOINED")
		for _, m := range members {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.UserID, m.Role, m.JoinedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	case "invite":
		if err := need(args, 1, "email"); err != nil {
			return err
		}
		inv, err := session.InvitePartner(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Invited %s, code %s\n", inv.Email, inv.Code)
	case "accept":
		if err := need(args, 1, "invitation code"); err != nil {
			return err
		}
		if err := session.AcceptInvitation(ctx, args[0]); err != nil {
			return err
		}
		c.saveHousehold(session.HouseholdID())
		fmt.Fprintf(c.out, "Joined %s\n", session.HouseholdID())
	default:
		return apperr.Validation("basketctl", "unknown household command %q", sub)
	}
	return nil
}

func (c *cli) categories(ctx context.Context, args []string) error {
	store := c.app.Categories()
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		if err := store.FetchCategories(ctx); err != nil {
			return err
		}
		tw := c.table()
		fmt.Fprintln(tw, "ID\tNAME\tDEFAULT")
		for _, cat := range store.Categories() {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", cat.ID, cat.Name, cat.IsDefault)
		}
		return tw.Flush()
	case "add":
		if err := need(args, 1, "category name"); err != nil {
			return err
		}
		cat, err := store.AddCategory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added %s (%s)\n", cat.Name, cat.ID)
	case "rename":
		if err := need(args, 2, "category id and name"); err != nil {
			return err
		}
		if err := store.UpdateCategory(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Renamed to %s\n", args[1])
	case "delete":
		if err := need(args, 1, "category id"); err != nil {
			return err
		}
		if err := store.DeleteCategory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted, items moved to %s\n", model.OtherCategory)
	default:
		return apperr.Validation("basketctl", "unknown categories command %q", sub)
	}
	return nil
}

func (c *cli) lists(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lists", flag.ContinueOnError)
	all := fs.Bool("all", false, "include completed lists")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	store := c.app.Lists()
	if err := store.FetchLists(ctx); err != nil {
		return err
	}
	lists := store.ActiveLists()
	if *all {
		lists = store.Lists()
	}

	tw := c.table()
	fmt.Fprintln(tw, "ID\tNAME\tWEEK\tSTATUS")
	for _, l := range lists {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Name, l.WeekOf, status(l))
	}
	return tw.Flush()
}

func status(l model.GroceryList) string {
	if !l.IsCompleted {
		return "active"
	}
	if l.TotalSpent != nil {
		return fmt.Sprintf("completed %.2f %s", *l.TotalSpent, l.PaymentMethod)
	}
	return "completed"
}

func (c *cli) list(ctx context.Context, args []string) error {
	if err := need(args, 1, "list command"); err != nil {
		return err
	}
	store := c.app.Lists()
	sub, args := args[0], args[1:]

	switch sub {
	case "new":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		l, err := store.CreateList(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Created %s (%s)\n", l.Name, l.ID)
	case "show":
		if err := need(args, 1, "list id"); err != nil {
			return err
		}
		return c.showList(ctx, args[0])
	case "rename":
		if err := need(args, 2, "list id and name"); err != nil {
			return err
		}
		l, err := store.UpdateListName(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Renamed to %s\n", l.Name)
	case "dup":
		if err := need(args, 1, "list id"); err != nil {
			return err
		}
		l, err := store.DuplicateList(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Created %s (%s)\n", l.Name, l.ID)
	case "complete":
		if err := need(args, 3, "list id, total and payment method"); err != nil {
			return err
		}
		total, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return apperr.Validation("basketctl", "total must be a number")
		}
		receiptURL := ""
		if len(args) > 3 {
			receiptURL = args[3]
		}
		l, err := store.CompleteList(ctx, args[0], total, args[2], receiptURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Completed %s: %s\n", l.Name, status(*l))
	case "receipt":
		if err := need(args, 2, "list id and file"); err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return apperr.Validation("basketctl", "open receipt: %v", err)
		}
		defer f.Close()
		url, err := store.UploadReceipt(ctx, args[0], mime.TypeByExtension(filepath.Ext(args[1])), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, url)
	case "archive":
		if err := need(args, 1, "list id"); err != nil {
			return err
		}
		ok, err := store.ArchiveList(ctx, args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(c.out, "Archived")
		}
	case "delete":
		if err := need(args, 1, "list id"); err != nil {
			return err
		}
		ok, err := store.DeleteList(ctx, args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(c.out, "Deleted")
		}
	default:
		return apperr.Validation("basketctl", "unknown list command %q", sub)
	}
	return nil
}

func (c *cli) showList(ctx context.Context, listID string) error {
	if err := c.app.Categories().FetchCategories(ctx); err != nil {
		return err
	}
	store := c.app.Lists()
	if err := store.FetchListItems(ctx, listID); err != nil {
		return err
	}

	tw := c.table()
	for _, g := range store.GroupedItems(listID) {
		fmt.Fprintf(tw, "%s\n", g.Category)
		for _, item := range g.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", check(item.IsChecked), item.Name, quantity(item), item.ID)
		}
	}
	return tw.Flush()
}

func check(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func quantity(item model.GroceryItem) string {
	if item.Unit == "" {
		return strconv.Itoa(item.Quantity)
	}
	return strconv.Itoa(item.Quantity) + " " + item.Unit
}

func (c *cli) item(ctx context.Context, args []string) error {
	if err := need(args, 1, "item command"); err != nil {
		return err
	}
	store := c.app.Lists()
	sub, args := args[0], args[1:]

	switch sub {
	case "add":
		fs := flag.NewFlagSet("item add", flag.ContinueOnError)
		category := fs.String("c", "", "category, guessed from the name when empty")
		qty := fs.Int("q", 1, "quantity")
		unit := fs.String("u", "", "unit")
		args, err := parse(fs, args)
		if err != nil {
			return err
		}
		if err := need(args, 2, "list id and item name"); err != nil {
			return err
		}
		item, err := store.AddItem(ctx, args[0], args[1], *category, *qty, *unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added %s to %s (%s)\n", item.Name, item.Category, item.ID)
	case "edit":
		fs := flag.NewFlagSet("item edit", flag.ContinueOnError)
		name := fs.String("n", "", "name")
		qty := fs.Int("q", 0, "quantity")
		unit := fs.String("u", "", "unit")
		args, err := parse(fs, args)
		if err != nil {
			return err
		}
		if err := need(args, 1, "item id"); err != nil {
			return err
		}
		var p model.ItemPatch
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "n":
				p.Name = name
			case "q":
				p.Quantity = qty
			case "u":
				p.Unit = unit
			}
		})
		item, err := store.UpdateItem(ctx, args[0], p)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s\n", item.Name, quantity(*item))
	case "check":
		if err := need(args, 1, "item id"); err != nil {
			return err
		}
		item, err := store.ToggleItemCheck(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s\n", check(item.IsChecked), item.Name)
	case "move":
		if err := need(args, 2, "item id and category"); err != nil {
			return err
		}
		item, err := store.MoveItemToCategory(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Moved %s to %s\n", item.Name, item.Category)
	case "rm":
		if err := need(args, 1, "item id"); err != nil {
			return err
		}
		if err := store.DeleteItem(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Removed")
	default:
		return apperr.Validation("basketctl", "unknown item command %q", sub)
	}
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	if err := need(args, 2, "list id and query"); err != nil {
		return err
	}
	store := c.app.Lists()
	if err := store.FetchListItems(ctx, args[0]); err != nil {
		return err
	}
	tw := c.table()
	for _, item := range store.SearchItems(args[0], args[1]) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", check(item.IsChecked), item.Name, item.Category, item.ID)
	}
	return tw.Flush()
}

func (c *cli) history(ctx context.Context, args []string) error {
	if err := need(args, 1, "query"); err != nil {
		return err
	}
	store := c.app.Lists()
	if err := store.FetchLists(ctx); err != nil {
		return err
	}
	tw := c.table()
	for _, l := range store.SearchHistory(args[0]) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Name, l.WeekOf, status(l))
	}
	return tw.Flush()
}

func (c *cli) spend(ctx context.Context) error {
	store := c.app.Lists()
	if err := store.FetchLists(ctx); err != nil {
		return err
	}
	s := store.SpendSummary()
	fmt.Fprintf(c.out, "%d completed lists, %.2f total\n", s.Lists, s.Total)
	tw := c.table()
	for method, total := range s.ByPayment {
		fmt.Fprintf(tw, "  %s\t%.2f\n", method, total)
	}
	return tw.Flush()
}
