// Command basketctl is a terminal client for a basket service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/config"
)

const usage = `usage: basketctl <command> [args]

account:
  signup <email>               create an account (password from -password, $BASKET_PASSWORD or stdin)
  signin <email>               sign in
  signout                      sign out
  whoami                       show the signed-in user and household

household:
  household                    show the active household
  household create <name>      create a household and switch to it
  household switch <id>        switch the active household
  household members            list members
  household invite <email>     invite someone by email
  household accept <code>      accept an invitation

categories:
  categories                   list categories
  categories add <name>
  categories rename <id> <name>
  categories delete <id>       items move to Other

lists:
  lists [-all]                 list grocery lists (-all includes completed)
  list new [name]
  list show <id>               items grouped by category
  list rename <id> <name>
  list dup <id>
  list complete <id> <total> <payment method> [receipt url]
  list receipt <id> <file>
  list archive <id>
  list delete <id>
  history <query>              search completed lists
  spend                        spending summary

items:
  item add <list id> <name> [-c category] [-q quantity] [-u unit]
  item edit <id> [-n name] [-q quantity] [-u unit]
  item check <id>              toggle checked
  item move <id> <category>
  item rm <id>
  search <list id> <query>
`

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "basketctl: %s\n", apperr.Message(err))
		if apperr.Is(err, apperr.KindValidation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
