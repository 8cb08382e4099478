package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

var (
	idFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "the id of the account",
		Required: true,
	}

	snapshot = cli.Command{
		Name:   "snapshot",
		Usage:  "get accounts, node state and settings of the wallet",
		Action: snapshotAction,
	}
	node = cli.Command{
		Name:   "node",
		Usage:  "get the state of the connection with the node",
		Action: nodeAction,
	}
	accounts = cli.Command{
		Name:   "accounts",
		Usage:  "list all accounts",
		Action: accountsAction,
	}
	account = cli.Command{
		Name:  "account",
		Usage: "get the details of an account, its recovery phrase included",
		Flags: []cli.Flag{
			idFlag,
			&cli.BoolFlag{
				Name:  "transactions",
				Usage: "list only the transactions of the account",
			},
		},
		Action: accountAction,
	}
	setname = cli.Command{
		Name:  "setname",
		Usage: "set the display name of an account",
		Flags: []cli.Flag{
			idFlag,
			&cli.StringFlag{
				Name:     "name",
				Usage:    "the new name of the account",
				Required: true,
			},
		},
		Action: setNameAction,
	}
	markwritten = cli.Command{
		Name:   "markwritten",
		Usage:  "mark the recovery phrase of an account as written down",
		Flags:  []cli.Flag{idFlag},
		Action: markWrittenAction,
	}
	markrestored = cli.Command{
		Name:   "markrestored",
		Usage:  "mark an account as restored from its recovery phrase",
		Flags:  []cli.Flag{idFlag},
		Action: markRestoredAction,
	}
)

func snapshotAction(ctx *cli.Context) error {
	return getAndPrint("/v1/snapshot")
}

func nodeAction(ctx *cli.Context) error {
	return getAndPrint("/v1/node")
}

func accountsAction(ctx *cli.Context) error {
	return getAndPrint("/v1/accounts")
}

func accountAction(ctx *cli.Context) error {
	path := accountPath(ctx.String("id"))
	if ctx.Bool("transactions") {
		path += "/transactions"
	}
	return getAndPrint(path)
}

func setNameAction(ctx *cli.Context) error {
	return postAndPrint(
		accountPath(ctx.String("id"))+"/name",
		map[string]string{"name": ctx.String("name")},
	)
}

func markWrittenAction(ctx *cli.Context) error {
	return postAndPrint(accountPath(ctx.String("id"))+"/recovery-written", nil)
}

func markRestoredAction(ctx *cli.Context) error {
	return postAndPrint(accountPath(ctx.String("id"))+"/restored", nil)
}

func accountPath(id string) string {
	return fmt.Sprintf("/v1/accounts/%s", url.PathEscape(id))
}

func getAndPrint(path string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.get(path)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func postAndPrint(path string, body interface{}) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.post(path, body)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
