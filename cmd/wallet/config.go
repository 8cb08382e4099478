package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	urlFlag = cli.StringFlag{
		Name:  "walletd_url",
		Usage: "walletd HTTP interface url",
		Value: "http://localhost:3155",
	}

	apiTokenFlag = cli.StringFlag{
		Name:  "api_token",
		Usage: "the api token of the walletd HTTP interface",
		Value: "",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the wallet CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&urlFlag,
				&apiTokenFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"walletd_url": c.String("walletd_url"),
		"api_token":   c.String("api_token"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
