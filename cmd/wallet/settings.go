package main

import (
	"github.com/urfave/cli/v2"
)

var (
	settings = cli.Command{
		Name:   "settings",
		Usage:  "get the settings of the wallet",
		Action: settingsAction,
	}
	lock = cli.Command{
		Name:   "lock",
		Usage:  "lock the wallet",
		Action: lockAction,
	}
	unlock = cli.Command{
		Name:   "unlock",
		Usage:  "unlock the wallet",
		Action: unlockAction,
	}
	autolock = cli.Command{
		Name:  "autolock",
		Usage: "set the auto-lock timeout of the wallet",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "minutes",
				Usage:    "the number of minutes of inactivity after which the wallet locks",
				Required: true,
			},
		},
		Action: autoLockAction,
	}
)

func settingsAction(ctx *cli.Context) error {
	return getAndPrint("/v1/settings")
}

func lockAction(ctx *cli.Context) error {
	return postAndPrint("/v1/settings/lock", nil)
}

func unlockAction(ctx *cli.Context) error {
	return postAndPrint("/v1/settings/unlock", nil)
}

func autoLockAction(ctx *cli.Context) error {
	return postAndPrint("/v1/settings/auto-lock", map[string]int{
		"minutes": ctx.Int("minutes"),
	})
}
