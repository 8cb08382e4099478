package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
)

const (
	eventAccountBalanceChanged   = "ACCOUNT_BALANCE_CHANGED"
	eventTransactionReceived     = "TRANSACTION_RECEIVED"
	eventTransactionStatusChange = "TRANSACTION_STATUS_CHANGED"
	eventNodeSynced              = "NODE_SYNCED"
	eventAny                     = "*"
)

var (
	eventFlags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "balance_changed_event",
			Usage: "triggers the webhook endpoint whenever the balance of an account changes",
		},
		&cli.BoolFlag{
			Name:  "tx_received_event",
			Usage: "triggers the webhook endpoint whenever an account receives funds",
		},
		&cli.BoolFlag{
			Name:  "tx_status_event",
			Usage: "triggers the webhook endpoint whenever the status of an outgoing transaction changes",
		},
		&cli.BoolFlag{
			Name:  "node_synced_event",
			Usage: "triggers the webhook endpoint whenever the node completes synchronization",
		},
		&cli.BoolFlag{
			Name:  "any_event",
			Usage: "triggers the webhook endpoint whenever any event occurs",
		},
	}

	webhook = cli.Command{
		Name:  "webhook",
		Usage: "add or remove webhooks",
		Subcommands: []*cli.Command{
			webhookAddCmd, webhookRemoveCmd,
		},
	}
	listwebhooks = cli.Command{
		Name:   "webhooks",
		Usage:  "list all webhooks, optionally filtered by target event",
		Flags:  eventFlags,
		Action: listWebhooksAction,
	}

	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "the webhook endpoint to be called whenever the target event occurs",
				Value: "",
			},
			&cli.StringFlag{
				Name: "secret",
				Usage: "the eventual secret to use to generate an OAuth token for " +
					"authenticating requests to the webhook endpoint",
				Value: "",
			},
		}, eventFlags...),
		Action: addWebhookAction,
	}

	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "the id of the webhook to remove",
				Value: "",
			},
		},
		Action: removeWebhookAction,
	}
)

func addWebhookAction(ctx *cli.Context) error {
	event, err := parseEvent(ctx)
	if err != nil {
		return err
	}
	if event == "" {
		return fmt.Errorf("missing event")
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.post("/v1/webhooks", map[string]string{
		"event":    event,
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	hookID := ctx.String("id")
	if hookID == "" {
		return &invalidUsageError{ctx, "remove"}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	if _, err := client.delete("/v1/webhooks/" + url.PathEscape(hookID)); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("removed webhook with id:", hookID)
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	event, err := parseEvent(ctx)
	if err != nil {
		return err
	}

	path := "/v1/webhooks"
	if event != "" {
		path += "?event=" + url.QueryEscape(event)
	}
	return getAndPrint(path)
}

func parseEvent(ctx *cli.Context) (string, error) {
	events := []struct {
		flag  string
		event string
	}{
		{"balance_changed_event", eventAccountBalanceChanged},
		{"tx_received_event", eventTransactionReceived},
		{"tx_status_event", eventTransactionStatusChange},
		{"node_synced_event", eventNodeSynced},
		{"any_event", eventAny},
	}

	event := ""
	for _, e := range events {
		if !ctx.Bool(e.flag) {
			continue
		}
		if event != "" {
			return "", fmt.Errorf("only one event can be set for a webhook")
		}
		event = e.event
	}
	return event, nil
}
