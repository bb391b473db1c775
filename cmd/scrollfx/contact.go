package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildworks/scrollfx/internal/contact"
)

func newContactCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send and inspect quote requests",
	}
	cmd.AddCommand(newContactSendCommand(a), newContactListCommand(a))
	return cmd
}

func newContactSendCommand(a *app) *cobra.Command {
	var d contact.FormData
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a quote request to a running contact API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := contact.NewClient(a.cfg.Server.APIURL, a.cfg.Server.APITimeout)
			form := contact.NewForm(client)
			form.Load(d)

			err := form.Submit(cmd.Context())
			var invalid *contact.ValidationError
			if errors.As(err, &invalid) {
				for _, f := range invalid.Errors.Fields() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, invalid.Errors[f])
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), contact.ThankYou)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.Name, "name", "", "your name")
	f.StringVar(&d.Email, "email", "", "your email")
	f.StringVar(&d.Phone, "phone", "", "phone number (optional)")
	f.StringVar(&d.ProjectType, "type", contact.DefaultProjectType, "project type")
	f.StringVar(&d.Budget, "budget", contact.DefaultBudget, "budget range")
	f.StringVar(&d.Message, "message", "", "tell us about your project")
	f.String("api", "http://localhost:8080", "contact API base URL")
	a.bind(cmd, map[string]string{"server.api_url": "api"})
	return cmd
}

func newContactListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the inquiries stored in the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			inbox, err := contact.OpenInbox(a.cfg.Server.InboxPath)
			if err != nil {
				return err
			}
			defer inbox.Close()

			all, err := inbox.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tTYPE\tBUDGET")
			for _, q := range all {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", q.ReceivedAt().Local().Format(time.DateTime),
					q.Name, q.Email, q.ProjectType, q.Budget)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("inbox", "inquiries.db", "inquiry store")
	a.bind(cmd, map[string]string{"server.inbox": "inbox"})
	return cmd
}
