package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esperstack/esper-mail/internal/imapcli"
	"github.com/esperstack/esper-mail/internal/pipeline"
)

var (
	imapHost     string
	imapPort     int
	imapUser     string
	imapPassword string
	imapProvider string
	imapMailbox  string
	imapLimit    int
	imapUnseen   bool
	imapFrom     string
	imapSubject  string
)

// imapCmd fetches messages from a live mailbox and analyzes them.
var imapCmd = &cobra.Command{
	Use:   "imap",
	Short: "Fetch and analyze messages from an IMAP mailbox",
	Long: `Connect to an IMAP server over TLS, fetch the most recent messages
matching the search flags, and analyze each one. The mailbox is opened
read-only; nothing on the server is modified.

The password comes from --password, the config file, or the
IMAP_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		imap := cfg.IMAP
		if imapProvider != "" {
			imap.Provider = imapProvider
		}
		if imap.Provider != "" && imapHost == "" && imap.Host == "" {
			p, err := imapcli.LookupProvider(imap.Provider)
			if err != nil {
				return err
			}
			imap.Host = p.Host
			imap.Port = p.Port
		}
		if imapHost != "" {
			imap.Host = imapHost
		}
		if cmd.Flags().Changed("port") {
			imap.Port = imapPort
		}
		if imapUser != "" {
			imap.Username = imapUser
		}
		if imapPassword != "" {
			imap.Password = imapPassword
		}
		if imapMailbox != "" {
			imap.Mailbox = imapMailbox
		}
		if cmd.Flags().Changed("limit") {
			imap.Limit = imapLimit
		}

		switch {
		case imap.Host == "":
			return fmt.Errorf("no IMAP host: set --host or --provider")
		case imap.Username == "":
			return fmt.Errorf("no IMAP username: set --user")
		case imap.Password == "":
			return fmt.Errorf("no IMAP password: set --password or IMAP_PASSWORD")
		}

		client, err := imapcli.Dial(imap.Host, imap.Port, imap.Username, imap.Password, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		fetched, err := client.Fetch(imapcli.Query{
			Mailbox: imap.Mailbox,
			Unseen:  imapUnseen,
			From:    imapFrom,
			Subject: imapSubject,
			Limit:   imap.Limit,
		})
		if err != nil {
			return err
		}
		if len(fetched) == 0 {
			fmt.Println("no messages matched")
			return nil
		}

		proc, closeStore, err := newProcessor()
		if err != nil {
			return err
		}
		if closeStore != nil {
			defer closeStore()
		}

		items := make([]pipeline.Item, 0, len(fetched))
		for _, f := range fetched {
			items = append(items, pipeline.Item{ID: f.ID, Raw: f.Raw})
		}
		res := proc.ProcessBatch(items)
		return emit(res.Analyses, res.Failures)
	},
}

func init() {
	f := imapCmd.Flags()
	f.StringVar(&imapHost, "host", "", "IMAP server hostname")
	f.IntVar(&imapPort, "port", 993, "IMAP server port")
	f.StringVar(&imapUser, "user", "", "IMAP username or email address")
	f.StringVar(&imapPassword, "password", "", "IMAP password (prefer IMAP_PASSWORD)")
	f.StringVar(&imapProvider, "provider", "", "provider preset (see 'esper-mail providers')")
	f.StringVar(&imapMailbox, "mailbox", "", "mailbox to fetch from (default INBOX)")
	f.IntVar(&imapLimit, "limit", 50, "most recent N messages to fetch")
	f.BoolVar(&imapUnseen, "unseen", false, "only unread messages")
	f.StringVar(&imapFrom, "from", "", "only messages from this sender")
	f.StringVar(&imapSubject, "subject", "", "only messages whose subject contains this text")

	rootCmd.AddCommand(imapCmd)
}
