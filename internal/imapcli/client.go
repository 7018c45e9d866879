// Package imapcli fetches raw messages from an IMAP mailbox over TLS.
// Mailboxes are always opened read-only; analysis never mutates the
// remote state.
package imapcli

import (
	"fmt"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

// #region client
// Client wraps one authenticated IMAP connection.
type Client struct {
	conn *imapclient.Client
	log  *zap.Logger
}

// Dial connects over implicit TLS and authenticates.
func Dial(host string, port int, username, password string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("imap: dial %s: %w", addr, err)
	}
	if err := conn.Login(username, password).Wait(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("imap: login %s: %w", username, err)
	}

	log.Debug("imap connected", zap.String("addr", addr), zap.String("user", username))
	return &Client{conn: conn, log: log}, nil
}

// Close logs out and drops the connection.
func (c *Client) Close() error {
	if err := c.conn.Logout().Wait(); err != nil {
		return c.conn.Close()
	}
	return c.conn.Close()
}

// #endregion client

// #region fetch

// Query selects which messages to fetch. Zero-value fields widen the
// search; an empty Query fetches the most recent messages of INBOX.
type Query struct {
	Mailbox string // default "INBOX"
	Unseen  bool
	From    string
	Subject string
	Limit   int // most recent N; default 50
}

// Fetched is one raw message pulled from the server. ID is the
// server-assigned UID when available, else the sequence number.
type Fetched struct {
	ID  string
	Raw []byte
}

// Fetch searches the mailbox and downloads the most recent matches.
// Messages that fail to download individually are skipped, not fatal.
func (c *Client) Fetch(q Query) ([]Fetched, error) {
	mailbox := q.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	if _, err := c.conn.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap: select %s: %w", mailbox, err)
	}

	criteria := &imap.SearchCriteria{}
	if q.Unseen {
		criteria.NotFlag = append(criteria.NotFlag, imap.FlagSeen)
	}
	if q.From != "" {
		criteria.Header = append(criteria.Header, imap.SearchCriteriaHeaderField{Key: "From", Value: q.From})
	}
	if q.Subject != "" {
		criteria.Header = append(criteria.Header, imap.SearchCriteriaHeaderField{Key: "Subject", Value: q.Subject})
	}

	data, err := c.conn.Search(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap: search: %w", err)
	}

	nums := data.AllSeqNums()
	if len(nums) > limit {
		nums = nums[len(nums)-limit:]
	}
	if len(nums) == 0 {
		return nil, nil
	}

	section := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}

	msgs, err := c.conn.Fetch(imap.SeqSetNum(nums...), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap: fetch: %w", err)
	}

	var out []Fetched
	for _, msg := range msgs {
		raw := msg.FindBodySection(section)
		if len(raw) == 0 {
			c.log.Warn("empty fetch result", zap.Uint32("seq", msg.SeqNum))
			continue
		}
		id := strconv.FormatUint(uint64(msg.UID), 10)
		if msg.UID == 0 {
			id = strconv.FormatUint(uint64(msg.SeqNum), 10)
		}
		out = append(out, Fetched{ID: id, Raw: raw})
	}

	c.log.Debug("imap fetched",
		zap.String("mailbox", mailbox),
		zap.Int("matched", len(nums)),
		zap.Int("downloaded", len(out)),
	)

	return out, nil
}

// #endregion fetch
