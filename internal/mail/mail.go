// Package mail parses raw RFC 822 messages into the metadata and body
// text the analysis pipeline consumes. Multipart messages prefer
// text/plain over text/html, attachments are skipped, and HTML bodies
// are reduced to their visible text.
package mail

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	gomail "github.com/emersion/go-message/mail"
	"golang.org/x/net/html"

	"github.com/esperstack/esper-mail/internal/packet"

	_ "github.com/emersion/go-message/charset"
)

// bodyCapRunes bounds how much body text reaches the agents. Everything
// that matters for routing sits near the top of a message.
const bodyCapRunes = 8000

// #region message

// Message is one parsed email ready for analysis.
type Message struct {
	Metadata packet.Metadata
	Body     string
}

// FullText is the text the agents score: headers that carry semantic
// signal, then the body. The exact framing is part of the digest
// inputs, so it never changes.
func (m Message) FullText() string {
	return fmt.Sprintf("From: %s\nSubject: %s\n\n%s", m.Metadata.Sender, m.Metadata.Subject, m.Body)
}

// #endregion message

// #region parse

// Parse reads one raw message. Header decoding failures degrade to the
// raw header value rather than failing the whole message; only an
// unreadable envelope is an error.
func Parse(r io.Reader) (Message, error) {
	mr, err := gomail.CreateReader(r)
	if err != nil {
		return Message{}, fmt.Errorf("mail: read envelope: %w", err)
	}
	defer mr.Close()

	h := mr.Header
	meta := packet.Metadata{
		Sender:    headerText(h, "From"),
		Subject:   headerText(h, "Subject"),
		Date:      h.Get("Date"),
		MessageID: h.Get("Message-Id"),
		To:        headerText(h, "To"),
	}

	body, err := extractBody(mr)
	if err != nil {
		return Message{}, fmt.Errorf("mail: extract body: %w", err)
	}

	return Message{Metadata: meta, Body: body}, nil
}

// ParseBytes parses a raw message held in memory, e.g. an .eml file or
// an IMAP fetch result.
func ParseBytes(raw []byte) (Message, error) {
	return Parse(bytes.NewReader(raw))
}

// headerText returns the decoded header value, falling back to the raw
// wire form when RFC 2047 decoding fails.
func headerText(h gomail.Header, key string) string {
	v, err := h.Text(key)
	if err != nil {
		return h.Get(key)
	}
	return v
}

// #endregion parse

// #region body

// extractBody walks the message parts collecting inline text.
// Attachments are skipped. text/plain parts win; text/html is the
// fallback and gets stripped to visible text.
func extractBody(mr *gomail.Reader) (string, error) {
	var plainParts, htmlParts []string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A single undecodable part does not invalidate the rest
			// of the message.
			continue
		}

		switch h := part.Header.(type) {
		case *gomail.InlineHeader:
			ctype, _, err := h.ContentType()
			if err != nil {
				continue
			}
			raw, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			switch ctype {
			case "text/plain":
				plainParts = append(plainParts, string(raw))
			case "text/html":
				htmlParts = append(htmlParts, string(raw))
			}
		case *gomail.AttachmentHeader:
			// Attachments carry no routing signal.
		}
	}

	var body string
	switch {
	case len(plainParts) > 0:
		body = strings.Join(plainParts, "\n\n")
	case len(htmlParts) > 0:
		body = StripHTML(strings.Join(htmlParts, "\n\n"))
	}

	return capRunes(strings.TrimSpace(body), bodyCapRunes), nil
}

func capRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// #endregion body

// #region html

// StripHTML reduces an HTML document to its visible text. Script and
// style contents are dropped, entities decode via the tokenizer, and
// runs of blank lines collapse.
func StripHTML(src string) string {
	tz := html.NewTokenizer(strings.NewReader(src))

	var b strings.Builder
	skipDepth := 0

	for {
		switch tz.Next() {
		case html.ErrorToken:
			return collapseBlankLines(b.String())
		case html.StartTagToken:
			name, _ := tz.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth++
			case "br", "p", "div", "tr", "li":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			switch string(name) {
			case "script", "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div":
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tz.Text())
			}
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, trimmed)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// #endregion html
