package mail

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestParsePlainText(t *testing.T) {
	raw := crlf(
		"From: Jane Smith <jane@example.com>",
		"To: john@example.com",
		"Subject: Quarterly report",
		"Date: Tue, 03 Dec 2024 10:00:00 +0000",
		"Message-Id: <abc123@example.com>",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Please review the attached report.",
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith <jane@example.com>", msg.Metadata.Sender)
	assert.Equal(t, "john@example.com", msg.Metadata.To)
	assert.Equal(t, "Quarterly report", msg.Metadata.Subject)
	assert.Equal(t, "Tue, 03 Dec 2024 10:00:00 +0000", msg.Metadata.Date)
	assert.Equal(t, "<abc123@example.com>", msg.Metadata.MessageID)
	assert.Equal(t, "Please review the attached report.", msg.Body)
}

func TestFullTextFraming(t *testing.T) {
	msg := Message{Body: "Hello there."}
	msg.Metadata.Sender = "mom@example.com"
	msg.Metadata.Subject = "Checking in"

	assert.Equal(t, "From: mom@example.com\nSubject: Checking in\n\nHello there.", msg.FullText())
}

func TestParseMultipartPrefersPlain(t *testing.T) {
	raw := crlf(
		"From: jane@example.com",
		"Subject: Multipart",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain body wins",
		"--frontier",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html body loses</p>",
		"--frontier--",
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "plain body wins", msg.Body)
}

func TestParseHTMLOnlyIsStripped(t *testing.T) {
	raw := crlf(
		"From: jane@example.com",
		"Subject: HTML",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><head><style>p{color:red}</style></head>",
		"<body><p>Visible text</p><script>alert(1)</script></body></html>",
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Visible text")
	assert.NotContains(t, msg.Body, "color:red")
	assert.NotContains(t, msg.Body, "alert")
	assert.NotContains(t, msg.Body, "<p>")
}

func TestParseSkipsAttachments(t *testing.T) {
	raw := crlf(
		"From: jane@example.com",
		"Subject: With attachment",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"see attached",
		"--frontier",
		"Content-Type: application/octet-stream",
		`Content-Disposition: attachment; filename="data.bin"`,
		"",
		"BINARYJUNK",
		"--frontier--",
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "see attached", msg.Body)
}

func TestParseDecodesEncodedHeaders(t *testing.T) {
	raw := crlf(
		"From: =?utf-8?q?Ren=C3=A9e?= <renee@example.com>",
		"Subject: =?utf-8?q?Caf=C3=A9_plans?=",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"See you there.",
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)
	assert.Contains(t, msg.Metadata.Sender, "Renée")
	assert.Equal(t, "Café plans", msg.Metadata.Subject)
}

func TestParseCapsBody(t *testing.T) {
	longBody := strings.Repeat("word ", 3000) // 15000 chars
	raw := crlf(
		"From: jane@example.com",
		"Subject: Long",
		"Content-Type: text/plain; charset=utf-8",
		"",
		longBody,
	)

	msg, err := ParseBytes([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, bodyCapRunes, utf8.RuneCountInString(msg.Body))
}

func TestParseGarbageFails(t *testing.T) {
	_, err := ParseBytes([]byte("\x00\x01not a mail header"))
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags-removed", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"entities-decoded", "fish &amp; chips &lt;now&gt;", "fish & chips <now>"},
		{"paragraph-breaks", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"script-dropped", "before<script>var x = 1;</script>after", "beforeafter"},
		{"style-dropped", "<style>body{}</style>text", "text"},
		{"blank-lines-collapse", "<div>a</div><div></div><div></div><div>b</div>", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}
