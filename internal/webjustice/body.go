package webjustice

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxErrorMessage = 512

// errorMessage turns an error response body into a short human readable
// message. JSON bodies contribute their "detail", "message" or "error" field;
// HTML pages (proxies, gateways) contribute their title and visible text.
func errorMessage(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	if msg := jsonErrorMessage(body); msg != "" {
		return truncate(msg)
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(body, []byte("<")) {
		if msg := htmlErrorMessage(body); msg != "" {
			return truncate(msg)
		}
	}

	return truncate(string(body))
}

func jsonErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
		// FastAPI validation errors carry a list or object in "detail".
		return string(raw)
	}
	return string(body)
}

func htmlErrorMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	switch {
	case title != "" && heading != "" && heading != title:
		return title + ": " + heading
	case title != "":
		return title
	case heading != "":
		return heading
	}
	return text
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxErrorMessage {
		return s
	}
	return string(runes[:maxErrorMessage]) + "..."
}
