package utils

import (
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// ToMarkdown converts editor rich text into markdown through the external
// converter service. The conversion is best-effort: if the service is not
// configured or misbehaves, the text comes back locally stripped of tags so
// a submission never fails because of formatting.
func ToMarkdown(richText string) string {
	if strings.TrimSpace(richText) == "" {
		return ""
	}

	apiURL := config.AppConfig.RichTextApiUrl
	if apiURL == "" {
		return stripTags(richText)
	}

	client := resty.New()
	client.SetTimeout(10 * time.Second)

	var result struct {
		Markdown string `json:"markdown"`
	}

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"html": richText}).
		SetResult(&result).
		Post(apiURL)

	if err != nil || resp.StatusCode() != 200 {
		log.Printf("Rich text converter unavailable, falling back to local strip: %v", err)
		return stripTags(richText)
	}

	if strings.TrimSpace(result.Markdown) == "" {
		return stripTags(richText)
	}
	return result.Markdown
}

// stripTags drops anything between angle brackets. Good enough as a
// degraded mode; the converter service does the real work.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
