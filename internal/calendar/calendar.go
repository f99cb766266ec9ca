package calendar

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jpillora/backoff"
)

const (
	DefaultURL = "https://www.investing.com/economic-calendar/"

	// FallbackMessage is the single line shown when the fetch or parse
	// fails. The calendar is best-effort and never surfaces an error.
	FallbackMessage = "Unable to fetch calendar at this time."

	maxEvents   = 10
	maxAttempts = 3
	userAgent   = "Mozilla/5.0"
)

// Client scrapes the upcoming economic-calendar events for display.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Events returns up to 10 formatted event lines, or the fallback line when
// the page cannot be fetched or yields nothing. Retries transient failures
// with capped exponential backoff; the context bounds the whole fetch.
func (c *Client) Events(ctx context.Context) []string {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.Duration()):
			case <-ctx.Done():
				log.Printf("📅 Calendar fetch canceled: %v", ctx.Err())
				return []string{FallbackMessage}
			}
		}

		events, err := c.fetch(ctx)
		if err == nil {
			if len(events) == 0 {
				return []string{"No events found."}
			}
			return events
		}
		lastErr = err
	}

	log.Printf("📅 Calendar fetch failed: %v", lastErr)
	return []string{FallbackMessage}
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseEvents(doc), nil
}

// parseEvents walks the calendar table rows and formats one line per event.
func parseEvents(doc *goquery.Document) []string {
	var events []string
	doc.Find("table#economicCalendarData tr.js-event-item").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		eventTime := strings.TrimSpace(row.Find("td.time").Text())
		currency := strings.TrimSpace(row.Find("td.flagCur").Text())
		impact, _ := row.Find("td.sentiment").Attr("data-img_key")
		impact = strings.ReplaceAll(impact, "bull", "Impact ")
		event := strings.TrimSpace(row.Find("td.event").Text())

		events = append(events, fmt.Sprintf("%s %s %s: %s", eventTime, currency, impact, event))
		return len(events) < maxEvents
	})
	return events
}
