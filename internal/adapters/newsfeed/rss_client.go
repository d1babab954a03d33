// Package newsfeed implements NewsFeed against a live RSS endpoint,
// grounded on the pack's goquery-based HTML/XML scraping style.
package newsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// RSSClient fetches one feed per keyword from an RSS search endpoint and
// parses the <item> entries with goquery's XML-compatible selectors.
type RSSClient struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewRSSClient(baseURL string, timeout time.Duration) *RSSClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RSSClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Get().With("component", "news_feed"),
	}
}

var _ orchestrator.NewsFeed = (*RSSClient)(nil)

// Fetch queries the feed once per keyword and merges the results,
// capping the total at limit articles.
func (c *RSSClient) Fetch(ctx context.Context, keywords []string, limit int) ([]orchestrator.Article, error) {
	var all []orchestrator.Article

	for _, kw := range keywords {
		if len(all) >= limit {
			break
		}
		articles, err := c.fetchOne(ctx, kw)
		if err != nil {
			c.log.Warnf("news feed fetch failed for %q: %v", kw, err)
			continue
		}
		all = append(all, articles...)
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (c *RSSClient) fetchOne(ctx context.Context, keyword string) ([]orchestrator.Article, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build news feed request")
	}
	req.Header.Set("User-Agent", "finassist/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrTransientExternal, "news feed returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPermanentExternal, "parse feed xml: "+err.Error())
	}

	var articles []orchestrator.Article
	doc.Find("item").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("title").First().Text())
		link := strings.TrimSpace(s.Find("link").First().Text())
		if title == "" || link == "" {
			return
		}

		article := orchestrator.Article{
			Title:  title,
			URL:    link,
			Body:   strings.TrimSpace(s.Find("description").First().Text()),
			Source: strings.TrimSpace(s.Find("source").First().Text()),
		}
		if pub := strings.TrimSpace(s.Find("pubDate").First().Text()); pub != "" {
			if t, err := time.Parse(time.RFC1123Z, pub); err == nil {
				article.PublishedAt = t
			}
		}
		articles = append(articles, article)
	})

	return articles, nil
}
