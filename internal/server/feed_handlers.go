package server

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const feedItemLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RSSFeed serves the published posts as RSS 2.0.
func (s *Server) RSSFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	general, err := s.settingsService.GetGeneral(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}
	seo, err := s.settingsService.GetSEO(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	posts, err := s.postService.ListForSyndication(ctx, feedItemLimit)
	if err != nil {
		return respondServiceError(c, err)
	}

	base := strings.TrimRight(s.config.SiteURL, "/")
	items := make([]rssItem, 0, len(posts))
	for _, post := range posts {
		link := fmt.Sprintf("%s/posts/%s", base, post.Slug)
		items = append(items, rssItem{
			Title:       post.Title,
			Link:        link,
			Description: post.MetaDescription,
			PubDate:     post.CreatedAt.Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       general.BlogTitle,
			Link:        base,
			Description: seo.MetaDescription,
			Items:       items,
		},
	}

	return writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

// Sitemap serves a sitemap of the home page and every published post.
func (s *Server) Sitemap(c *fiber.Ctx) error {
	ctx := c.UserContext()

	// No explicit limit: the sitemap lists every published post up to the
	// syndication bound, well past the public API page cap.
	posts, err := s.postService.ListForSyndication(ctx, 0)
	if err != nil {
		return respondServiceError(c, err)
	}

	base := strings.TrimRight(s.config.SiteURL, "/")
	urls := make([]sitemapURL, 0, len(posts)+1)
	urls = append(urls, sitemapURL{Loc: base + "/"})
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:     fmt.Sprintf("%s/posts/%s", base, post.Slug),
			LastMod: post.UpdatedAt.Format("2006-01-02"),
		})
	}

	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	return writeXML(c, "application/xml; charset=utf-8", set)
}

// RobotsTxt serves the robots rules from the SEO settings.
func (s *Server) RobotsTxt(c *fiber.Ctx) error {
	seo, err := s.settingsService.GetSEO(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	rules := seo.RobotsRules
	if rules == "" {
		rules = models.DefaultSEOSettings().RobotsRules
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(rules + "\nSitemap: " +
		strings.TrimRight(s.config.SiteURL, "/") + "/sitemap.xml\n")
}

func writeXML(c *fiber.Ctx, contentType string, doc any) error {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendString(xml.Header + string(out))
}
