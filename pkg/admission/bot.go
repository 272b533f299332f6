package admission

import "strings"

type agentClass int

const (
	agentHuman agentClass = iota
	agentCrawler
	agentBot
)

// crawlerMarkers identify the search-engine crawlers that are explicitly
// allowed through the perimeter.
var crawlerMarkers = []string{
	"googlebot",
	"bingbot",
	"duckduckbot",
	"slurp", // Yahoo
	"baiduspider",
	"yandexbot",
	"applebot",
}

// botMarkers identify generic automated clients, which are denied.
var botMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl/",
	"wget/",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"java/",
	"okhttp",
	"headlesschrome",
	"phantomjs",
}

// classifyAgent buckets a User-Agent into human, allowed crawler, or denied
// bot. An empty User-Agent counts as a bot: every mainstream browser sends
// one.
func classifyAgent(userAgent string) agentClass {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return agentBot
	}

	for _, marker := range crawlerMarkers {
		if strings.Contains(ua, marker) {
			return agentCrawler
		}
	}

	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return agentBot
		}
	}

	return agentHuman
}
