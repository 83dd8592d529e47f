package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagefetch"
)

// Ensure BlockDetector implements pagefetch.BlockDetector at compile time.
var _ pagefetch.BlockDetector = (*BlockDetector)(nil)

// BlockIndicator is a DOM pattern empirically associated with a bot-blocking
// challenge.
type BlockIndicator struct {
	Selector    string
	Description string
}

// DefaultBlockIndicators are checked in order; the first match wins.
// Sites change their block pages faster than this list, so expect
// false negatives.
var DefaultBlockIndicators = []BlockIndicator{
	{Selector: "[data-sitekey]", Description: "CAPTCHA widget (data-sitekey)"},
	{Selector: ".g-recaptcha, iframe[src*='google.com/recaptcha']", Description: "Google reCAPTCHA"},
	{Selector: ".h-captcha, iframe[src*='hcaptcha.com']", Description: "hCaptcha"},
	{Selector: ".cf-turnstile, iframe[src*='challenges.cloudflare.com']", Description: "Cloudflare Turnstile"},
	{Selector: "#challenge-form, #challenge-running, #cf-challenge-running, .cf-browser-verification", Description: "Cloudflare browser verification"},
	{Selector: "#px-captcha", Description: "PerimeterX challenge"},
	{Selector: "#ddcaptcha, iframe[src*='captcha-delivery.com']", Description: "DataDome challenge"},
	{Selector: "#captcha, .captcha, #captcha-form", Description: "generic CAPTCHA form"},
}

// DefaultBlockTitles are lowercase title fragments of interstitial
// challenge pages.
var DefaultBlockTitles = []string{
	"just a moment...",
	"attention required!",
	"are you a robot",
	"verify you are human",
}

// BlockDetector looks for anti-bot fingerprints in a document.
type BlockDetector struct {
	indicators []BlockIndicator
	titles     []string
}

// NewBlockDetector creates a BlockDetector with the default indicator lists.
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		indicators: DefaultBlockIndicators,
		titles:     DefaultBlockTitles,
	}
}

// DetectBlock returns the description of the first matching indicator.
func (d *BlockDetector) DetectBlock(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	for _, ind := range d.indicators {
		if d.hasSelector(doc, ind.Selector) {
			return ind.Description, true
		}
	}

	title := strings.ToLower(collapse(doc.Find("title").First().Text()))
	for _, t := range d.titles {
		if strings.Contains(title, t) {
			return "challenge page title: " + t, true
		}
	}

	return "", false
}

// hasSelector checks if the document contains any elements matching the selector.
func (d *BlockDetector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
