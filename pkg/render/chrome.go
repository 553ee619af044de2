package render

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// signalsJS collects what only a live page knows: lazy-loaded image sources,
// resolved hrefs, :root custom properties from readable stylesheets and the computed
// colors of buttons, nav and headings.
const signalsJS = `(() => {
  const abs = (u) => { try { return new URL(u, document.baseURI).href } catch (e) { return "" } };
  const images = [];
  const og = document.querySelector('meta[property="og:image"]');
  if (og && og.content) images.push(abs(og.content));
  document.querySelectorAll("img").forEach((img) => {
    if (img.naturalWidth > 0 && img.naturalWidth <= 2) return;
    const src = img.currentSrc || img.src || img.getAttribute("data-src");
    if (src) images.push(abs(src));
  });
  document.querySelectorAll("[style*='background']").forEach((el) => {
    const m = /url\(["']?([^"')]+)["']?\)/.exec(el.style.backgroundImage || "");
    if (m) images.push(abs(m[1]));
  });
  const links = Array.from(document.querySelectorAll("a[href]"))
    .filter((a) => !/nofollow/i.test(a.rel || ""))
    .map((a) => a.href);
  const cssVars = {};
  for (const sheet of Array.from(document.styleSheets)) {
    let rules;
    try { rules = sheet.cssRules } catch (e) { continue }
    for (const rule of Array.from(rules || [])) {
      if (!rule.style || !rule.selectorText || !/(^|,)\s*(:root|html|body)\s*(,|$)/.test(rule.selectorText)) continue;
      for (let i = 0; i < rule.style.length; i++) {
        const name = rule.style[i];
        if (name.startsWith("--") && !(name in cssVars)) cssVars[name] = rule.style.getPropertyValue(name).trim();
      }
    }
  }
  const computed = [];
  const pick = (sel, props) => Array.from(document.querySelectorAll(sel)).slice(0, 5).forEach((el) => {
    const cs = getComputedStyle(el);
    props.forEach((p) => {
      const v = cs.getPropertyValue(p);
      if (v && v !== "rgba(0, 0, 0, 0)" && v !== "transparent") computed.push(v);
    });
  });
  pick("button, .btn, .button, a[class*='btn'], input[type=submit]", ["background-color", "color"]);
  pick("nav, header", ["background-color"]);
  pick("h1, h2, h3", ["color"]);
  const theme = document.querySelector('meta[name="theme-color"]');
  const logoEl = document.querySelector("header img, img[class*='logo' i], img[id*='logo' i], img[src*='logo' i], img[alt*='logo' i]");
  return {
    images: images,
    links: links,
    cssVars: cssVars,
    computed: computed,
    themeColor: theme ? theme.content : "",
    logo: logoEl ? abs(logoEl.currentSrc || logoEl.src) : ""
  };
})()`

type pageSignals struct {
	Images     []string          `json:"images"`
	Links      []string          `json:"links"`
	CSSVars    map[string]string `json:"cssVars"`
	Computed   []string          `json:"computed"`
	ThemeColor string            `json:"themeColor"`
	Logo       string            `json:"logo"`
}

// ChromeRenderer drives one shared headless Chrome; each Render opens its own tab.
type ChromeRenderer struct {
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	waitTime      time.Duration
	log           *logrus.Entry
}

// NewChromeRenderer starts the browser
func NewChromeRenderer(cfg config.RendererConfig, userAgent string, log *logrus.Entry) (*ChromeRenderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", cfg.IsHeadless()),
		chromedp.WindowSize(1366, 900),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))

	// First Run on the browser context launches Chrome
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: starting chrome: %w", utils.ErrRenderFailed, err)
	}
	log.Info("Headless Chrome started")

	return &ChromeRenderer{
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
		waitTime:      cfg.WaitTime,
		log:           log,
	}, nil
}

// Render opens a tab, waits for the body and reads the HTML plus the page signals
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (*models.RenderedPage, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	// Tab contexts derive from the browser, so propagate the caller's deadline and cancellation
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tasks := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	}
	if r.waitTime > 0 {
		tasks = append(tasks, chromedp.Sleep(r.waitTime))
	}

	var finalURL, html string
	var sig pageSignals
	tasks = append(tasks,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
		chromedp.Evaluate(signalsJS, &sig),
	)
	if err := chromedp.Run(tabCtx, tasks...); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", utils.ErrRenderFailed, pageURL, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %w", utils.ErrRenderFailed, pageURL, err)
	}

	r.log.WithFields(logrus.Fields{"url": pageURL, "images": len(sig.Images), "links": len(sig.Links)}).Debug("Rendered page in Chrome")
	return pageFromSignals(pageURL, finalURL, html, sig), nil
}

// pageFromSignals resolves the collected signals against the final URL, falling back
// to pageURL when the browser reported no usable location
func pageFromSignals(pageURL, finalURL, html string, sig pageSignals) *models.RenderedPage {
	base, err := url.Parse(finalURL)
	if err != nil || base.Host == "" {
		base, _ = url.Parse(pageURL)
	}
	styles := models.StyleSignals{
		CSSVariables:   sig.CSSVars,
		ComputedColors: sig.Computed,
		ThemeColor:     sig.ThemeColor,
	}
	if logos := filterImages(base, []string{sig.Logo}); len(logos) == 1 {
		styles.LogoURL = logos[0]
	}
	return &models.RenderedPage{
		URL:       pageURL,
		FinalURL:  finalURL,
		HTML:      html,
		ImageURLs: filterImages(base, sig.Images),
		LinkURLs:  filterLinks(base, sig.Links),
		Styles:    styles,
	}
}

// Close shuts down the browser
func (r *ChromeRenderer) Close() error {
	r.cancelBrowser()
	r.cancelAlloc()
	return nil
}
