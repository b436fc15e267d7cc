package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// fakeContext is a BrowserContext holding an ordered list of fake pages.
// Methods not overridden panic through the nil embedded interface.
type fakeContext struct {
	playwright.BrowserContext
	pages  []*fakePage
	closed bool
}

func newFakeContext(titles ...string) *fakeContext {
	fc := &fakeContext{}
	for _, title := range titles {
		fc.pages = append(fc.pages, &fakePage{ctx: fc, title: title, url: "https://example.com/" + title})
	}
	return fc
}

func (c *fakeContext) Pages() []playwright.Page {
	out := make([]playwright.Page, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, p)
	}
	return out
}

func (c *fakeContext) NewPage() (playwright.Page, error) {
	p := &fakePage{ctx: c, title: "new", url: "about:blank"}
	c.pages = append(c.pages, p)
	return p, nil
}

func (c *fakeContext) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.closed = true
	return nil
}

// fakePage records what the session asked of it.
type fakePage struct {
	playwright.Page
	ctx      *fakeContext
	title    string
	url      string
	content  string
	closed   bool
	fronted  int
	keys     []string
	gotoURLs []string
	gotoErr  error
	closeErr error
	evalErr  error
	evalFn   func(expr string, arg interface{}) (interface{}, error)
	locators map[string]*fakeLocator
}

func (p *fakePage) Title() (string, error) { return p.title, nil }
func (p *fakePage) URL() string            { return p.url }
func (p *fakePage) Content() (string, error) {
	return p.content, nil
}

func (p *fakePage) BringToFront() error {
	p.fronted++
	return nil
}

func (p *fakePage) Close(options ...playwright.PageCloseOptions) error {
	if p.closeErr != nil {
		return p.closeErr
	}
	p.closed = true
	if p.ctx != nil {
		for i, other := range p.ctx.pages {
			if other == p {
				p.ctx.pages = append(p.ctx.pages[:i], p.ctx.pages[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotoURLs = append(p.gotoURLs, url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	var a interface{}
	if len(arg) > 0 {
		a = arg[0]
	}
	if p.evalFn != nil {
		return p.evalFn(expression, a)
	}
	return nil, nil
}

func (p *fakePage) Keyboard() playwright.Keyboard {
	return &fakeKeyboard{page: p}
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	if p.locators == nil {
		p.locators = make(map[string]*fakeLocator)
	}
	loc, ok := p.locators[selector]
	if !ok {
		loc = &fakeLocator{selector: selector}
		p.locators[selector] = loc
	}
	return loc
}

type fakeKeyboard struct {
	playwright.Keyboard
	page *fakePage
}

func (k *fakeKeyboard) Press(key string, options ...playwright.KeyboardPressOptions) error {
	k.page.keys = append(k.page.keys, key)
	return nil
}

// locatorBase renames the embedded interface so its field does not shadow
// the Locator method.
type locatorBase = playwright.Locator

// fakeLocator fails its first clickFailures Click calls and records every
// call made to it.
var _ playwright.Locator = (*fakeLocator)(nil)

type fakeLocator struct {
	locatorBase
	selector      string
	clickFailures int
	clickErr      error
	waitErr       error
	evalErr       error
	innerHTML     string
	calls         []string
	filled        string
}

func (l *fakeLocator) First() playwright.Locator { return l }

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	forced := len(options) > 0 && options[0].Force != nil && *options[0].Force
	if forced {
		l.calls = append(l.calls, "click:force")
	} else {
		l.calls = append(l.calls, "click")
	}
	if l.clickFailures > 0 {
		l.clickFailures--
		return l.clickErr
	}
	return nil
}

func (l *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	state := ""
	if len(options) > 0 && options[0].State != nil {
		state = string(*options[0].State)
	}
	l.calls = append(l.calls, "wait:"+state)
	return l.waitErr
}

func (l *fakeLocator) Evaluate(expression string, arg interface{}, options ...playwright.LocatorEvaluateOptions) (interface{}, error) {
	l.calls = append(l.calls, "evaluate")
	return nil, l.evalErr
}

func (l *fakeLocator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.calls = append(l.calls, "fill")
	l.filled = value
	return nil
}

func (l *fakeLocator) Hover(options ...playwright.LocatorHoverOptions) error {
	l.calls = append(l.calls, "hover")
	return nil
}

func (l *fakeLocator) InnerHTML(options ...playwright.LocatorInnerHTMLOptions) (string, error) {
	if l.waitErr != nil {
		return "", l.waitErr
	}
	return l.innerHTML, nil
}

// fakeLauncher hands out a prepared context.
type fakeLauncher struct {
	ctx      *fakeContext
	err      error
	launches int
	stops    int
}

func (f *fakeLauncher) Launch(ctx context.Context, opts Options) (playwright.BrowserContext, func() error, error) {
	f.launches++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.ctx, func() error {
		f.stops++
		return nil
	}, nil
}

var errEngine = errors.New("element is not visible")

// timeoutErr mimics the error Playwright returns when an action times out.
var timeoutErr = fmt.Errorf("%w: %w", playwright.ErrTimeout, errors.New("Timeout 10000ms exceeded."))
