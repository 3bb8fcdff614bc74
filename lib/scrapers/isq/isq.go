package isq

import (
	"bytes"
	"context"
	"fmt"
	"isqexplorer-backend/lib/restyutil"
	"isqexplorer-backend/lib/telemetry"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "scrapers/isq/http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

func (c *Client) DefaultRedirectPolicy() resty.RedirectPolicy {
	return resty.DomainCheckRedirectPolicy(c.BaseUrl.Hostname())
}

func parseDocument(res *resty.Response) (*goquery.Document, error) {
	if res.IsError() {
		return nil, fmt.Errorf("%s %s: status %s", res.Request.Method, res.Request.URL, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// Fetch gets the page at the given url, which may be relative to the
// client's base url, and parses it.
func (c *Client) Fetch(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	doc, err := parseDocument(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}

// SubmitForm posts the given form values to the given url and parses
// the resulting page.
func (c *Client) SubmitForm(ctx context.Context, pageUrl string, form map[string]string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitForm")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit form")
		return nil, err
	}
	doc, err := parseDocument(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
