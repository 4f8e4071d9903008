package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("shop server returned %d: %s", e.Code, body)
}

// Client talks to the shop server. It keeps the session cookie and the last
// CSRF token the server handed out.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// New creates a client for baseURL. A nil hc gets a fresh client with a
// cookie jar so the login session persists across calls.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		jar, _ := cookiejar.New(nil)
		hc = &http.Client{Jar: jar}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// BaseURL returns the server root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the most recent CSRF token seen on a response, or "".
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) rememberToken(resp *http.Response) {
	if t := resp.Header.Get(TokenHeader); t != "" {
		c.mu.Lock()
		c.token = t
		c.mu.Unlock()
	}
}

// Login signs in with a username and password.
// POST: the session cookie is stored in the client's jar
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.FetchToken(ctx)
	if err != nil {
		return err
	}
	form := url.Values{
		"username": {username},
		"password": {password},
		CSRFField:  {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	c.setOrigin(req)
	var res Result
	if err := c.do(req, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("login failed: %s", res.Message)
	}
	return nil
}

// FetchToken asks the server for a fresh CSRF token.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/csrf", nil)
	if err != nil {
		return "", err
	}
	if err := c.do(req, nil); err != nil {
		return "", err
	}
	token := c.Token()
	if token == "" {
		return "", fmt.Errorf("server did not send a CSRF token")
	}
	return token, nil
}

// CustomerProfile fetches GET /api/customer/{id}.
func (c *Client) CustomerProfile(ctx context.Context, customerID string) (CustomerProfile, error) {
	var p CustomerProfile
	err := c.getJSON(ctx, "/api/customer/"+url.PathEscape(customerID), nil, &p)
	return p, err
}

// DeleteMeasurement posts POST /delete/measurement/{id} with the CSRF token
// in the X-CSRFToken header. A {success:false} body is returned as a Result,
// not an error, whatever the status code.
func (c *Client) DeleteMeasurement(ctx context.Context, measurementID, token string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/delete/measurement/"+url.PathEscape(measurementID), bytes.NewReader([]byte("{}")))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(CSRFHeader, token)
	c.setOrigin(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	c.rememberToken(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		if resp.StatusCode >= 300 {
			return Result{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
		}
		return Result{}, fmt.Errorf("decode delete response: %w", err)
	}
	return res, nil
}

// SearchCustomers fetches GET /api/customers?q=.
func (c *Client) SearchCustomers(ctx context.Context, q string) ([]CustomerSummary, error) {
	var out []CustomerSummary
	err := c.getJSON(ctx, "/api/customers", url.Values{"q": {q}}, &out)
	return out, err
}

// Categories fetches GET /api/categories?gender=.
func (c *Client) Categories(ctx context.Context, gender string) ([]Category, error) {
	var out []Category
	q := url.Values{}
	if gender != "" {
		q.Set("gender", gender)
	}
	err := c.getJSON(ctx, "/api/categories", q, &out)
	return out, err
}

// MeasurementForm fetches GET /customer/{id}/measurement, optionally
// prefilled from reuseID.
func (c *Client) MeasurementForm(ctx context.Context, customerID, reuseID string) (MeasurementForm, error) {
	var out MeasurementForm
	q := url.Values{}
	if reuseID != "" {
		q.Set("reuse_id", reuseID)
	}
	err := c.getJSON(ctx, "/customer/"+url.PathEscape(customerID)+"/measurement", q, &out)
	return out, err
}

// Bills fetches one page of GET /api/bills.
func (c *Client) Bills(ctx context.Context, query BillsQuery) (BillsPage, error) {
	q := url.Values{}
	if query.Month > 0 && query.Year > 0 {
		q.Set("month", strconv.Itoa(query.Month))
		q.Set("year", strconv.Itoa(query.Year))
	}
	if query.Status != "" {
		q.Set("status", query.Status)
	}
	if query.Search != "" {
		q.Set("q", query.Search)
	}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(query.PerPage))
	}
	var out BillsPage
	err := c.getJSON(ctx, "/api/bills", q, &out)
	return out, err
}

// UpdateOrderDetails posts the order edit form to /orders/update_details.
func (c *Client) UpdateOrderDetails(ctx context.Context, u OrderUpdate, token string) (OrderResult, error) {
	form := url.Values{
		"order_id":      {u.OrderID},
		"status":        {u.WorkStatus},
		"total_amt":     {u.Total},
		"advance":       {u.Advance},
		"payment_mode":  {u.PaymentMode},
		"delivery_date": {u.DeliveryDate},
	}
	return c.postOrderForm(ctx, "/orders/update_details", form, token)
}

// RecordPayment posts the bill payment form to /bills/update.
func (c *Client) RecordPayment(ctx context.Context, u OrderUpdate, token string) (OrderResult, error) {
	form := url.Values{
		"order_id":      {u.OrderID},
		"total_amt":     {u.Total},
		"advance":       {u.Advance},
		"payment_mode":  {u.PaymentMode},
		"delivery_date": {u.DeliveryDate},
	}
	return c.postOrderForm(ctx, "/bills/update", form, token)
}

func (c *Client) postOrderForm(ctx context.Context, path string, form url.Values, token string) (OrderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return OrderResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(CSRFHeader, token)
	c.setOrigin(req)
	var out OrderResult
	err = c.do(req, &out)
	return out, err
}

// setOrigin marks a write as coming from the server's own origin, which the
// CSRF check requires on TLS.
func (c *Client) setOrigin(req *http.Request) {
	if u, err := url.Parse(c.baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		req.Header.Set("Origin", u.Scheme+"://"+u.Host)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, v)
}

// do sends req, records any CSRF token, and decodes a 2xx JSON body into v
// when v is non-nil.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.rememberToken(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
