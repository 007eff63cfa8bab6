package odoo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/TWRT/project-gantt/internal/models"
)

var ErrAuthentication = errors.New("odoo authentication failed")

type Config struct {
	BaseUrl  string
	Database string
	Login    string
	Password string
	Timeout  time.Duration
}

type OdooClient struct {
	baseUrl    string
	database   string
	login      string
	password   string
	httpClient *http.Client

	mu  sync.Mutex
	uid int64
}

func NewOdooClient(cfg Config) *OdooClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OdooClient{
		baseUrl:    strings.TrimRight(cfg.BaseUrl, "/"),
		database:   cfg.Database,
		login:      cfg.Login,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OdooClient) call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Service: service,
			Method:  method,
			Args:    args,
		},
		Id: uuid.NewString(),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request (odoo): %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/jsonrpc", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request (odoo): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s.%s (odoo): %w", service, method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (odoo): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error status (odoo): %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("parse response (odoo): %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error.toRemote()
	}
	return rpcResp.Result, nil
}

// Authenticate resolves and caches the uid for the configured login.
func (c *OdooClient) Authenticate(ctx context.Context) (int64, error) {
	c.mu.Lock()
	uid := c.uid
	c.mu.Unlock()
	if uid != 0 {
		return uid, nil
	}

	result, err := c.call(ctx, "common", "authenticate", []any{c.database, c.login, c.password, map[string]any{}})
	if err != nil {
		return 0, fmt.Errorf("authenticate (odoo): %w", err)
	}

	// a rejected login answers false instead of an error
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return 0, fmt.Errorf("%w for %q on %q", ErrAuthentication, c.login, c.database)
	}

	c.mu.Lock()
	c.uid = uid
	c.mu.Unlock()
	return uid, nil
}

func (c *OdooClient) executeKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	uid, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, "object", "execute_kw", []any{c.database, uid, c.password, model, method, args, kwargs})
}

func (c *OdooClient) SearchRead(
	ctx context.Context,
	model string,
	domain models.Domain,
	fields []string,
	opts models.SearchOptions,
	out any,
) error {
	if domain == nil {
		domain = models.Domain{}
	}
	kwargs := map[string]any{
		"fields": fields,
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		kwargs["offset"] = opts.Offset
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	result, err := c.executeKw(ctx, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return fmt.Errorf("search_read %s (odoo): %w", model, err)
	}

	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("parse %s records (odoo): %w", model, err)
	}
	return nil
}

func (c *OdooClient) Write(ctx context.Context, model string, ids []int64, values map[string]any) error {
	result, err := c.executeKw(ctx, model, "write", []any{ids, values}, nil)
	if err != nil {
		return fmt.Errorf("write %s %v (odoo): %w", model, ids, err)
	}

	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil {
		return fmt.Errorf("parse write result (odoo): %w", err)
	}
	if !ok {
		return fmt.Errorf("write %s %v (odoo): store returned false", model, ids)
	}
	return nil
}
