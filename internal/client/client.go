// Package client 文章与商品接口的类型化 HTTP 客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/d60-Lab/zenith/internal/model"
)

// ErrNotFound 服务端返回 404
var ErrNotFound = errors.New("not found")

// APIError 其余非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// PostInput 创建/更新文章的请求体，nil 字段不发送
type PostInput struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// ProductInput 创建商品的请求体
type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

type Option func(*Client)

// WithToken 每个请求带上 Bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient 替换默认的 10s 超时客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

type Client struct {
	base  string
	token string
	http  *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) ListPosts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (*model.Post, error) {
	var p model.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	var p model.Post
	if err := c.do(ctx, http.MethodPatch, "/api/posts/"+url.PathEscape(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateStock(ctx context.Context, id string, stock int64) (*model.Product, error) {
	var p model.Product
	body := map[string]int64{"stock": stock}
	if err := c.do(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !env.Success) {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
