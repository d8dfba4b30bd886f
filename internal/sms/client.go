// Package sms предоставляет клиент для внешних SMS-провайдеров.
package sms

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

	"github.com/hashicorp/go-retryablehttp"
)

// APITypePayamak — провайдер payamak.vip (JSON POST), используется по умолчанию.
const (
	APITypePayamak = "payamak-vip"
	// APITypeNiazpardaz — провайдер niazpardaz (GET с параметрами запроса).
	APITypeNiazpardaz = "niazpardaz"

	payamakBaseURL    = "http://www.payamak.vip/api/v1/RestWebApi/"
	niazpardazBaseURL = "https://panel.niazpardaz-sms.com/SMSInOutBox/SendSms"
)

// ErrMissingFields возвращается, если в запросе не заполнено обязательное поле.
var ErrMissingFields = errors.New("missing required fields")

// Request описывает одну отправку SMS. Учётные данные провайдера приходят
// с каждым запросом и нигде не сохраняются.
type Request struct {
	APIType        string `json:"apiType"`
	UserName       string `json:"userName"`
	Password       string `json:"password"`
	FromNumber     string `json:"fromNumber"`
	ToNumbers      string `json:"toNumbers"`
	MessageContent string `json:"messageContent"`
}

// Client инкапсулирует HTTP-взаимодействие с SMS-провайдерами.
type Client struct {
	httpClient *retryablehttp.Client

	payamakURL    string
	niazpardazURL string
}

// NewClient создаёт клиент SMS-провайдеров с повтором временных сбоев.
func NewClient() *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.Logger = nil
	c.HTTPClient.Timeout = 10 * time.Second

	return &Client{
		httpClient:    c,
		payamakURL:    payamakBaseURL,
		niazpardazURL: niazpardazBaseURL,
	}
}

// Send отправляет SMS через провайдера, указанного в запросе.
// Возвращает сырой ответ провайдера для журналирования на стороне вызывающего.
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	if req.UserName == "" || req.Password == "" || req.FromNumber == "" ||
		req.ToNumbers == "" || req.MessageContent == "" {
		return "", ErrMissingFields
	}

	switch req.APIType {
	case APITypeNiazpardaz:
		return c.sendNiazpardaz(ctx, req)
	default:
		return c.sendPayamak(ctx, req)
	}
}

// sendNiazpardaz вызывает GET-API провайдера niazpardaz. Провайдер отвечает
// простым текстом; ответ со словом «error» или «خطا» считается отказом.
func (c *Client) sendNiazpardaz(ctx context.Context, req Request) (string, error) {
	params := url.Values{}
	params.Set("username", req.UserName)
	params.Set("password", req.Password)
	params.Set("from", req.FromNumber)
	params.Set("to", req.ToNumbers)
	params.Set("text", req.MessageContent)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.niazpardazURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	text := string(body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	lower := strings.ToLower(text)
	if text == "" || strings.Contains(lower, "error") || strings.Contains(text, "خطا") {
		return "", fmt.Errorf("provider rejected message: %s", text)
	}

	return text, nil
}

type payamakRequest struct {
	UserName       string `json:"userName"`
	Password       string `json:"password"`
	FromNumber     string `json:"fromNumber"`
	ToNumbers      string `json:"toNumbers"`
	MessageContent string `json:"messageContent"`
	IsFlash        bool   `json:"isFlash"`
	SendDelay      int    `json:"sendDelay"`
}

type payamakResponse struct {
	Result       *int   `json:"Result"`
	ErrorMessage string `json:"ErrorMessage"`
}

// sendPayamak вызывает JSON-API провайдера payamak.vip. Result == 0 — успех;
// ответ без поля Result считается успешным, как делает и веб-панель провайдера.
func (c *Client) sendPayamak(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(payamakRequest{
		UserName:       req.UserName,
		Password:       req.Password,
		FromNumber:     req.FromNumber,
		ToNumbers:      req.ToNumbers,
		MessageContent: req.MessageContent,
		IsFlash:        false,
		SendDelay:      0,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.payamakURL+"SendBatchSms", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result payamakResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if result.Result != nil && *result.Result != 0 {
		if result.ErrorMessage != "" {
			return "", fmt.Errorf("provider error: %s", result.ErrorMessage)
		}
		return "", fmt.Errorf("provider error code: %d", *result.Result)
	}

	return string(body), nil
}
