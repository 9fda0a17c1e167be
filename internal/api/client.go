// Package api provides the HTTP client for the BudgetWise backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/model"
)

const maxBodySize = 1 << 20 // 1 MB

var (
	// ErrUnauthorized indicates the bearer token is expired or invalid.
	ErrUnauthorized = errors.New("api: unauthorized (token expired or invalid)")
	// ErrNotFound indicates the requested record does not exist on the server.
	ErrNotFound = errors.New("api: not found")
	// ErrLocalRecord indicates an update or delete was attempted on a record
	// the server has never acknowledged.
	ErrLocalRecord = errors.New("api: record exists only locally")
)

// StatusError carries a non-2xx response the sentinels don't cover.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Client talks to the BudgetWise backend. Tokens are passed per call so the
// same client serves personal and group contexts.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

// NewClient creates a client for the given base URL and request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/Health", "", nil)
	return err
}

// Login exchanges credentials for a personal bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, model.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/Auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", model.User{}, err
	}
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", model.User{}, fmt.Errorf("api: parsing login response: %w", err)
	}
	if resp.Token == "" {
		return "", model.User{}, errors.New("api: login response missing token")
	}
	return resp.Token, resp.User, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/User/AddUser", "", req)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal(body, &u); err != nil {
		return model.User{}, fmt.Errorf("api: parsing register response: %w", err)
	}
	return u, nil
}

// SendVerification asks the backend to mail a 6-digit code to the address.
func (c *Client) SendVerification(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/Auth/send-verification", "", map[string]string{"email": email})
	return err
}

// VerifyEmail submits a verification code for the address.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/Auth/verify-email", "", map[string]string{"email": email, "code": code})
	return err
}

// Logout invalidates the token server-side. A failure here is advisory:
// callers clear local state regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/Auth/logout", token, struct{}{})
	return err
}

// Profile fetches the account profile.
func (c *Client) Profile(ctx context.Context, token string) (model.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/User/profile", token, nil)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal(body, &u); err != nil {
		return model.User{}, fmt.Errorf("api: parsing profile: %w", err)
	}
	return u, nil
}

// UpdateProfile sends changed profile fields.
func (c *Client) UpdateProfile(ctx context.Context, token string, u model.User) (model.User, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/User/update", token, u)
	if err != nil {
		return model.User{}, err
	}
	var out model.User
	if err := json.Unmarshal(body, &out); err != nil {
		return model.User{}, fmt.Errorf("api: parsing profile update: %w", err)
	}
	return out, nil
}

// UserDetails fetches the profile together with group memberships.
func (c *Client) UserDetails(ctx context.Context, token string) (model.User, []model.Group, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/User/me", token, nil)
	if err != nil {
		return model.User{}, nil, err
	}

	var details userDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return model.User{}, nil, fmt.Errorf("api: parsing user details: %w", err)
	}

	u := model.User{
		UserName: details.UserName,
		Name:     details.Name,
		Email:    details.Email,
		Phone:    details.Phone,
	}
	if id, ok := flexID(details.UserID); ok {
		u.UserID = fmt.Sprintf("%d", id)
	} else {
		var s string
		if json.Unmarshal(details.UserID, &s) == nil {
			u.UserID = s
		}
	}

	var groups []model.Group
	if len(details.Groups) > 0 {
		items, err := unwrapList(details.Groups)
		if err == nil {
			for _, raw := range items {
				var gw groupWire
				if json.Unmarshal(raw, &gw) == nil {
					groups = append(groups, gw.toModel())
				}
			}
		}
	}
	return u, groups, nil
}

// SwitchToGroup exchanges the personal token for a group-scoped token.
func (c *Client) SwitchToGroup(ctx context.Context, token, groupID string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/Auth/switch-to-group/"+groupID, token, struct{}{})
	if err != nil {
		return "", err
	}
	var resp switchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("api: parsing switch response: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("api: switch response missing token")
	}
	return resp.Token, nil
}

// CreateGroup creates a group. Membership is a separate step; see JoinGroup.
func (c *Client) CreateGroup(ctx context.Context, token string, req CreateGroupRequest) (model.Group, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/Group/AddGroup", token, req)
	if err != nil {
		return model.Group{}, err
	}
	var gw groupWire
	if err := json.Unmarshal(body, &gw); err != nil {
		return model.Group{}, fmt.Errorf("api: parsing group: %w", err)
	}
	return gw.toModel(), nil
}

// JoinGroup adds the user to a group by invite code.
func (c *Client) JoinGroup(ctx context.Context, token, groupCode string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/User/UpdateUserGroups", token, map[string]string{"groupCode": groupCode})
	return err
}

// LeaveGroup removes a user from a group.
func (c *Client) LeaveGroup(ctx context.Context, token, userID, groupID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/User/RemoveUserGroup/"+userID+"/"+groupID, token, struct{}{})
	return err
}

// Categories fetches the expense category list.
func (c *Client) Categories(ctx context.Context, token string) ([]category.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/Expense/GetExpenseCategories", token, nil)
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(body)
	if err != nil {
		return nil, fmt.Errorf("api: parsing categories: %w", err)
	}
	var cats []category.Category
	for _, raw := range items {
		var cw categoryWire
		if json.Unmarshal(raw, &cw) == nil {
			cats = append(cats, cw.toModel())
		}
	}
	return cats, nil
}

// Expenses fetches the context-scoped expense records. The active token
// determines whether personal or group records come back.
func (c *Client) Expenses(ctx context.Context, token string) ([]model.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/Expense/GetAllRelatedExpenseRecords", token, nil)
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(body)
	if err != nil {
		return nil, fmt.Errorf("api: parsing expenses: %w", err)
	}
	now := c.now()
	txs := make([]model.Transaction, 0, len(items))
	for _, raw := range items {
		txs = append(txs, decodeExpense(raw, now))
	}
	return txs, nil
}

// Deposits fetches the context-scoped deposit records.
func (c *Client) Deposits(ctx context.Context, token string) ([]model.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/Deposit/GetAllRelatedDeposits", token, nil)
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(body)
	if err != nil {
		return nil, fmt.Errorf("api: parsing deposits: %w", err)
	}
	now := c.now()
	txs := make([]model.Transaction, 0, len(items))
	for _, raw := range items {
		txs = append(txs, decodeDeposit(raw, now))
	}
	return txs, nil
}

// AddExpense creates an expense and returns the server-confirmed record.
func (c *Client) AddExpense(ctx context.Context, token string, req NewExpense) (model.Transaction, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/Expense/AddExpenseRecord", token, req)
	if err != nil {
		return model.Transaction{}, err
	}
	return decodeExpense(body, c.now()), nil
}

// AddDeposit creates a deposit and returns the server-confirmed record.
func (c *Client) AddDeposit(ctx context.Context, token string, req NewDeposit) (model.Transaction, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/Deposit/AddDeposit", token, req)
	if err != nil {
		return model.Transaction{}, err
	}
	return decodeDeposit(body, c.now()), nil
}

// UpdateExpense rewrites an expense record. Local-only records are rejected.
func (c *Client) UpdateExpense(ctx context.Context, token string, id model.RecordID, req NewExpense) error {
	n, ok := id.Synced()
	if !ok {
		return ErrLocalRecord
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Expense/UpdateExpenseRecord/%d", n), token, req)
	return err
}

// UpdateDeposit rewrites a deposit record. Local-only records are rejected.
func (c *Client) UpdateDeposit(ctx context.Context, token string, id model.RecordID, req NewDeposit) error {
	n, ok := id.Synced()
	if !ok {
		return ErrLocalRecord
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Deposit/UpdateDeposit/%d", n), token, req)
	return err
}

// DeleteExpense removes an expense record. Local-only records are rejected.
func (c *Client) DeleteExpense(ctx context.Context, token string, id model.RecordID) error {
	n, ok := id.Synced()
	if !ok {
		return ErrLocalRecord
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Expense/DeleteExpenseRecord/%d", n), token, nil)
	return err
}

// DeleteDeposit removes a deposit record. Local-only records are rejected.
func (c *Client) DeleteDeposit(ctx context.Context, token string, id model.RecordID) error {
	n, ok := id.Synced()
	if !ok {
		return ErrLocalRecord
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Deposit/DeleteDeposit/%d", n), token, nil)
	return err
}

// do performs one request and returns the response body. Sentinel errors
// cover the auth and missing-record statuses; everything else non-2xx
// becomes a StatusError.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Title != "":
			return e.Title
		case e.Error != "":
			return e.Error
		}
	}
	return ""
}
