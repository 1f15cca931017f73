package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"accountd/internal/apperr"
)

// Client resolves user profiles against the identity provider's REST API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{},
	}
}

// GetUser fetches the profile for one external user id. Failures are not
// retried and not cached; callers bound the call through ctx.
func (c *Client) GetUser(ctx context.Context, externalUserID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/user_management/users/%s", c.baseURL, url.PathEscape(externalUserID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeIdentityLookupFailed, "building identity provider request failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeIdentityLookupFailed, "identity provider request failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		return nil, apperr.New(apperr.KindInternal, apperr.CodeIdentityLookupFailed,
			fmt.Sprintf("identity provider returned %d: %s", res.StatusCode, strings.TrimSpace(string(b))))
	}

	var profile Profile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, apperr.CodeIdentityLookupFailed, "decoding identity provider response failed", err)
	}

	return &profile, nil
}
