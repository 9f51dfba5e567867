package quran

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/andalus/go-taraweeh-monitor/internal/core/constants"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// DefaultBaseURL is the public ayah-text service endpoint.
const DefaultBaseURL = "https://api.alquran.cloud/v1"

const (
	arabicEdition  = "quran-uthmani"
	englishEdition = "en.asad"
)

// Client fetches Arabic and English ayah text from the external lookup
// service. All lookups are best-effort: any failure degrades to an
// unavailable result rather than an error crossing into playback logic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL; empty means the default
// public service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.TextFetchTimeout,
		},
	}
}

type editionResponse struct {
	Code int `json:"code"`
	Data []struct {
		Text    string `json:"text"`
		Edition struct {
			Identifier string `json:"identifier"`
		} `json:"edition"`
	} `json:"data"`
}

// FetchAyah looks up the text for one ayah. The returned AyahText has
// Available=false on any failure; the error is informational only.
func (c *Client) FetchAyah(ctx context.Context, key model.TextKey) (model.AyahText, error) {
	url := fmt.Sprintf("%s/ayah/%d:%d/editions/%s,%s",
		c.baseURL, key.SurahNumber, key.Ayah, arabicEdition, englishEdition)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.AyahText{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Ayah text fetch failed for %d:%d - %v", key.SurahNumber, key.Ayah, err))
		return model.AyahText{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ayah text service returned %d", resp.StatusCode)
		util.LogDebug(err.Error())
		return model.AyahText{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AyahText{}, err
	}

	var payload editionResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return model.AyahText{}, fmt.Errorf("decode ayah text response: %w", err)
	}

	text := model.AyahText{}
	for _, item := range payload.Data {
		switch item.Edition.Identifier {
		case arabicEdition:
			text.Arabic = item.Text
		case englishEdition:
			text.English = item.Text
		}
	}
	text.Available = text.Arabic != "" || text.English != ""
	if !text.Available {
		return text, fmt.Errorf("ayah text service returned no editions for %d:%d", key.SurahNumber, key.Ayah)
	}
	return text, nil
}
