package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
)

// Default configuration values.
const (
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultRepoOwner  = "gkanogiannis"
	DefaultRepoName   = "fastreer-gui"
	DefaultAppName    = "fastreer-gui"
	DefaultTimeout    = 30 * time.Second
	UserAgent         = "FastreeR-Updater"
)

// Error variables for specific error conditions.
var (
	ErrNetworkFailure = errors.New("network request failed")
	ErrRateLimited    = errors.New("rate limited by GitHub API")
	ErrInvalidVersion = errors.New("invalid version format")
)

// ReleaseAsset represents a downloadable file attached to a release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	ContentType        string `json:"content_type"`
	Size               int64  `json:"size"`
}

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	Body        string         `json:"body"`
	HTMLURL     string         `json:"html_url"`
	PublishedAt time.Time      `json:"published_at"`
	Prerelease  bool           `json:"prerelease"`
	Draft       bool           `json:"draft"`
	Assets      []ReleaseAsset `json:"assets"`
}

// UpdateInfo contains the result of a version check.
type UpdateInfo struct {
	CurrentVersion  Version
	LatestVersion   Version
	UpdateAvailable bool
	// AssetName is the file name the download URL must end with.
	AssetName    string
	DownloadURL  string
	DownloadSize int64
	ReleaseURL   string
	ReleaseNotes string
	PublishedAt  time.Time
	CheckedAt    time.Time
}

// Checker queries the latest GitHub release.
type Checker struct {
	baseURL    string
	owner      string
	repo       string
	appName    string
	httpClient *http.Client
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient sets a custom HTTP client for the checker.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIBaseURL points the checker at another GitHub API host.
func WithAPIBaseURL(base string) CheckerOption {
	return func(c *Checker) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithAppName changes the prefix of the expected asset file name.
func WithAppName(name string) CheckerOption {
	return func(c *Checker) {
		c.appName = name
	}
}

// NewChecker creates a new version checker for the specified repository.
func NewChecker(owner, repo string, opts ...CheckerOption) *Checker {
	c := &Checker{
		baseURL: DefaultAPIBaseURL,
		owner:   owner,
		repo:    repo,
		appName: DefaultAppName,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AssetName is the release file expected for version, e.g.
// fastreer-gui-1.2.0-jar-with-dependencies.jar.
func AssetName(appName, version string) string {
	return fmt.Sprintf("%s-%s-jar-with-dependencies.jar", appName, version)
}

// LocalFileName is where downloads land inside the installation directory.
func LocalFileName(appName string) string {
	return appName + "-latest-jar-with-dependencies.jar"
}

// Check fetches the latest release and compares it to currentVersion.
// When a newer release exists it also locates the download URL. The asset
// is matched against the CURRENT version's file name, not the new one;
// releases republish the jar under that name.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*UpdateInfo, error) {
	current, err := ParseVersion(currentVersion)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeSettingsRead, "recorded application version is invalid", err)
	}

	release, err := c.fetchLatestRelease(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeMetadataParse, "parse release tag", err)
	}

	info := &UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   latest,
		UpdateAvailable: current.LessThan(latest),
		AssetName:       AssetName(c.appName, current.String()),
		ReleaseURL:      release.HTMLURL,
		ReleaseNotes:    release.Body,
		PublishedAt:     release.PublishedAt,
		CheckedAt:       time.Now(),
	}
	debug.Logf("update check: current=%s latest=%s available=%t", current, latest, info.UpdateAvailable)
	if !info.UpdateAvailable {
		return info, nil
	}

	asset, ok := findAsset(release.Assets, info.AssetName)
	if !ok {
		return info, appErrors.New(appErrors.CodeAssetNotFound, "could not find download link for "+info.AssetName, nil)
	}
	info.DownloadURL = asset.BrowserDownloadURL
	info.DownloadSize = asset.Size
	return info, nil
}

func (c *Checker) fetchLatestRelease(ctx context.Context) (*ReleaseInfo, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeNetwork, "create request", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, appErrors.New(appErrors.CodeCanceled, "update check canceled", ctx.Err())
		}
		return nil, appErrors.New(appErrors.CodeNetwork, "fetch latest release", fmt.Errorf("%w: %v", ErrNetworkFailure, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden {
		return nil, appErrors.New(appErrors.CodeNetwork, "GitHub API error: 403", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.New(appErrors.CodeNetwork, fmt.Sprintf("GitHub API error: %d", resp.StatusCode), ErrNetworkFailure)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, appErrors.New(appErrors.CodeMetadataParse, "decode release metadata", err)
	}
	return &release, nil
}

// findAsset returns the first asset whose download URL ends in a path
// segment exactly equal to name.
func findAsset(assets []ReleaseAsset, name string) (ReleaseAsset, bool) {
	for _, asset := range assets {
		if assetFileName(asset.BrowserDownloadURL) == name {
			return asset, true
		}
	}
	return ReleaseAsset{}, false
}

func assetFileName(raw string) string {
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}
