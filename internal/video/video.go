package video

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Provider identifies the host of an embedded video.
type Provider string

const (
	ProviderNone    Provider = ""
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

var ErrInvalidURL = errors.New("video: url does not match a known shape")

var (
	// watch?v=, /embed/, /v/, /e/, youtu.be/ and the youtube-nocookie.com domain.
	youTubePattern = regexp.MustCompile(`(?i)(?:youtube(?:-nocookie)?\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/ ]{11})`)

	vimeoPattern = regexp.MustCompile(`(?i)(?:^|//)(?:www\.)?vimeo\.com/(\d+)(?:$|/)`)
)

// Ref is a validated, normalized video reference. The zero value means "no video".
type Ref struct {
	Provider Provider `json:"provider"`
	ID       string   `json:"id"`
}

func (r Ref) IsZero() bool {
	return r.Provider == ProviderNone || r.ID == ""
}

// URL renders the canonical watch URL for the reference.
func (r Ref) URL() string {
	switch r.Provider {
	case ProviderYouTube:
		return "https://www.youtube.com/watch?v=" + r.ID
	case ProviderVimeo:
		return "https://vimeo.com/" + r.ID
	}
	return ""
}

func (r Ref) EmbedURL() string {
	switch r.Provider {
	case ProviderYouTube:
		return "https://www.youtube-nocookie.com/embed/" + r.ID
	case ProviderVimeo:
		return "https://player.vimeo.com/video/" + r.ID
	}
	return ""
}

// ParseYouTubeID extracts the 11 character video id from a YouTube url.
func ParseYouTubeID(url string) (string, error) {
	m := youTubePattern.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}

// ParseVimeoID extracts the numeric video id from a vimeo.com url.
func ParseVimeoID(url string) (string, error) {
	m := vimeoPattern.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}

// ParseURL validates raw against the shapes accepted for provider. An empty
// value is not validated and yields the zero Ref.
func ParseURL(provider Provider, raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, nil
	}

	var (
		id  string
		err error
	)
	switch provider {
	case ProviderYouTube:
		id, err = ParseYouTubeID(raw)
	case ProviderVimeo:
		id, err = ParseVimeoID(raw)
	default:
		return Ref{}, fmt.Errorf("video: unknown provider %q", provider)
	}
	if err != nil {
		return Ref{}, err
	}

	return Ref{Provider: provider, ID: id}, nil
}
