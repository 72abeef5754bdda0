package listings

import (
	"strings"
	"unicode/utf8"

	"filemarket/internal/approval"
	"filemarket/internal/errors"
	"filemarket/internal/video"
)

const (
	maxTitleLen         = 255
	maxOverviewShortLen = 300
)

// proposal converts a request into validated field values. It performs no I/O
// and is always run before anything is uploaded or written, so an invalid
// request leaves the listing untouched. Cover is filled in later, after upload.
func proposal(req *ListingRequest) (approval.Fields, error) {
	var f approval.Fields

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return f, errors.Validation("title", "Title is required", nil)
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return f, errors.Validation("title", "Title is too long", nil)
		}
		f.Title = &title
	}

	if req.OverviewShort != nil {
		short := strings.TrimSpace(*req.OverviewShort)
		if utf8.RuneCountInString(short) > maxOverviewShortLen {
			return f, errors.Validation("overview_short", "Short overview is too long", nil)
		}
		f.OverviewShort = &short
	}

	if req.Overview != nil {
		overview := strings.TrimSpace(*req.Overview)
		f.Overview = &overview
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return f, errors.Validation("price", "Price cannot be negative", nil)
		}
		f.Price = req.Price
	}

	if req.Live != nil {
		f.Live = req.Live
	}

	ref, present, err := proposedVideo(req)
	if err != nil {
		return f, err
	}
	if present {
		f.Video = &ref
	}

	if req.Cover != nil && req.CoverKey != nil {
		return f, errors.Validation("cover", "Send either a cover file or a cover_key, not both", nil)
	}

	return f, nil
}

// proposedVideo validates whichever video URL was sent. present is false when
// neither field was part of the request. A present but empty URL clears the video.
func proposedVideo(req *ListingRequest) (video.Ref, bool, error) {
	youtube := trimmed(req.YouTubeURL)
	vimeo := trimmed(req.VimeoURL)

	if youtube != "" && vimeo != "" {
		return video.Ref{}, false, errors.Validation("vimeo_url", "Only one video can be attached", nil)
	}

	if youtube != "" {
		ref, err := video.ParseURL(video.ProviderYouTube, youtube)
		if err != nil {
			return video.Ref{}, false, errors.Validation("youtube_url", "Not valid Youtube URL", err)
		}
		return ref, true, nil
	}

	if vimeo != "" {
		ref, err := video.ParseURL(video.ProviderVimeo, vimeo)
		if err != nil {
			return video.Ref{}, false, errors.Validation("vimeo_url", "Not valid Vimeo URL", err)
		}
		return ref, true, nil
	}

	return video.Ref{}, req.YouTubeURL != nil || req.VimeoURL != nil, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (req *ListingRequest) hasCover() bool {
	return req.Cover != nil || req.CoverKey != nil
}
