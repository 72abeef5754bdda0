package listings

import (
	stderrors "errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"filemarket/internal/errors"
)

const (
	maxFormMemory = 4 << 20

	// formOverhead covers the text fields and multipart framing around a cover.
	formOverhead = 1 << 20
)

// parseListingForm reads a urlencoded or multipart form into a partial update.
// The body is capped at maxBody bytes. The returned cleanup closes the cover
// file and removes any multipart temp files.
func parseListingForm(w http.ResponseWriter, r *http.Request, maxBody int64) (*ListingRequest, func(), error) {
	cleanup := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
		if r.MultipartForm != nil {
			form := r.MultipartForm
			cleanup = func() { form.RemoveAll() }
		}
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || stderrors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, cleanup, errors.Validation("cover", "The submitted form is too large", err)
		}
		return nil, cleanup, errors.New(errors.ErrInvalidInput, "Could not read the submitted form", err)
	}

	req := &ListingRequest{
		Title:         formValue(r, "title"),
		Overview:      formValue(r, "overview"),
		OverviewShort: formValue(r, "overview_short"),
		YouTubeURL:    formValue(r, "youtube_url"),
		VimeoURL:      formValue(r, "vimeo_url"),
	}

	if v := formValue(r, "price"); v != nil {
		price, err := parsePrice(*v)
		if err != nil {
			return nil, cleanup, errors.Validation("price", "Price must be a number with at most two decimals", err)
		}
		req.Price = &price
	}

	if v := formValue(r, "live"); v != nil {
		live, err := parseCheckbox(*v)
		if err != nil {
			return nil, cleanup, errors.Validation("live", "Live must be on or off", err)
		}
		req.Live = &live
	}

	if key := formValue(r, "cover_key"); key != nil && *key != "" {
		req.CoverKey = key
	}

	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["cover"]; len(headers) > 0 {
			file, err := headers[0].Open()
			if err != nil {
				return nil, cleanup, errors.Validation("cover", "Could not read the uploaded cover", err)
			}
			cleanup = closeThen(file, cleanup)
			req.Cover = &CoverUpload{Filename: headers[0].Filename, Body: file}
		}
	}

	return req, cleanup, nil
}

func closeThen(f multipart.File, next func()) func() {
	return func() {
		f.Close()
		next()
	}
}

// formValue distinguishes a field that was not sent (nil) from one sent empty.
func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	return &v
}

// parsePrice converts a decimal amount in major units ("10", "10.5", "10.50")
// into minor units.
func parsePrice(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}

	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("too many decimals in %q", raw)
	}
	frac += strings.Repeat("0", 2-len(frac))

	major, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	if major > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("price %q out of range", raw)
	}
	minor, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, err
	}

	total := int64(major)*100 + int64(minor)
	if negative {
		total = -total
	}
	return total, nil
}

// parseCheckbox accepts what HTML checkboxes and hidden fallbacks send.
func parseCheckbox(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "", "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("unrecognised checkbox value %q", raw)
}
