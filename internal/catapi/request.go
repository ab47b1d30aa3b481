package catapi

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxCaptionRunes = 200
	maxTagRunes     = 64
)

// FetchRequest describes one logical image fetch. Build it with FetchOptions;
// it is not modified once Fetch starts.
type FetchRequest struct {
	Caption    string
	HasCaption bool
	Tag        string
	HasTag     bool
}

type FetchOption func(*FetchRequest)

// WithCaption asks the service to render text over the image.
func WithCaption(caption string) FetchOption {
	return func(r *FetchRequest) {
		r.Caption = caption
		r.HasCaption = true
	}
}

// WithTag restricts the random image to a tag such as "cute".
func WithTag(tag string) FetchOption {
	return func(r *FetchRequest) {
		r.Tag = tag
		r.HasTag = true
	}
}

func newFetchRequest(opts ...FetchOption) FetchRequest {
	var req FetchRequest
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// normalize trims the supplied fields and rejects values the service cannot
// take. Errors wrap ErrInvalidInput.
func (r FetchRequest) normalize() (FetchRequest, error) {
	out := r

	if r.HasCaption {
		caption, err := ValidateCaption(r.Caption)
		if err != nil {
			return out, err
		}
		out.Caption = caption
	}

	if r.HasTag {
		tag, err := ValidateTag(r.Tag)
		if err != nil {
			return out, err
		}
		out.Tag = tag
	}

	return out, nil
}

// ValidateCaption returns the trimmed caption, or an error wrapping
// ErrInvalidInput when the service would not accept it.
func ValidateCaption(caption string) (string, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", fmt.Errorf("%w: caption is empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(caption) > maxCaptionRunes {
		return "", fmt.Errorf("%w: caption longer than %d characters", ErrInvalidInput, maxCaptionRunes)
	}
	if looksLikeURL(caption) {
		if err := validateURL(caption); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return caption, nil
}

// ValidateTag is the tag counterpart of ValidateCaption.
func ValidateTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("%w: tag is empty", ErrInvalidInput)
	}
	if strings.Contains(tag, "/") {
		return "", fmt.Errorf("%w: tag must not contain '/'", ErrInvalidInput)
	}
	if utf8.RuneCountInString(tag) > maxTagRunes {
		return "", fmt.Errorf("%w: tag longer than %d characters", ErrInvalidInput, maxTagRunes)
	}
	return tag, nil
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.Contains(lower, "://")
}

func validateURL(s string) error {
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Errorf("malformed URL %q: contains whitespace", s)
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return fmt.Errorf("malformed URL %q: %w", s, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("malformed URL %q: missing scheme or host", s)
	}
	return nil
}

// path returns the service path for the request, relative to the base URL.
func (r FetchRequest) path() string {
	p := "/cat"
	if r.HasTag {
		p += "/" + url.PathEscape(r.Tag)
	}
	if r.HasCaption {
		p += "/says/" + url.PathEscape(r.Caption)
	}
	return p
}
