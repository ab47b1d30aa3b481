package catapi

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInput is returned without any network call when the caption
	// or tag fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTransient covers transport errors, timeouts and non-200 statuses.
	ErrTransient = errors.New("transient network failure")
	// ErrMalformedResponse is a 200 whose body is not a recognisable image.
	// It is retried like ErrTransient.
	ErrMalformedResponse = errors.New("malformed response")
)

// Image is a fetched cat picture.
type Image struct {
	ID          string
	Bytes       []byte
	ContentType string
	Format      string
	SourceURL   string
	Width       int
	Height      int
	FetchedAt   time.Time
}

// Result is the outcome of one Fetch: a Success carries Image, a Failure
// carries Err.
type Result struct {
	Image    *Image
	Caption  string
	Tag      string
	Attempts int
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Image != nil
}

// Reason is the failure message, or "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func success(req FetchRequest, img *Image, attempts int) Result {
	res := Result{Image: img, Attempts: attempts}
	if req.HasCaption {
		res.Caption = req.Caption
	}
	if req.HasTag {
		res.Tag = req.Tag
	}
	return res
}

func failure(err error, attempts int) Result {
	return Result{Err: err, Attempts: attempts}
}
