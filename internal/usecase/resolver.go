package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// downloadTimeout bounds the remote image fetch.
const downloadTimeout = 10 * time.Second

// ErrNoImage is returned when neither input field is supplied.
var ErrNoImage = errors.New("no image provided")

// ErrDownloadFailed is returned when the remote image fetch completes with
// a non-success status.
var ErrDownloadFailed = errors.New("image download failed")

// DecodeError wraps a malformed inline base64 payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("invalid base64: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError wraps a transport-level failure while fetching the remote
// image.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// resolveImage turns the request into raw image bytes. Inline data takes
// precedence over a remote reference.
func (uc *VerificationUseCase) resolveImage(ctx context.Context, req VerifyRequest) ([]byte, error) {
	switch {
	case req.ImageBase64 != "":
		encoded := req.ImageBase64
		// Strip a data-URI header ("data:image/png;base64,") when present.
		if idx := strings.Index(encoded, ","); idx >= 0 {
			encoded = encoded[idx+1:]
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		return data, nil

	case req.ImageURL != "":
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.ImageURL, nil)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		resp, err := uc.httpClient.Do(httpReq)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, ErrDownloadFailed
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		return data, nil

	default:
		return nil, ErrNoImage
	}
}
