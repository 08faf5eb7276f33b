package guard

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Request bodies larger than this are not inspected by the signup guard.
const maxPeekBytes = 1 << 20

// peekEmail reads the request body far enough to extract the email field and
// returns a restore func that puts the consumed bytes back so downstream
// decoding sees the full body.
func peekEmail(r *http.Request) (string, func(), error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	restore := func() {
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}
	if err != nil {
		return "", restore, err
	}
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", restore, err
	}
	return probe.Email, restore, nil
}
