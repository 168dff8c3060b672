package hostproto

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Client sends requests to a helper process and reads its responses. Calls
// are serialized, matching the server's one-at-a-time handling.
type Client struct {
	mu      sync.Mutex
	w       io.Writer
	scanner *bufio.Scanner
}

// NewClient creates a client writing requests to w and reading responses
// from r, typically the helper's stdin and stdout.
func NewClient(r io.Reader, w io.Writer) *Client {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)
	return &Client{w: w, scanner: scanner}
}

// Do sends req and waits for its response. A failed conversion is reported
// in the response, not as an error.
func (c *Client) Do(req Request) (Response, error) {
	line, err := EncodeRequest(req)
	if err != nil {
		return Response{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.w.Write(append(line, '\n')); err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		return Response{}, ErrClientClosed
	}
	resp, err := DecodeResponse(c.scanner.Bytes())
	if err != nil {
		return Response{}, err
	}
	if req.ID != "" && resp.ID != req.ID {
		return resp, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	return resp, nil
}
