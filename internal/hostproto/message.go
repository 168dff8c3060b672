package hostproto

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/numconv/internal/convert"
)

// Request asks for one conversion.
type Request struct {
	ID   string
	Text string
	// Target is an empty span for a cursor, otherwise the selection.
	Target convert.Span
	// All converts every number of From[0] in Text instead of Target.
	All    bool
	To     convert.Base
	From   []convert.Base
	Syntax string
}

// Response answers a Request.
type Response struct {
	ID string
	OK bool
	// Start and End delimit the replaced bytes of the request text.
	Start int
	End   int
	// Text replaces the bytes in [Start, End).
	Text      string
	Saturated bool
	// Count is the number of conversions of an "all" request.
	Count int
	Err   *Error
}

// DecodeRequest parses one request line. The returned request always has
// an ID, even when err is non-nil, so the failure can be answered.
func DecodeRequest(line []byte) (Request, error) {
	var req Request
	if !gjson.ValidBytes(line) {
		req.ID = uuid.NewString()
		return req, badRequest("invalid JSON")
	}
	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		req.ID = uuid.NewString()
		return req, badRequest("request must be a JSON object")
	}

	fields := root.Map()
	req.ID = fields["id"].String()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Syntax = fields["syntax"].String()

	text, ok := fields["text"]
	if !ok || text.Type != gjson.String {
		return req, badRequest("text must be a string")
	}
	req.Text = text.String()

	to, ok := fields["to"]
	if !ok {
		return req, badRequest("to is required")
	}
	b, err := convert.ParseBase(to.String())
	if err != nil {
		return req, badRequest(err.Error())
	}
	req.To = b

	if from, ok := fields["from"]; ok {
		names := []gjson.Result{from}
		if from.IsArray() {
			names = from.Array()
		}
		for _, name := range names {
			b, err := convert.ParseBase(name.String())
			if err != nil {
				return req, badRequest(err.Error())
			}
			req.From = append(req.From, b)
		}
	}

	offset, hasOffset := fields["offset"]
	start, hasStart := fields["start"]
	end, hasEnd := fields["end"]
	switch {
	case fields["all"].Bool():
		if len(req.From) != 1 {
			return req, badRequest("all requires exactly one from base")
		}
		req.All = true
	case hasOffset:
		if offset.Type != gjson.Number {
			return req, badRequest("offset must be a number")
		}
		req.Target = convert.At(int(offset.Int()))
	case hasStart && hasEnd:
		if start.Type != gjson.Number || end.Type != gjson.Number {
			return req, badRequest("start and end must be numbers")
		}
		req.Target = convert.Between(int(start.Int()), int(end.Int()))
	default:
		return req, badRequest("offset or start and end required")
	}
	return req, nil
}

// EncodeRequest renders req as one line, without the trailing newline.
func EncodeRequest(req Request) ([]byte, error) {
	out := []byte(`{}`)
	set := func(path string, value any) {
		if out == nil {
			return
		}
		var err error
		if out, err = sjson.SetBytes(out, path, value); err != nil {
			out = nil
		}
	}

	set("id", req.ID)
	set("text", req.Text)
	switch {
	case req.All:
		set("all", true)
	case req.Target.IsEmpty():
		set("offset", req.Target.Start)
	default:
		set("start", req.Target.Start)
		set("end", req.Target.End)
	}
	set("to", req.To.Short())
	for i, b := range req.From {
		set(fmt.Sprintf("from.%d", i), b.Short())
	}
	if req.Syntax != "" {
		set("syntax", req.Syntax)
	}
	if out == nil {
		return nil, fmt.Errorf("encode request %s", req.ID)
	}
	return out, nil
}

// EncodeResponse renders resp as one line, without the trailing newline.
func EncodeResponse(resp Response) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "id", resp.ID)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "ok", resp.OK); err != nil {
		return nil, err
	}
	if !resp.OK {
		e := resp.Err
		if e == nil {
			e = badRequest("request failed")
		}
		if out, err = sjson.SetBytes(out, "error.code", string(e.Code)); err != nil {
			return nil, err
		}
		return sjson.SetBytes(out, "error.message", e.Message)
	}

	for _, kv := range []struct {
		path  string
		value any
	}{
		{"start", resp.Start},
		{"end", resp.End},
		{"text", resp.Text},
		{"saturated", resp.Saturated},
	} {
		if out, err = sjson.SetBytes(out, kv.path, kv.value); err != nil {
			return nil, err
		}
	}
	if resp.Count > 0 {
		return sjson.SetBytes(out, "count", resp.Count)
	}
	return out, nil
}

// DecodeResponse parses one response line.
func DecodeResponse(line []byte) (Response, error) {
	if !gjson.ValidBytes(line) {
		return Response{}, fmt.Errorf("decode response: invalid JSON")
	}
	root := gjson.ParseBytes(line)
	resp := Response{
		ID:        root.Get("id").String(),
		OK:        root.Get("ok").Bool(),
		Start:     int(root.Get("start").Int()),
		End:       int(root.Get("end").Int()),
		Text:      root.Get("text").String(),
		Saturated: root.Get("saturated").Bool(),
		Count:     int(root.Get("count").Int()),
	}
	if e := root.Get("error"); e.Exists() {
		resp.Err = &Error{
			Code:    Code(e.Get("code").String()),
			Message: e.Get("message").String(),
		}
	}
	return resp, nil
}
