package hostproto

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/numconv/internal/convert"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{
			"cursor",
			`{"id":"1","text":"x = 0x1f;","offset":6,"to":"dec"}`,
			Request{ID: "1", Text: "x = 0x1f;", Target: convert.At(6), To: convert.Decimal},
		},
		{
			"selection with from",
			`{"id":"2","text":"x = 42;","start":4,"end":6,"to":"hexadecimal","from":"dec","syntax":"go"}`,
			Request{ID: "2", Text: "x = 42;", Target: convert.Between(4, 6), To: convert.Hexadecimal, From: []convert.Base{convert.Decimal}, Syntax: "go"},
		},
		{
			"numeric id and from list",
			`{"id":7,"text":"101","offset":1,"to":"dec","from":["hex","bin"]}`,
			Request{ID: "7", Text: "101", Target: convert.At(1), To: convert.Decimal, From: []convert.Base{convert.Hexadecimal, convert.Binary}},
		},
		{
			"all",
			`{"id":"4","text":"a = 1","all":true,"from":"dec","to":"bin"}`,
			Request{ID: "4", Text: "a = 1", All: true, To: convert.Binary, From: []convert.Base{convert.Decimal}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.line))
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}
			if got.ID != tt.want.ID || got.Text != tt.want.Text || got.Target != tt.want.Target ||
				got.All != tt.want.All || got.To != tt.want.To || got.Syntax != tt.want.Syntax {
				t.Errorf("DecodeRequest() = %+v, want %+v", got, tt.want)
			}
			if len(got.From) != len(tt.want.From) {
				t.Fatalf("From = %v, want %v", got.From, tt.want.From)
			}
			for i := range got.From {
				if got.From[i] != tt.want.From[i] {
					t.Errorf("From[%d] = %v, want %v", i, got.From[i], tt.want.From[i])
				}
			}
		})
	}
}

func TestDecodeRequestMissingID(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"text":"1","offset":0,"to":"hex"}`))
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", req.ID, err)
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"invalid json", `{"text":`},
		{"not an object", `[1,2]`},
		{"missing text", `{"id":"1","offset":0,"to":"hex"}`},
		{"text not string", `{"id":"1","text":5,"offset":0,"to":"hex"}`},
		{"missing to", `{"id":"1","text":"1","offset":0}`},
		{"unknown base", `{"id":"1","text":"1","offset":0,"to":"oct"}`},
		{"unknown from", `{"id":"1","text":"1","offset":0,"to":"hex","from":["dec","roman"]}`},
		{"offset not number", `{"id":"1","text":"1","offset":"0","to":"hex"}`},
		{"no target", `{"id":"1","text":"1","to":"hex"}`},
		{"start without end", `{"id":"1","text":"1","start":0,"to":"hex"}`},
		{"all without from", `{"id":"1","text":"1","all":true,"to":"hex"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.line))
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("DecodeRequest() error = %v, want *Error", err)
			}
			if perr.Code != CodeBadRequest {
				t.Errorf("Code = %s, want bad_request", perr.Code)
			}
			if req.ID == "" {
				t.Error("failed request has no ID to answer with")
			}
		})
	}
}

func TestRequestRoundTrip(t *testing.T) {
	reqs := []Request{
		{ID: "a", Text: "x = \"0x1f\"\n", Target: convert.At(6), To: convert.Decimal},
		{ID: "b", Text: "x = 42;", Target: convert.Between(4, 6), To: convert.Hexadecimal, From: []convert.Base{convert.Decimal, convert.Binary}, Syntax: "vhdl"},
		{ID: "c", Text: "a = 1", All: true, To: convert.Exponential, From: []convert.Base{convert.Decimal}},
	}
	for _, want := range reqs {
		line, err := EncodeRequest(want)
		if err != nil {
			t.Fatalf("EncodeRequest(%s) error = %v", want.ID, err)
		}
		got, err := DecodeRequest(line)
		if err != nil {
			t.Fatalf("DecodeRequest(%s) error = %v", line, err)
		}
		if got.ID != want.ID || got.Text != want.Text || got.Target != want.Target ||
			got.All != want.All || got.To != want.To || got.Syntax != want.Syntax || len(got.From) != len(want.From) {
			t.Errorf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestEncodeResponse(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			"ok",
			Response{ID: "1", OK: true, Start: 4, End: 8, Text: "31"},
			`{"id":"1","ok":true,"start":4,"end":8,"text":"31","saturated":false}`,
		},
		{
			"count",
			Response{ID: "2", OK: true, End: 5, Text: "a = 1", Count: 1},
			`{"id":"2","ok":true,"start":0,"end":5,"text":"a = 1","saturated":false,"count":1}`,
		},
		{
			"error",
			Response{ID: "3", Err: &Error{Code: CodeNoMatch, Message: "no number found"}},
			`{"id":"3","ok":false,"error":{"code":"no_match","message":"no number found"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeResponse(tt.resp)
			if err != nil {
				t.Fatalf("EncodeResponse() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("EncodeResponse() = %s, want %s", got, tt.want)
			}

			back, err := DecodeResponse(got)
			if err != nil {
				t.Fatalf("DecodeResponse() error = %v", err)
			}
			if back.ID != tt.resp.ID || back.OK != tt.resp.OK || back.Text != tt.resp.Text || back.Count != tt.resp.Count {
				t.Errorf("DecodeResponse() = %+v, want %+v", back, tt.resp)
			}
			if (back.Err == nil) != (tt.resp.Err == nil) {
				t.Errorf("Err = %v, want %v", back.Err, tt.resp.Err)
			}
		})
	}
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{convert.ErrNoMatch, CodeNoMatch},
		{&convert.OverflowError{Text: "ffff", Base: convert.Hexadecimal, Bits: 8}, CodeOverflow},
		{&convert.PatternError{Key: "convert_src_hex", Pattern: "(", Message: "bad", Err: errors.New("x")}, CodeInvalidPattern},
		{convert.ErrBaseUnavailable, CodeBaseUnavailable},
		{convert.ErrInvalidSpan, CodeBadRequest},
		{badRequest("nope"), CodeBadRequest},
	}
	for _, tt := range tests {
		if got := errorFor(tt.err).Code; got != tt.want {
			t.Errorf("errorFor(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
