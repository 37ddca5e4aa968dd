package rfc3507

import (
	"errors"
	"testing"
)

func TestParseResponse(t *testing.T) {
	res, err := ParseResponse("ICAP/1.0 204 No Content\r\nServer: X\r\nISTag: Y\r\n\r\n")
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if res.StatusCode != 204 {
		t.Fatalf("Status code is %d", res.StatusCode)
	}
	if val, ok := res.Get("Server"); !ok || val != "X" {
		t.Fatalf("Server is %q (present: %v)", val, ok)
	}
	if val, ok := res.Get("ISTag"); !ok || val != "Y" {
		t.Fatalf("ISTag is %q (present: %v)", val, ok)
	}
}

func TestParseResponseHeaderOrder(t *testing.T) {
	res, err := ParseResponse("ICAP/1.0 200 OK\r\nMethods: RESPMOD\r\nAllow: 204\r\nPreview: 1024\r\n\r\n")
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	keys := res.Keys()
	if len(keys) != 3 || keys[0] != "Methods" || keys[1] != "Allow" || keys[2] != "Preview" {
		t.Fatalf("Keys are %v", keys)
	}
}

func TestParseResponseDuplicateHeaderLastWins(t *testing.T) {
	res, err := ParseResponse("ICAP/1.0 200 OK\r\nISTag: first\r\nISTag: second\r\n\r\n")
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if val, _ := res.Get("ISTag"); val != "second" {
		t.Fatalf("ISTag is %q", val)
	}
	if len(res.Keys()) != 1 {
		t.Fatalf("Keys are %v", res.Keys())
	}
}

func TestParseResponseRejectsNonNumericStatus(t *testing.T) {
	_, err := ParseResponse("ICAP/1.0 abc Bad\r\n\r\n")
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("Error is %v", err)
	}
}

func TestParseResponseRejectsMissingDelimiters(t *testing.T) {
	for _, raw := range []string{"", "ICAP/1.0", "ICAP/1.0 204"} {
		if _, err := ParseResponse(raw); err == nil {
			t.Fatalf("No error for %q", raw)
		}
	}
}

func TestParseResponseStopsAtBlankLine(t *testing.T) {
	res, err := ParseResponse("ICAP/1.0 200 OK\r\nServer: X\r\n\r\nEncapsulated-Garbage: nope\r\n")
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if _, ok := res.Get("Encapsulated-Garbage"); ok {
		t.Fatal("Parsing did not stop at the blank line")
	}
}
