package upload

import (
	"bytes"
	"errors"
	"testing"
)

// Magic bytes for the sniffing tests; http.DetectContentType only needs the
// first few bytes to classify these.
var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
	gifHeader  = []byte("GIF89a\x00\x00")
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{"png ok", pngHeader, DefaultMaxBytes, nil},
		{"jpeg ok", jpegHeader, DefaultMaxBytes, nil},
		{"gif ok", gifHeader, DefaultMaxBytes, nil},
		{"plain text rejected", []byte("hello, world"), DefaultMaxBytes, ErrUnsupportedType},
		{"pdf rejected", []byte("%PDF-1.4 something"), DefaultMaxBytes, ErrUnsupportedType},
		{"empty rejected", nil, DefaultMaxBytes, ErrUnsupportedType},
		{"over the cap", pngHeader, 4, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data, tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ExtensionLies(t *testing.T) {
	// Content sniffing decides, not what the client claims: an executable
	// payload is rejected no matter how it is named upstream.
	script := []byte("#!/bin/sh\necho pwned\n")
	if err := Validate(script, DefaultMaxBytes); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Validate() = %v, want ErrUnsupportedType", err)
	}
}

func TestValidate_SizeCheckedFirst(t *testing.T) {
	big := bytes.Repeat([]byte{0x00}, 32)
	if err := Validate(big, 16); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Validate() = %v, want ErrTooLarge", err)
	}
}

func TestNewPublicID(t *testing.T) {
	a, b := NewPublicID(), NewPublicID()
	if a == "" || a == b {
		t.Errorf("NewPublicID() not unique: %q vs %q", a, b)
	}
}

func TestDiscardUploader(t *testing.T) {
	var u Uploader = DiscardUploader{}
	res, err := u.Upload(pngHeader, "avatar.png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.PublicID == "" {
		t.Error("Upload() returned empty public id")
	}
}
