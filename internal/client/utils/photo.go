// Package utils contains small client-side helpers.
package utils

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sharestory/internal/common"
)

const defaultPhotoMIME = "image/jpeg"

// EncodePhotoDataURL packs raw image bytes into a self-contained base64
// data-URL so the photo of an offline-authored story survives as plain text
// in the local store.
func EncodePhotoDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = defaultPhotoMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodePhotoDataURL turns a stored data-URL back into image bytes and the
// declared MIME type. Failures wrap common.ErrDecode.
func DecodePhotoDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data: prefix", common.ErrDecode)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload separator", common.ErrDecode)
	}

	mime, found := strings.CutSuffix(meta, ";base64")
	if !found {
		return nil, "", fmt.Errorf("%w: not base64 encoded", common.ErrDecode)
	}
	if mime == "" {
		mime = defaultPhotoMIME
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrDecode, err)
	}
	return data, mime, nil
}
