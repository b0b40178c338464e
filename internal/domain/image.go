package domain

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ImageKind tells how a product image reference should be resolved.
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageURL
	ImageDataURI
	ImageUnknown
)

func (k ImageKind) String() string {
	switch k {
	case ImageNone:
		return "none"
	case ImageURL:
		return "url"
	case ImageDataURI:
		return "data_uri"
	default:
		return "unknown"
	}
}

var ErrNotDataURI = errors.New("not an inline base64 image")

// ClassifyImage inspects an image reference. Products may carry either an
// external URL or an inline "data:image/...;base64," payload.
func ClassifyImage(ref string) ImageKind {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ImageNone
	case strings.HasPrefix(ref, "data:image/"):
		return ImageDataURI
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ImageURL
	default:
		return ImageUnknown
	}
}

// DecodeDataURI returns the MIME type and raw bytes of an inline image.
func DecodeDataURI(ref string) (string, []byte, error) {
	ref = strings.TrimSpace(ref)
	if ClassifyImage(ref) != ImageDataURI {
		return "", nil, ErrNotDataURI
	}
	header, payload, found := strings.Cut(ref, ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrNotDataURI
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

// EncodeDataURI builds an inline image reference from raw bytes.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
