package wordpress

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Image is a decoded featured image ready for upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
	Filename    string
}

var ErrEmptyImage = errors.New("image data is empty")

// DetectImageType maps a data URL prefix to a MIME type and file extension.
// Anything that is not png, webp or gif is sent as jpeg.
func DetectImageType(dataURL string) (contentType, extension string) {
	switch {
	case strings.HasPrefix(dataURL, "data:image/png"):
		return "image/png", "png"
	case strings.HasPrefix(dataURL, "data:image/webp"):
		return "image/webp", "webp"
	case strings.HasPrefix(dataURL, "data:image/gif"):
		return "image/gif", "gif"
	default:
		return "image/jpeg", "jpg"
	}
}

// DecodeDataURL decodes a base64 image, either a full data URL
// ("data:image/png;base64,....") or bare base64. baseName is used for the
// upload filename, suffixed with the detected extension.
func DecodeDataURL(dataURL, baseName string) (Image, error) {
	dataURL = strings.TrimSpace(dataURL)
	contentType, ext := DetectImageType(dataURL)

	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		comma := strings.IndexByte(dataURL, ',')
		if comma < 0 {
			return Image{}, fmt.Errorf("malformed data URL")
		}
		if !strings.Contains(dataURL[:comma], ";base64") {
			return Image{}, fmt.Errorf("data URL is not base64 encoded")
		}
		payload = dataURL[comma+1:]
	}
	if payload == "" {
		return Image{}, ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return Image{}, fmt.Errorf("decoding image: %w", err)
		}
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}

	if baseName == "" {
		baseName = "featured-image"
	}
	return Image{
		Data:        data,
		ContentType: contentType,
		Extension:   ext,
		Filename:    baseName + "." + ext,
	}, nil
}
