package storage

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Logos larger than this are scaled down, keeping the aspect ratio.
const (
	LogoMaxWidth  = 600
	LogoMaxHeight = 600
)

// ErrInvalidImage is returned for uploads that cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

var hasExtension = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)

// NormalizeLogo decodes a raster logo, fits it into LogoMaxWidth×LogoMaxHeight
// and re-encodes it as PNG. SVG passes through untouched.
func NormalizeLogo(data []byte, contentType string) ([]byte, string, error) {
	if strings.HasPrefix(contentType, "image/svg") {
		return data, contentType, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = imaging.Fit(img, LogoMaxWidth, LogoMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/png", nil
}

// LogoKey builds "<owner>/<unix ms>-<filename>". The owner is the settings
// record id, or "default". A filename without extension gets one from the
// content type.
func LogoKey(owner, filename, contentType string, now time.Time) string {
	if owner == "" {
		owner = "default"
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = "logo"
	}
	if !hasExtension.MatchString(name) {
		name += "." + extensionFor(contentType)
	}
	return owner + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "bin"
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return "bin"
	}
	sub, _, _ = strings.Cut(sub, "+")
	return sub
}
