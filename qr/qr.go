package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// DataURL renders the given URL as a 500px PNG QR code wrapped in a base64
// data URL, ready to drop into an <img> tag.
func DataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 500)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// PNG renders the given URL as raw PNG bytes.
func PNG(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, 500)
}
