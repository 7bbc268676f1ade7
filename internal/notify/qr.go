package notify

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// CheckInQR renders the order's check-in code as a PNG data URI suitable for
// embedding in an email.
func CheckInQR(orderID string) (string, error) {
	png, err := qrcode.Encode(orderID, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode check-in QR: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
