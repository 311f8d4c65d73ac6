package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

// TrackingURL is the customer tracking page for an order.
func (g DefaultQRGenerator) TrackingURL(orderID string) string {
	return fmt.Sprintf("%s/customer/tracking?order_id=%s", strings.TrimRight(g.BaseURL, "/"), url.QueryEscape(orderID))
}

// Generate renders the tracking URL as a PNG.
func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, size)
}

var _ QRGenerator = DefaultQRGenerator{}
