package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GeneratePaymentQR renders the gateway's hosted-payment URL as a PNG QR
	// code so customers can continue the checkout on another device.
	GeneratePaymentQR(paymentURL string) ([]byte, error)
}
