package service

// QRCodeService renders a payment approval link as a QR image so the buyer
// can open it on another device.
type QRCodeService interface {
	// ApprovalQR returns a PNG encoding of the approval URL.
	ApprovalQR(approvalURL string) ([]byte, error)
}
