package domain

import "time"

type UploadKind string

const (
	UploadPaymentProof UploadKind = "payment_proof"
	UploadIdentityDoc  UploadKind = "identity_document"
	UploadDepositPhoto UploadKind = "deposit_photo"
	UploadStoreImage   UploadKind = "store_image"
)

// Public reports whether files of this kind may be served without a signed URL.
func (k UploadKind) Public() bool {
	return k == UploadStoreImage
}

type Upload struct {
	ID           int64      `json:"id"`
	StoreID      int64      `json:"store_id"`
	UploadedBy   int64      `json:"uploaded_by"`
	Kind         UploadKind `json:"kind"`
	OriginalName string     `json:"original_name"`
	Path         string     `json:"path"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	CreatedAt    time.Time  `json:"created_at"`
}
