package handler

// Wire messages of the backup.v1.Backups service, encoded with the JSON codec.
// Byte fields travel as standard base64.

type SetBackupIDRequest struct {
	MessagesBackupAuthCredentialRequest []byte `json:"messagesBackupAuthCredentialRequest,omitempty"`
	MediaBackupAuthCredentialRequest    []byte `json:"mediaBackupAuthCredentialRequest,omitempty"`
}

type SetBackupIDResponse struct{}

type CheckBackupIDRotationLimitRequest struct{}

type CheckBackupIDRotationLimitResponse struct {
	HasPermitsRemaining bool  `json:"hasPermitsRemaining"`
	RetryAfterSeconds   int64 `json:"retryAfterSeconds,omitempty"`
}

type GetBackupAuthCredentialsRequest struct {
	RedemptionStartSeconds int64 `json:"redemptionStartSeconds"`
	RedemptionEndSeconds   int64 `json:"redemptionEndSeconds"`
	// CredentialTypes limits issuance to the named types. Empty means all.
	CredentialTypes []string `json:"credentialTypes,omitempty"`
}

type BackupAuthCredential struct {
	Credential     []byte `json:"credential"`
	RedemptionTime int64  `json:"redemptionTime"`
}

type GetBackupAuthCredentialsResponse struct {
	// Credentials are keyed by credential type name ("messages", "media").
	Credentials map[string][]BackupAuthCredential `json:"credentials"`
}

type RedeemReceiptRequest struct {
	ReceiptCredentialPresentation []byte `json:"receiptCredentialPresentation"`
}

type RedeemReceiptResponse struct{}

type GetUploadFormRequest struct{}

type UploadForm struct {
	CDN                  int               `json:"cdn"`
	Key                  string            `json:"key"`
	Headers              map[string]string `json:"headers"`
	SignedUploadLocation string            `json:"signedUploadLocation"`
}

type SourceAttachment struct {
	CDN int    `json:"cdn"`
	Key string `json:"key"`
}

type PrepareMediaCopyRequest struct {
	SourceAttachment SourceAttachment `json:"sourceAttachment"`
	ObjectLength     int64            `json:"objectLength"`
	MediaID          []byte           `json:"mediaId"`
	// Keys are base64 encoded 32-byte AES and HMAC keys.
	EncryptionKey string `json:"encryptionKey"`
	HMACKey       string `json:"hmacKey"`
}

type PrepareMediaCopyResponse struct {
	DestinationObjectSize int64      `json:"destinationObjectSize"`
	Upload                UploadForm `json:"upload"`
}
