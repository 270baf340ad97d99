package media

import (
	"fmt"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// CopyParameters describes a single copy-and-encrypt operation between CDNs.
type CopyParameters struct {
	SourceCDN            int
	SourceKey            string
	SourceLength         int64
	EncryptionParameters EncryptionParameters
	DestinationMediaID   []byte
}

// NewCopyParameters validates and creates CopyParameters.
func NewCopyParameters(
	sourceCDN int,
	sourceKey string,
	sourceLength int64,
	params EncryptionParameters,
	destinationMediaID []byte,
) (CopyParameters, error) {
	if sourceKey == "" {
		return CopyParameters{}, fmt.Errorf("source key is empty")
	}
	if sourceLength < 0 {
		return CopyParameters{}, fmt.Errorf("source length must not be negative, got %d", sourceLength)
	}
	if len(destinationMediaID) == 0 {
		return CopyParameters{}, fmt.Errorf("destination media id is empty")
	}
	return CopyParameters{
		SourceCDN:            sourceCDN,
		SourceKey:            sourceKey,
		SourceLength:         sourceLength,
		EncryptionParameters: params,
		DestinationMediaID:   destinationMediaID,
	}, nil
}

// DestinationObjectSize is the size of the double-encrypted object after the copy.
func (c CopyParameters) DestinationObjectSize() int64 {
	return c.EncryptionParameters.OutputSize(c.SourceLength)
}

// CopyPlan is a copy prepared for a client: the parameters, the exact size of the
// destination object and where to upload it.
type CopyPlan struct {
	Parameters            CopyParameters
	DestinationObjectSize int64
	Upload                model.UploadDescriptor
}
