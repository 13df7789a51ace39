package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadBanner stores a competition banner image and returns its hosted URL.
func UploadBanner(data []byte) (string, error) {
	publicID := fmt.Sprintf("banner_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
	return uploadAsset(data, "quizarena_banners", publicID)
}

// UploadCertificateBackground stores a custom certificate background image.
func UploadCertificateBackground(data []byte, competitionID string) (string, error) {
	publicID := fmt.Sprintf("cert_bg_%s_%d", competitionID, time.Now().Unix())
	return uploadAsset(data, "quizarena_certificates", publicID)
}

func uploadAsset(data []byte, folder, publicID string) (string, error) {
	return uploadToCloudinaryFolder(data, folder, publicID)
}
