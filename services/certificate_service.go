package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/quizarena/backend/configs"
	"github.com/quizarena/backend/models"
)

// GenerateCertificate renders the certificate image for a completed attempt and
// uploads it, returning the hosted URL. The layout comes from the competition's
// certificate settings.
func GenerateCertificate(record models.QuizRecord, competition models.Competition, settings models.ResolvedSettings) (string, error) {
	title := settings.CertificateTitle
	if title == "" {
		title = competition.Title
	}

	htmlData, err := renderCertificateHTML(certificateData{
		UserName:   record.UserName,
		Title:      title,
		Note:       settings.CertificateNote,
		Background: settings.CertificateBackground,
		Score:      record.Score,
		IssuedOn:   record.CreatedAt.Format("January 2, 2006"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render certificate HTML: %w", err)
	}

	pngBytes, err := screenshotHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("failed to render certificate image: %w", err)
	}

	url, err := uploadToCloudinaryFolder(pngBytes, "quizarena_certificates", fmt.Sprintf("certificate_%d", record.ID))
	if err != nil {
		return "", fmt.Errorf("failed to upload certificate: %w", err)
	}
	return url, nil
}

type certificateData struct {
	UserName   string
	Title      string
	Note       string
	Background string
	Score      int
	IssuedOn   string
}

func renderCertificateHTML(data certificateData) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func screenshotHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(1200, 850),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func uploadToCloudinaryFolder(data []byte, folder, publicID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID,
		Folder:   folder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
