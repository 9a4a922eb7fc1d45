package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/edumarket/course_market/configs"
	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// GenerateOrderReceipt renders a PDF receipt for a settled order, uploads it
// and stores the public URL on the order record. Runs in the background after
// settlement; a failure here never affects the ledger.
func GenerateOrderReceipt(order models.Order, buyer models.User) {
	htmlData, err := generateReceiptHTML(order, buyer)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML for order %s: %v", order.OrderNumber, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for order %s: %v", order.OrderNumber, err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, order.OrderNumber)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for order %s: %v", order.OrderNumber, err)
		return
	}

	if err := database.DB.Model(&models.Order{}).Where("id = ?", order.ID).Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for order %s: %v", order.OrderNumber, err)
		return
	}
	log.Printf("✅ Generated receipt for order %s.", order.OrderNumber)
}

func generateReceiptHTML(order models.Order, buyer models.User) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		OrderNumber string
		BuyerName   string
		OrderDate   string
		TotalPrice  string
		Items       []models.OrderItem
	}{
		OrderNumber: order.OrderNumber,
		BuyerName:   buyer.FullName,
		OrderDate:   order.OrderDate.Format("January 2, 2006"),
		TotalPrice:  fmt.Sprintf("%.2f", order.TotalPrice),
		Items:       order.Items,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, orderNumber string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", orderNumber, uuid.New().String()),
		Folder:       "course_market_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
