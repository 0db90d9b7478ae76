package marketapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ImageFile is an uploaded product image forwarded to the API.
type ImageFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ProductForm is the multipart body shared by product create and update.
type ProductForm struct {
	Name        string
	Price       decimal.Decimal
	Brand       string
	Barcode     string
	Description string
	Stock       float64
	Categories  []string
	// IsCampaign and IsActive are only sent when non-nil.
	IsCampaign *bool
	IsActive   *bool
	Image      *ImageFile
}

// Encode writes the form as multipart/form-data and returns the body with its
// content type (including the boundary).
func (f ProductForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", f.Name},
		{"price", f.Price.String()},
		{"brand", f.Brand},
		{"barcode", f.Barcode},
		{"description", f.Description},
		{"stock", strconv.FormatFloat(f.Stock, 'f', -1, 64)},
	}
	for _, c := range f.Categories {
		fields = append(fields, [2]string{"category", c})
	}
	if f.IsCampaign != nil {
		fields = append(fields, [2]string{"isCampaign", strconv.FormatBool(*f.IsCampaign)})
	}
	if f.IsActive != nil {
		fields = append(fields, [2]string{"isActive", strconv.FormatBool(*f.IsActive)})
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	if f.Image != nil && f.Image.Content != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(f.Image.Filename)))
		contentType := f.Image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Image.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
