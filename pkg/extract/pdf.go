package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/lumina-kb/backend/pkg/logger"
)

// Embedded images at or below this size are decorative (icons, logos) and
// are not worth a vision request.
const minEmbeddedImageBytes = 5000

type embeddedImage struct {
	data     []byte
	fileType string
	objNr    int
}

// extractPDF walks the document page by page, concatenating each page's text
// layer and appending vision descriptions for embedded raster images above
// the smallness threshold. A failing page or image contributes nothing; later
// pages are still processed.
func (e *Extractor) extractPDF(ctx context.Context, content []byte, fileKey string) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Error("[Extract] Failed to open PDF", "file_key", fileKey, "err", err)
		return ""
	}

	images := embeddedImagesByPage(content, fileKey)

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		sb.WriteString(pageText(reader, pageNum, fileKey))
		sb.WriteString("\n")

		for imgIdx, img := range images[pageNum] {
			if len(img.data) <= minEmbeddedImageBytes {
				continue
			}
			source := fmt.Sprintf("Page %d Image %d", pageNum, imgIdx+1)
			sb.WriteString(e.describeImage(ctx, img.data, fmt.Sprintf("data:image/%s;base64,", img.fileType), source))
		}
	}
	return sb.String()
}

// pageText extracts one page's text layer. The PDF reader panics on some
// malformed content streams, so the page is isolated behind a recover.
func pageText(reader *pdf.Reader, pageNum int, fileKey string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Extract] Page extraction panicked", "file_key", fileKey, "page", pageNum, "err", r)
			text = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Error("[Extract] Page extraction failed", "file_key", fileKey, "page", pageNum, "err", err)
		return ""
	}
	return text
}

// embeddedImagesByPage collects the document's embedded raster images keyed
// by page number, ordered by object number within a page. Failure to read
// images degrades to an empty map; text extraction proceeds without them.
func embeddedImagesByPage(content []byte, fileKey string) map[int][]embeddedImage {
	out := make(map[int][]embeddedImage)

	pageImages, err := pdfcpu.ExtractImagesRaw(bytes.NewReader(content), nil, model.NewDefaultConfiguration())
	if err != nil {
		logger.Error("[Extract] Failed to extract embedded images", "file_key", fileKey, "err", err)
		return out
	}

	for _, byObjNr := range pageImages {
		for objNr, img := range byObjNr {
			if img.Reader == nil {
				continue
			}
			data, err := io.ReadAll(img.Reader)
			if err != nil {
				logger.Error("[Extract] Failed to read embedded image", "file_key", fileKey, "page", img.PageNr, "err", err)
				continue
			}
			fileType := img.FileType
			if fileType == "" {
				fileType = "png"
			}
			out[img.PageNr] = append(out[img.PageNr], embeddedImage{
				data:     data,
				fileType: fileType,
				objNr:    objNr,
			})
		}
	}

	for pageNum := range out {
		sort.Slice(out[pageNum], func(i, j int) bool {
			return out[pageNum][i].objNr < out[pageNum][j].objNr
		})
	}
	return out
}
