// Package extract converts raw document bytes into plain text. It dispatches
// on the file extension: paged documents get per-page text plus vision
// descriptions of embedded images, raster images are described as a whole,
// and everything else is decoded as text. Extraction never fails past this
// boundary; sub-part failures degrade to empty contributions.
package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/lumina-kb/backend/pkg/ai"
	"github.com/lumina-kb/backend/pkg/logger"
)

// Extractor converts artifact bytes to text, delegating visual content to
// the AI client's vision capability.
type Extractor struct {
	aiClient ai.DocAIClient
}

// NewExtractor creates an Extractor backed by the given AI client.
func NewExtractor(aiClient ai.DocAIClient) *Extractor {
	return &Extractor{aiClient: aiClient}
}

// ExtractText converts the raw bytes of the named artifact into plain text.
// The result may be empty but extraction itself never errors.
func (e *Extractor) ExtractText(ctx context.Context, content []byte, fileKey string) string {
	logger.Info("[Extract] Extracting content", "file_key", fileKey)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileKey), "."))
	switch ext {
	case "pdf":
		return e.extractPDF(ctx, content, fileKey)
	case "jpg", "jpeg", "png", "webp":
		return e.describeImage(ctx, content, imageMimePrefix(ext), fmt.Sprintf("Uploaded File: %s", fileKey))
	default:
		return decodeText(content)
	}
}

// describeImage runs the vision capability over one image and returns its
// tagged description, or "" when the call fails. Failures never propagate.
func (e *Extractor) describeImage(ctx context.Context, data []byte, mimePrefix string, source string) string {
	logger.Info("[Extract] Analyzing visual content", "source", source)

	image := ai.ImageData{
		Base64:   base64.StdEncoding.EncodeToString(data),
		FileType: mimePrefix,
	}
	description, err := e.aiClient.GenerateImageDescription(ctx, ai.ImageDescriptionPrompt, image)
	if err != nil {
		logger.Error("[Extract] Vision request failed", "source", source, "err", err)
		return ""
	}

	return fmt.Sprintf("\n[IMAGE DESCRIPTION START (%s)]\n%s\n[IMAGE DESCRIPTION END]\n", source, description)
}

// decodeText decodes arbitrary bytes as UTF-8, falling back to a Latin-1
// decode which maps every byte to a rune and therefore cannot fail.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(content)
	return string(decoded)
}

func imageMimePrefix(ext string) string {
	if ext == "jpg" {
		ext = "jpeg"
	}
	return fmt.Sprintf("data:image/%s;base64,", ext)
}
