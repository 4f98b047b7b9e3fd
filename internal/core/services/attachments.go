package services

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/google/uuid"
)

// DefaultMaxAttachmentBytes is the per-file ceiling when none is configured.
const DefaultMaxAttachmentBytes int64 = 10 * 1024 * 1024

const maxFileNameLength = 255

// allowedAttachmentTypes maps accepted MIME types to the stored file extension.
var allowedAttachmentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
}

// pendingAttachment is a validated upload waiting to be written to the blob store.
type pendingAttachment struct {
	meta    domain.TransactionAttachment
	content []byte
}

// validateAttachments checks type, size and kind of every upload and assigns storage keys.
// The caller's file name is kept for display only.
func validateAttachments(uploads []dto.AttachmentUpload, maxBytes int64, now time.Time) ([]pendingAttachment, error) {
	verr := &apperrors.ValidationError{}
	out := make([]pendingAttachment, 0, len(uploads))

	explicitVoucher := false
	for _, u := range uploads {
		if u.Kind == domain.AttachmentVoucher {
			explicitVoucher = true
		}
	}

	vouchers := 0
	for i, u := range uploads {
		field := fmt.Sprintf("attachments[%d]", i)

		declared, err := normalizeMimeType(u.MimeType)
		ext, allowed := allowedAttachmentTypes[declared]
		if err != nil || !allowed {
			verr.Add(field+".mimeType", "only image and PDF attachments are allowed")
			continue
		}
		size := int64(len(u.Content))
		if size == 0 {
			verr.Add(field+".content", "attachment is empty")
			continue
		}
		if size > maxBytes {
			verr.Add(field+".content", fmt.Sprintf("attachment exceeds %d bytes", maxBytes))
			continue
		}
		if sniffed, _ := normalizeMimeType(http.DetectContentType(u.Content)); sniffed != declared {
			verr.Add(field+".content", "attachment content does not match its declared type")
			continue
		}

		kind := u.Kind
		switch {
		case kind == "" && !explicitVoucher && vouchers == 0:
			kind = domain.AttachmentVoucher
		case kind == "":
			kind = domain.AttachmentSupporting
		case kind != domain.AttachmentVoucher && kind != domain.AttachmentSupporting:
			verr.Add(field+".kind", fmt.Sprintf("unknown attachment kind '%s'", kind))
			continue
		}
		if kind == domain.AttachmentVoucher {
			vouchers++
			if vouchers > 1 {
				verr.Add(field+".kind", "only one VOUCHER attachment is allowed")
				continue
			}
		}

		out = append(out, pendingAttachment{
			meta: domain.TransactionAttachment{
				AttachmentType: kind,
				FileName:       displayFileName(u.FileName, ext),
				StorageKey:     storageKey(now, ext),
				MimeType:       declared,
				SizeBytes:      size,
				UploadedAt:     now,
			},
			content: u.Content,
		})
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

func normalizeMimeType(v string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(v))
	if err != nil {
		return "", err
	}
	return strings.ToLower(mediaType), nil
}

// displayFileName strips any path the client sent along with the name.
func displayFileName(name, ext string) string {
	base := strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if base == "" || base == "." || base == "/" {
		base = "attachment" + ext
	}
	if len(base) > maxFileNameLength {
		// keep the tail (and so the extension), starting on a rune boundary
		cut := len(base) - maxFileNameLength
		for cut < len(base) && !utf8.RuneStart(base[cut]) {
			cut++
		}
		base = base[cut:]
	}
	return base
}

// storageKey generates a unique, collision-free blob key.
func storageKey(now time.Time, ext string) string {
	return fmt.Sprintf("transactions/%s/%s%s", now.Format("2006/01"), uuid.NewString(), ext)
}
