package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

var (
	ErrUnknownSlot  = errors.New("unknown file slot")
	ErrFileTooLarge = errors.New("file too large")
	ErrFileType     = errors.New("invalid file type")
)

// FileSlot names one of the draft's attachments.
type FileSlot string

const (
	SlotProfilePhoto FileSlot = "profile_photo"
	SlotIntroVideo   FileSlot = "intro_video"
	SlotCV           FileSlot = "cv_file"
)

var fileSlots = map[FileSlot]func(d *models.Draft) **models.FileRef{
	SlotProfilePhoto: func(d *models.Draft) **models.FileRef { return &d.ProfilePhoto },
	SlotIntroVideo:   func(d *models.Draft) **models.FileRef { return &d.IntroVideo },
	SlotCV:           func(d *models.Draft) **models.FileRef { return &d.CVFile },
}

// UploadPolicy is the size ceiling and accept list for one slot. Accept entries
// are either MIME patterns ("image/*", "application/pdf") or file extensions
// (".pdf").
type UploadPolicy struct {
	MaxBytes int64
	Accept   []string
}

const mb = 1024 * 1024

// DefaultUploadPolicies mirrors the limits of the upload widgets.
func DefaultUploadPolicies() map[FileSlot]UploadPolicy {
	return map[FileSlot]UploadPolicy{
		SlotProfilePhoto: {MaxBytes: 5 * mb, Accept: []string{"image/*"}},
		SlotIntroVideo:   {MaxBytes: 50 * mb, Accept: []string{"video/*"}},
		SlotCV:           {MaxBytes: 10 * mb, Accept: []string{".pdf", ".doc", ".docx"}},
	}
}

// Check validates the metadata of a candidate file.
func (p UploadPolicy) Check(f models.FileRef) error {
	if p.MaxBytes > 0 && f.Size > p.MaxBytes {
		return fmt.Errorf("%w: %s must be less than %dMB", ErrFileTooLarge, f.Name, p.MaxBytes/mb)
	}
	if len(p.Accept) == 0 {
		return nil
	}
	name := strings.ToLower(f.Name)
	ctype := strings.ToLower(strings.TrimSpace(f.ContentType))
	for _, a := range p.Accept {
		a = strings.ToLower(strings.TrimSpace(a))
		switch {
		case a == "*/*":
			return nil
		case strings.HasPrefix(a, "."):
			if strings.HasSuffix(name, a) {
				return nil
			}
		case strings.HasSuffix(a, "/*"):
			if strings.HasPrefix(ctype, strings.TrimSuffix(a, "*")) {
				return nil
			}
		case ctype == a:
			return nil
		}
	}
	return fmt.Errorf("%w: expected %s", ErrFileType, strings.Join(p.Accept, ","))
}
